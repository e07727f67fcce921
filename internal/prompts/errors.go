package prompts

import "errors"

// ErrInvalidStage is returned for a stage with no registered template.
var ErrInvalidStage = errors.New("stage must be semantic_tech or core_logic")
