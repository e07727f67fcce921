// Package prompts holds the versioned prompt templates sent to the oracle.
// Each stage pairs tunable instructions with an immutable response
// specification; the parsing code in the workflow package depends only on the
// specification, so instructions can change without touching scoring.
package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies the engine step a prompt serves.
type Stage string

// Oracle-backed stages.
const (
	StageSemanticTech Stage = "semantic_tech"
	StageCoreLogic    Stage = "core_logic"
)

var stages = []Stage{
	StageSemanticTech,
	StageCoreLogic,
}

// versions changes whenever a stage's instructions or specification change.
var versions = map[Stage]string{
	StageSemanticTech: "2",
	StageCoreLogic:    "3",
}

// Stages returns the list of valid stages.
func Stages() []Stage {
	return stages
}

// Version returns the template version for a stage.
func Version(stage Stage) (string, error) {
	v, ok := versions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
