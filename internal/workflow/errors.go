// Package workflow implements the validation engine. It classifies repository
// history against a claimed window, resolves claimed technologies through three
// escalating evidence tiers, attributes commits to claimed members, asks the
// oracle for a lenient opinion on the main source file, and folds everything
// into one status and one confidence score.
//
// Execution is a state graph (timeline → evidence? → finalize). A pre-start
// commit routes straight to finalize so no further calls are spent.
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrInvalidWindow     = errors.New("invalid timeline window")
	ErrRepoInaccessible  = errors.New("repository inaccessible")
	ErrMissingState      = errors.New("missing workflow state")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrNoSubmissionRange = errors.New("schedule has no periods")
)
