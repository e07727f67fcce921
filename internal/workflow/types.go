package workflow

import (
	"fmt"
	"time"
)

const (
	KeyTimeline = "timeline"
	KeyInWindow = "in_window"
	KeyCause    = "cause"
	KeyTech     = "tech"
	KeyTeam     = "team"
	KeyLogic    = "core_logic"
	KeyReport   = "report"
)

// Claim weights assigned by the upstream extractor.
const (
	WeightCore      = 1.0
	WeightSecondary = 0.5
	WeightMinor     = 0.2
)

// WeightedClaim is one claimed technology.
type WeightedClaim struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
	Reason string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Core reports whether the claim carries exactly the core weight. Weights
// off the extractor's scale are never core.
func (c WeightedClaim) Core() bool {
	return c.Weight == WeightCore
}

// ClaimSet is the immutable input describing one project.
type ClaimSet struct {
	TechStack   []WeightedClaim `json:"tech_stack" yaml:"tech_stack"`
	KeyFeatures []string        `json:"key_features" yaml:"key_features"`
	TeamMembers []string        `json:"team_members" yaml:"team_members"`
}

// Window is the claimed development window. Start and End carry their own
// offsets; every commit is compared in Start's location.
type Window struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Validate checks that the window is set and ordered.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: start and end required", ErrInvalidWindow)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: end %s precedes start %s", ErrInvalidWindow,
			w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// Status is the categorical verdict of a validation run.
type Status string

const (
	StatusVerified     Status = "VERIFIED"
	StatusFlagged      Status = "FLAGGED"
	StatusDisqualified Status = "DISQUALIFIED"
	StatusError        Status = "ERROR"
)

// TimelineVerdict buckets every observed commit against the window.
type TimelineVerdict struct {
	PreStart    int        `json:"pre_start_count"`
	InWindow    int        `json:"in_window_count"`
	Leeway      int        `json:"leeway_count"`
	AfterLeeway int        `json:"after_leeway_count"`
	FirstCommit *time.Time `json:"first_commit"`
	LastCommit  *time.Time `json:"last_commit"`
}

// Total returns the number of commits classified.
func (v TimelineVerdict) Total() int {
	return v.PreStart + v.InWindow + v.Leeway + v.AfterLeeway
}

// Disqualifying reports whether any commit predates the window.
func (v TimelineVerdict) Disqualifying() bool {
	return v.PreStart > 0
}

// Evidence records which tier confirmed a technology.
type Evidence string

const (
	EvidenceNotFound Evidence = "NOT_FOUND"
	EvidenceLanguage Evidence = "FOUND_BY_LANGUAGE"
	EvidenceKeyword  Evidence = "FOUND_BY_KEYWORD"
	EvidenceSemantic Evidence = "FOUND_BY_SEMANTIC"
)

// Found reports whether any tier confirmed the technology.
func (e Evidence) Found() bool {
	return e != "" && e != EvidenceNotFound
}

// Contributor is a commit author with their in-window commit count.
type Contributor struct {
	Name    string `json:"name"`
	Commits int    `json:"commit_count"`
}

// TeamVerdict partitions claimed members and lists heavy non-claimed authors.
type TeamVerdict struct {
	Matched      []string      `json:"matched"`
	Unmatched    []string      `json:"unmatched"`
	Unauthorized []Contributor `json:"unauthorized"`
}

// LogicStatus is the oracle's opinion of the main source file.
type LogicStatus string

const (
	LogicVerified     LogicStatus = "VERIFIED"
	LogicUnverified   LogicStatus = "UNVERIFIED"
	LogicContradicted LogicStatus = "CONTRADICTED"
	LogicSkipped      LogicStatus = "SKIPPED"
)

// CoreLogicVerdict is advisory and never changes status.
type CoreLogicVerdict struct {
	Status    LogicStatus `json:"status"`
	Reasoning string      `json:"reasoning,omitempty"`
	File      string      `json:"file,omitempty"`
}

// Report is the terminal artifact of one validation run.
type Report struct {
	Status            Status              `json:"status"`
	TechFound         []string            `json:"tech_found"`
	TechMissing       []string            `json:"tech_missing"`
	TechEvidence      map[string]Evidence `json:"tech_evidence"`
	Team              TeamVerdict         `json:"team"`
	Timeline          TimelineVerdict     `json:"timeline"`
	CoreLogic         CoreLogicVerdict    `json:"core_logic"`
	Flags             []string            `json:"flags"`
	Confidence        float64             `json:"confidence"`
	ExternalCallsUsed int                 `json:"external_calls_used"`
	Description       string              `json:"description"`
	Reasoning         string              `json:"reasoning"`
	CompletedAt       time.Time           `json:"completed_at"`
}
