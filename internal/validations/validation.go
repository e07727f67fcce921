// Package validations implements the stored side of project validation.
// It runs the workflow engine for one project or a paced batch, persists each
// report to PostgreSQL, and keeps a JSON artifact of the report in blob storage.
package validations

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/hackid/internal/workflow"
)

// Validation is a stored validation record.
type Validation struct {
	ID                uuid.UUID         `json:"id"`
	RepoURL           string            `json:"repo_url"`
	ProjectTitle      string            `json:"project_title"`
	ProjectURL        string            `json:"project_url"`
	Hackathon         string            `json:"hackathon"`
	WindowStart       *time.Time        `json:"window_start"`
	WindowEnd         *time.Time        `json:"window_end"`
	Status            workflow.Status   `json:"status"`
	Confidence        float64           `json:"confidence"`
	ExternalCallsUsed int               `json:"external_calls_used"`
	Claims            workflow.ClaimSet `json:"claims"`
	Report            workflow.Report   `json:"report"`
	StorageKey        string            `json:"storage_key"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Request describes one project to validate. Window takes precedence over
// Schedule; with neither, the run ends in an ERROR report.
type Request struct {
	RepoURL      string            `json:"repo_url" yaml:"repo_url"`
	ProjectTitle string            `json:"project_title" yaml:"project_title"`
	ProjectURL   string            `json:"project_url" yaml:"project_url"`
	Hackathon    string            `json:"hackathon" yaml:"hackathon"`
	Claims       workflow.ClaimSet `json:"claims" yaml:"claims"`
	Window       *workflow.Window  `json:"window,omitempty" yaml:"window,omitempty"`
	Schedule     []workflow.Period `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// Validate checks the fields a request cannot run without.
func (r Request) Validate() error {
	if strings.TrimSpace(r.RepoURL) == "" {
		return fmt.Errorf("%w: repo_url required", ErrInvalidRequest)
	}
	for _, c := range r.Claims.TechStack {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: tech_stack entry without name", ErrInvalidRequest)
		}
		if c.Weight < 0 || c.Weight > 1 {
			return fmt.Errorf("%w: weight for %s must be within [0,1]", ErrInvalidRequest, c.Name)
		}
	}
	return nil
}

// ResolveWindow returns the explicit window or derives one from the schedule.
// Naive schedule timestamps are read in loc.
func (r Request) ResolveWindow(loc *time.Location) (workflow.Window, error) {
	if r.Window != nil {
		return *r.Window, nil
	}
	return workflow.SubmissionWindow(r.Schedule, loc)
}

// BatchRequest carries the projects of one batch run.
type BatchRequest struct {
	Projects []Request `json:"projects" yaml:"projects"`
}

// BatchResult reports the outcome of one project within a batch.
// On success Validation is set and Error is empty.
type BatchResult struct {
	Validation *Validation `json:"validation,omitempty"`
	RepoURL    string      `json:"repo_url"`
	Error      string      `json:"error,omitempty"`
}

// Summary totals a batch by status.
type Summary struct {
	Total             int                     `json:"total"`
	ByStatus          map[workflow.Status]int `json:"by_status"`
	Failed            int                     `json:"failed"`
	ExternalCallsUsed int                     `json:"external_calls_used"`
}

// Summarize tallies batch results. Results without a validation count as failed.
func Summarize(results []BatchResult) Summary {
	s := Summary{
		Total:    len(results),
		ByStatus: make(map[workflow.Status]int),
	}
	for _, r := range results {
		if r.Validation == nil {
			s.Failed++
			continue
		}
		s.ByStatus[r.Validation.Status]++
		s.ExternalCallsUsed += r.Validation.ExternalCallsUsed
	}
	return s
}

// BatchResponse is the body returned for a batch run.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
	Summary Summary       `json:"summary"`
}
