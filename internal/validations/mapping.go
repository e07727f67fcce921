package validations

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/hackid/internal/workflow"
	"github.com/JaimeStill/hackid/pkg/query"
	"github.com/JaimeStill/hackid/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "validations", "v").
	Project("id", "ID").
	Project("repo_url", "RepoURL").
	Project("project_title", "ProjectTitle").
	Project("project_url", "ProjectURL").
	Project("hackathon", "Hackathon").
	Project("window_start", "WindowStart").
	Project("window_end", "WindowEnd").
	Project("status", "Status").
	Project("confidence", "Confidence").
	Project("external_calls_used", "ExternalCallsUsed").
	Project("claims", "Claims").
	Project("report", "Report").
	Project("storage_key", "StorageKey").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for validation queries.
// Status and Hackathon match exactly; RepoURL is a case-insensitive contains match.
// MinConfidence keeps validations scoring at or above the bound.
type Filters struct {
	Status        *string  `json:"status,omitempty"`
	Hackathon     *string  `json:"hackathon,omitempty"`
	RepoURL       *string  `json:"repo_url,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Hackathon", f.Hackathon).
		WhereContains("RepoURL", f.RepoURL).
		WhereAtLeast("Confidence", f.MinConfidence)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Status values are upper-cased to match stored verdicts.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		s = strings.ToUpper(s)
		f.Status = &s
	}

	if h := values.Get("hackathon"); h != "" {
		f.Hackathon = &h
	}

	if r := values.Get("repo_url"); r != "" {
		f.RepoURL = &r
	}

	if c, err := strconv.ParseFloat(values.Get("min_confidence"), 64); err == nil {
		f.MinConfidence = &c
	}

	return f
}

func scanValidation(s repository.Scanner) (Validation, error) {
	var (
		v      Validation
		claims []byte
		report []byte
	)
	err := s.Scan(
		&v.ID,
		&v.RepoURL,
		&v.ProjectTitle,
		&v.ProjectURL,
		&v.Hackathon,
		&v.WindowStart,
		&v.WindowEnd,
		&v.Status,
		&v.Confidence,
		&v.ExternalCallsUsed,
		&claims,
		&report,
		&v.StorageKey,
		&v.CreatedAt,
	)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(claims, &v.Claims); err != nil {
		return v, fmt.Errorf("decode claims: %w", err)
	}
	if err := json.Unmarshal(report, &v.Report); err != nil {
		return v, fmt.Errorf("decode report: %w", err)
	}
	return v, nil
}

func failedReport(claims workflow.ClaimSet, err error) *workflow.Report {
	report := workflow.ErrorReport(err.Error())
	report.Description = workflow.Describe(report, claims)
	report.Reasoning = workflow.Reason(report, claims)
	return report
}
