package validations

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/hackid/internal/workflow"
	"github.com/JaimeStill/hackid/pkg/source"
)

// OpenFunc resolves a repository URL into a repository capability.
type OpenFunc func(repoURL string) (source.Repository, error)

// Runner turns requests into unsaved validations. It is shared by the HTTP
// service and the command line.
type Runner struct {
	engine   *workflow.Runtime
	open     OpenFunc
	location *time.Location
	logger   *slog.Logger
}

// NewRunner creates a Runner. Naive schedule timestamps are read in loc.
func NewRunner(engine *workflow.Runtime, open OpenFunc, loc *time.Location, logger *slog.Logger) *Runner {
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{
		engine:   engine,
		open:     open,
		location: loc,
		logger:   logger.With("system", "runner"),
	}
}

// Run validates one project. Unresolvable windows and unusable repository
// URLs produce an ERROR report; only cancellation returns an error.
func (r *Runner) Run(ctx context.Context, req Request) (*Validation, error) {
	v := &Validation{
		RepoURL:      req.RepoURL,
		ProjectTitle: req.ProjectTitle,
		ProjectURL:   req.ProjectURL,
		Hackathon:    req.Hackathon,
		Claims:       req.Claims,
	}

	window, err := req.ResolveWindow(r.location)
	if err != nil {
		r.logger.WarnContext(ctx, "window unresolved", "repo", req.RepoURL, "error", err)
		return v.withReport(failedReport(req.Claims, err)), nil
	}
	v.WindowStart, v.WindowEnd = &window.Start, &window.End

	repo, err := r.open(req.RepoURL)
	if err != nil {
		r.logger.WarnContext(ctx, "repository unusable", "repo", req.RepoURL, "error", err)
		return v.withReport(failedReport(req.Claims, err)), nil
	}

	report, err := workflow.Validate(ctx, r.engine, repo, req.Claims, window)
	if err != nil {
		return nil, err
	}
	return v.withReport(report), nil
}

func (v *Validation) withReport(report *workflow.Report) *Validation {
	v.Report = *report
	v.Status = report.Status
	v.Confidence = report.Confidence
	v.ExternalCallsUsed = report.ExternalCallsUsed
	return v
}
