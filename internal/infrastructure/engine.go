package infrastructure

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/hackid/internal/config"
	"github.com/JaimeStill/hackid/internal/workflow"
	"github.com/JaimeStill/hackid/pkg/github"
	"github.com/JaimeStill/hackid/pkg/oracle"
	"github.com/JaimeStill/hackid/pkg/source"
)

// Engine is everything a validation run needs without persistence.
type Engine struct {
	GitHub   *github.Client
	Workflow *workflow.Runtime

	// Location interprets naive schedule timestamps.
	Location *time.Location
	// BatchInterval and BatchConcurrency pace batch runs.
	BatchInterval    time.Duration
	BatchConcurrency int
}

// NewEngine builds the GitHub client, the optional oracle, and the workflow
// runtime from cfg. A disabled oracle leaves the semantic tier and the
// core-logic check skipped.
func NewEngine(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	gh, err := github.New(&cfg.GitHub, logger)
	if err != nil {
		return nil, fmt.Errorf("github init failed: %w", err)
	}

	orc, err := oracle.New(&cfg.Oracle)
	if err != nil {
		return nil, fmt.Errorf("oracle init failed: %w", err)
	}
	if orc == nil {
		logger.Info("oracle disabled; semantic tier and core-logic check will be skipped")
	} else {
		logger.Info("oracle configured", "provider", cfg.Oracle.Provider, "model", cfg.Oracle.Model)
	}

	return &Engine{
		GitHub: gh,
		Workflow: &workflow.Runtime{
			Oracle: orc,
			Options: workflow.Options{
				SemanticLimit: cfg.Validation.SemanticLimit,
				SnippetBytes:  cfg.Validation.SnippetBytes(),
				SourceBytes:   cfg.Validation.SourceBytes(),
				Retry:         cfg.Oracle.Retry(),
				Timeout:       cfg.Validation.TimeoutDuration(),
			},
			Logger: logger,
		},
		Location:         cfg.Validation.TimeLocation(),
		BatchInterval:    cfg.Validation.BatchIntervalDuration(),
		BatchConcurrency: cfg.Validation.BatchConcurrency,
	}, nil
}

// Open resolves a GitHub repository URL for the workflow.
func (e *Engine) Open(repoURL string) (source.Repository, error) {
	repo, err := e.GitHub.Open(repoURL)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
