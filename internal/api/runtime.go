package api

import (
	"github.com/JaimeStill/hackid/internal/config"
	"github.com/JaimeStill/hackid/internal/infrastructure"
	"github.com/JaimeStill/hackid/internal/validations"
	"github.com/JaimeStill/hackid/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// shared validation runner.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Runner     *validations.Runner
	Pacer      *validations.Pacer
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")
	engine := infra.Engine

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Engine:    engine,
		},
		Pagination: cfg.API.Pagination,
		Runner: validations.NewRunner(
			engine.Workflow,
			engine.Open,
			engine.Location,
			logger,
		),
		Pacer: validations.NewPacer(engine.BatchInterval, engine.BatchConcurrency),
	}
}
