package main

import (
	"os"

	"github.com/JaimeStill/hackid/internal/config"
	"github.com/JaimeStill/hackid/internal/infrastructure"
	"github.com/JaimeStill/hackid/internal/validations"
)

type engine struct {
	runner *validations.Runner
	pacer  *validations.Pacer
}

func flagOverlay() *config.Config {
	overlay := &config.Config{}
	overlay.GitHub.Token = rootFlags.token
	overlay.Oracle.Provider = rootFlags.provider
	overlay.Oracle.Model = rootFlags.model
	overlay.Logging.Level = rootFlags.logLevel
	return overlay
}

func newEngine() (*engine, error) {
	cfg, err := config.LoadEngine(rootFlags.config, flagOverlay())
	if err != nil {
		return nil, err
	}

	logger := cfg.Logging.NewLogger(os.Stderr)
	e, err := infrastructure.NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &engine{
		runner: validations.NewRunner(e.Workflow, e.Open, e.Location, logger),
		pacer:  validations.NewPacer(e.BatchInterval, e.BatchConcurrency),
	}, nil
}
