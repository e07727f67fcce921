// Package infrastructure assembles the systems shared by the HTTP service
// and the CLI: logging, the validation engine and its GitHub and oracle
// adapters, and for the service, the database, blob storage, and lifecycle.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/hackid/internal/config"
	"github.com/JaimeStill/hackid/pkg/database"
	"github.com/JaimeStill/hackid/pkg/lifecycle"
	"github.com/JaimeStill/hackid/pkg/storage"
)

// Infrastructure holds the core systems required by the API module.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Engine    *Engine
}

// New creates an Infrastructure from the application configuration.
// Systems are constructed but not started; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := cfg.Logging.NewLogger(os.Stderr)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	engine, err := NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Engine:    engine,
	}, nil
}

// Start registers database and storage hooks with the lifecycle coordinator
// and exposes the database as a readiness check.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	i.Lifecycle.AddCheck("database", i.Database.Ping)
	return nil
}
