// Package api assembles the API module with the validations system and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/hackid/internal/config"
	"github.com/JaimeStill/hackid/internal/infrastructure"
	"github.com/JaimeStill/hackid/pkg/middleware"
	"github.com/JaimeStill/hackid/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) *module.Module {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime.Logger)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m
}
