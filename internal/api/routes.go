package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/hackid/internal/config"
	"github.com/JaimeStill/hackid/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config, logger *slog.Logger) {
	groups := []routes.Group{
		domain.Validations.Handler(cfg.API.MaxBodySizeBytes()).Routes(),
	}

	routes.Register(mux, groups...)

	for _, g := range groups {
		for _, p := range g.Patterns() {
			logger.Debug("route registered", "pattern", p, "base", cfg.API.BasePath)
		}
	}
}
