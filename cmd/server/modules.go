package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/hackid/internal/api"
	"github.com/JaimeStill/hackid/internal/config"
	"github.com/JaimeStill/hackid/internal/infrastructure"
	"github.com/JaimeStill/hackid/pkg/lifecycle"
	"github.com/JaimeStill/hackid/pkg/metrics"
	"github.com/JaimeStill/hackid/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) *Modules {
	return &Modules{
		API: api.NewModule(cfg, infra),
	}
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", http.HandlerFunc(healthz))
	router.HandleNative("GET /readyz", readyz(infra.Lifecycle))
	router.HandleNative("GET /metrics", metrics.Handler())

	return router
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz reports 503 with the failing checks until startup completes and
// every registered check passes.
func readyz(lc *lifecycle.Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failed := lc.Probe(r.Context())
		if len(failed) == 0 {
			writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
			return
		}

		checks := make(map[string]string, len(failed))
		for name, err := range failed {
			checks[name] = err.Error()
		}
		writeStatus(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"checks": checks,
		})
	})
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
