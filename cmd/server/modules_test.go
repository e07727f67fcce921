package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/hackid/pkg/lifecycle"
)

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*lifecycle.Coordinator)
		status int
		failed string
	}{
		{
			name:   "before startup",
			setup:  func(*lifecycle.Coordinator) {},
			status: http.StatusServiceUnavailable,
			failed: "startup",
		},
		{
			name: "ready",
			setup: func(lc *lifecycle.Coordinator) {
				lc.AddCheck("database", func(context.Context) error { return nil })
				lc.WaitForStartup()
			},
			status: http.StatusOK,
		},
		{
			name: "failing check",
			setup: func(lc *lifecycle.Coordinator) {
				lc.AddCheck("database", func(context.Context) error { return errors.New("down") })
				lc.WaitForStartup()
			},
			status: http.StatusServiceUnavailable,
			failed: "database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := lifecycle.New()
			tt.setup(lc)

			rec := httptest.NewRecorder()
			readyz(lc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.failed == "" {
				return
			}

			var body struct {
				Checks map[string]string `json:"checks"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := body.Checks[tt.failed]; !ok {
				t.Errorf("checks = %v, want %s", body.Checks, tt.failed)
			}
		})
	}
}
