package validations_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/hackid/internal/validations"
	"github.com/JaimeStill/hackid/internal/workflow"
	"github.com/JaimeStill/hackid/pkg/pagination"
)

type mockSystem struct {
	validateFn func(ctx context.Context, req validations.Request) (*validations.Validation, error)
	batchFn    func(ctx context.Context, reqs []validations.Request) ([]validations.BatchResult, error)
	listFn     func(ctx context.Context, page pagination.PageRequest, filters validations.Filters) (*pagination.PageResult[validations.Validation], error)
	findFn     func(ctx context.Context, id uuid.UUID) (*validations.Validation, error)
	artifactFn func(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler(maxBodySize int64) *validations.Handler {
	return newTestHandler(m, maxBodySize)
}

func (m *mockSystem) Validate(ctx context.Context, req validations.Request) (*validations.Validation, error) {
	return m.validateFn(ctx, req)
}

func (m *mockSystem) Batch(ctx context.Context, reqs []validations.Request) ([]validations.BatchResult, error) {
	return m.batchFn(ctx, reqs)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters validations.Filters) (*pagination.PageResult[validations.Validation], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*validations.Validation, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Artifact(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	return m.artifactFn(ctx, id)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func newTestHandler(sys validations.System, maxBodySize int64) *validations.Handler {
	return validations.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		maxBodySize,
	)
}

func setupMux(h *validations.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

var sampleID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

func sampleValidation() validations.Validation {
	return validations.Validation{
		ID:                sampleID,
		RepoURL:           "https://github.com/acme/chess",
		ProjectTitle:      "Chess Bot",
		Status:            workflow.StatusVerified,
		Confidence:        0.96,
		ExternalCallsUsed: 2,
		StorageKey:        "validations/" + sampleID.String() + ".json",
	}
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func TestHandlerValidate(t *testing.T) {
	var captured validations.Request
	sys := &mockSystem{
		validateFn: func(_ context.Context, req validations.Request) (*validations.Validation, error) {
			captured = req
			if req.RepoURL == "" {
				return nil, fmt.Errorf("%w: repo_url required", validations.ErrInvalidRequest)
			}
			v := sampleValidation()
			return &v, nil
		},
	}
	mux := setupMux(sys.Handler(1024))

	t.Run("creates validation", func(t *testing.T) {
		body := `{"repo_url":"https://github.com/acme/chess","claims":{"tech_stack":[{"name":"Go","weight":1}]}}`
		rec := serve(mux, "POST", "/validations", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.RepoURL != "https://github.com/acme/chess" {
			t.Errorf("repo_url = %q", captured.RepoURL)
		}
		if len(captured.Claims.TechStack) != 1 || captured.Claims.TechStack[0].Name != "Go" {
			t.Errorf("tech_stack = %+v", captured.Claims.TechStack)
		}

		var got validations.Validation
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Status != workflow.StatusVerified {
			t.Errorf("status = %s, want VERIFIED", got.Status)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		rec := serve(mux, "POST", "/validations", `{"repo_url":`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		body := `{"repo_url":"` + strings.Repeat("a", 2048) + `"}`
		rec := serve(mux, "POST", "/validations", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("maps invalid request", func(t *testing.T) {
		rec := serve(mux, "POST", "/validations", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerBatch(t *testing.T) {
	sys := &mockSystem{
		batchFn: func(_ context.Context, reqs []validations.Request) ([]validations.BatchResult, error) {
			results := make([]validations.BatchResult, len(reqs))
			for i, req := range reqs {
				results[i].RepoURL = req.RepoURL
				if i == 0 {
					v := sampleValidation()
					results[i].Validation = &v
					continue
				}
				results[i].Error = "storage unavailable"
			}
			return results, nil
		},
	}
	mux := setupMux(newTestHandler(sys, 0))

	t.Run("summarizes results", func(t *testing.T) {
		body := `{"projects":[{"repo_url":"github.com/a/one"},{"repo_url":"github.com/a/two"}]}`
		rec := serve(mux, "POST", "/validations/batch", body)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got validations.BatchResponse
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Results) != 2 {
			t.Fatalf("results = %d, want 2", len(got.Results))
		}
		if got.Summary.Total != 2 || got.Summary.Failed != 1 {
			t.Errorf("summary = %+v", got.Summary)
		}
		if got.Summary.ByStatus[workflow.StatusVerified] != 1 {
			t.Errorf("verified = %d, want 1", got.Summary.ByStatus[workflow.StatusVerified])
		}
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		rec := serve(mux, "POST", "/validations/batch", `{"projects":[]}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerList(t *testing.T) {
	var captured validations.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f validations.Filters) (*pagination.PageResult[validations.Validation], error) {
			captured = f
			result := pagination.NewPageResult([]validations.Validation{sampleValidation()}, 1, 1, 20)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys, 0))

	rec := serve(mux, "GET", "/validations?status=flagged&hackathon=spring", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[validations.Validation]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 || len(result.Data) != 1 {
		t.Errorf("result = %+v", result)
	}
	if captured.Status == nil || *captured.Status != "FLAGGED" {
		t.Errorf("status filter = %v, want FLAGGED", captured.Status)
	}
	if captured.Hackathon == nil || *captured.Hackathon != "spring" {
		t.Errorf("hackathon filter = %v, want spring", captured.Hackathon)
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*validations.Validation, error) {
			if id != sampleID {
				return nil, validations.ErrNotFound
			}
			v := sampleValidation()
			return &v, nil
		},
	}
	mux := setupMux(newTestHandler(sys, 0))

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"found", "/validations/" + sampleID.String(), http.StatusOK},
		{"not found", "/validations/" + uuid.New().String(), http.StatusNotFound},
		{"invalid id", "/validations/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, "GET", tt.target, "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerArtifact(t *testing.T) {
	sys := &mockSystem{
		artifactFn: func(_ context.Context, id uuid.UUID) (io.ReadCloser, error) {
			if id != sampleID {
				return nil, validations.ErrArtifactMissing
			}
			return io.NopCloser(strings.NewReader(`{"status":"VERIFIED"}`)), nil
		},
	}
	mux := setupMux(newTestHandler(sys, 0))

	t.Run("streams artifact", func(t *testing.T) {
		rec := serve(mux, "GET", "/validations/"+sampleID.String()+"/artifact", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if !strings.Contains(rec.Header().Get("Content-Disposition"), sampleID.String()+".json") {
			t.Errorf("disposition = %q", rec.Header().Get("Content-Disposition"))
		}
		if rec.Body.String() != `{"status":"VERIFIED"}` {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		rec := serve(mux, "GET", "/validations/"+uuid.New().String()+"/artifact", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			if id != sampleID {
				return validations.ErrNotFound
			}
			return nil
		},
	}
	mux := setupMux(newTestHandler(sys, 0))

	if rec := serve(mux, "DELETE", "/validations/"+sampleID.String(), ""); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec := serve(mux, "DELETE", "/validations/"+uuid.New().String(), ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
