package workflow_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/JaimeStill/hackid/internal/workflow"
	"github.com/JaimeStill/hackid/pkg/github"
)

// githubServer serves acme/chess from mux and counts every request it sees.
// Unrouted paths answer 404 like GitHub does for missing content.
func githubServer(t *testing.T, mux *http.ServeMux, maxPages int) (*github.Repository, *atomic.Int64) {
	t.Helper()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeGitHub(w, http.StatusNotFound, `{"message":"Not Found"}`)
	})

	hits := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := github.New(
		&github.Config{BaseURL: srv.URL, Timeout: "5s", MaxCommitPages: maxPages},
		slog.New(slog.DiscardHandler),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client.Repository("acme", "chess"), hits
}

func writeGitHub(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func githubFile(w http.ResponseWriter, path, content string) {
	writeGitHub(w, http.StatusOK, fmt.Sprintf(
		`{"type":"file","name":%q,"path":%q,"encoding":"base64","content":%q}`,
		path, path, base64.StdEncoding.EncodeToString([]byte(content)),
	))
}

func TestValidateCountsEveryGitHubRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/chess/commits", func(w http.ResponseWriter, r *http.Request) {
		writeGitHub(w, http.StatusOK, `[
			{"sha":"b","commit":{"author":{"name":"Bo Chen","date":"2025-01-10T18:00:00Z"}}},
			{"sha":"a","commit":{"author":{"name":"Ann Lee","date":"2025-01-10T15:00:00Z"}}}
		]`)
	})
	mux.HandleFunc("GET /repos/acme/chess/languages", func(w http.ResponseWriter, r *http.Request) {
		writeGitHub(w, http.StatusOK, `{"Python": 4200, "JavaScript": 900}`)
	})
	mux.HandleFunc("GET /repos/acme/chess/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		githubFile(w, "package.json", `{"dependencies": {"react": "^18.2.0"}}`)
	})
	mux.HandleFunc("GET /repos/acme/chess/contents/main.py", func(w http.ResponseWriter, r *http.Request) {
		githubFile(w, "main.py", "import redis\n\ndef score(board):\n    return minimax(board)\n")
	})
	mux.HandleFunc("GET /search/code", func(w http.ResponseWriter, r *http.Request) {
		writeGitHub(w, http.StatusOK, `{"total_count":1,"items":[
			{"path":"main.py","text_matches":[{"fragment":"import redis"}]}
		]}`)
	})
	mux.HandleFunc("GET /repos/acme/chess/git/trees/HEAD", func(w http.ResponseWriter, r *http.Request) {
		writeGitHub(w, http.StatusOK, `{"sha":"t","truncated":false,"tree":[
			{"path":"README.md","type":"blob"},
			{"path":"src","type":"tree"},
			{"path":"src/util.py","type":"blob"},
			{"path":"main.py","type":"blob"}
		]}`)
	})

	repo, hits := githubServer(t, mux, 10)
	o := &scriptedOracle{replies: map[string][]reply{
		"tech":  {{text: `{"used": ["Redis"]}`}},
		"logic": {{text: `{"verdict": "VERIFIED", "reasoning": "main.py implements minimax"}`}},
	}}

	report, err := workflow.Validate(context.Background(), runtime(o), repo, semanticClaims(), scenarioWindow)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if report.Status != workflow.StatusVerified {
		t.Errorf("status: got %s, want VERIFIED (flags %v)", report.Status, report.Flags)
	}
	if report.CoreLogic.Status != workflow.LogicVerified {
		t.Errorf("core logic: got %s", report.CoreLogic.Status)
	}
	if want := int(hits.Load()) + o.count(); report.ExternalCallsUsed != want {
		t.Errorf("external calls: got %d, want %d served requests + %d oracle calls",
			report.ExternalCallsUsed, hits.Load(), o.count())
	}
}

func TestValidateTruncatedHistoryStillDisqualifies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/chess/commits", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("until") != "" || q.Get("page") == "2" {
			writeGitHub(w, http.StatusOK, `[
				{"sha":"o","commit":{"author":{"name":"Ann Lee","date":"2025-01-09T09:00:00Z"}}}
			]`)
			return
		}
		w.Header().Set("Link", `<https://api.github.com/repositories/1/commits?page=2>; rel="next"`)
		writeGitHub(w, http.StatusOK, `[
			{"sha":"n","commit":{"author":{"name":"Ann Lee","date":"2025-01-10T15:00:00Z"}}}
		]`)
	})

	repo, hits := githubServer(t, mux, 1)

	report, err := workflow.Validate(context.Background(), runtime(nil), repo, pythonClaims(), scenarioWindow)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if report.Status != workflow.StatusDisqualified {
		t.Fatalf("status: got %s, want DISQUALIFIED", report.Status)
	}
	if report.Timeline.PreStart != 1 {
		t.Errorf("pre-start commits: got %d, want 1", report.Timeline.PreStart)
	}
	// one listing page and one lookup before the start
	if report.ExternalCallsUsed != 2 || hits.Load() != 2 {
		t.Errorf("external calls: got %d reported, %d served, want 2", report.ExternalCallsUsed, hits.Load())
	}
}
