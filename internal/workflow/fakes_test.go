package workflow_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/hackid/internal/workflow"
	"github.com/JaimeStill/hackid/pkg/oracle"
	"github.com/JaimeStill/hackid/pkg/source"
)

type fakeRepo struct {
	mu sync.Mutex

	langs      map[string]int64
	files      map[string]string
	commits    []source.Commit
	commitsErr error
	truncated  bool
	older      []source.Commit
	tree       []string
	search     map[string][]source.CodeMatch

	calls    map[string]int
	searched []string
	fetched  []string
}

func (f *fakeRepo) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

func (f *fakeRepo) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeRepo) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRepo) Languages(ctx context.Context) (map[string]int64, error) {
	f.record("languages")
	if f.langs == nil {
		return nil, source.ErrNotFound
	}
	return f.langs, nil
}

func (f *fakeRepo) File(ctx context.Context, path string) (string, error) {
	f.record("file")
	f.mu.Lock()
	f.fetched = append(f.fetched, path)
	f.mu.Unlock()
	content, ok := f.files[path]
	if !ok {
		return "", source.ErrNotFound
	}
	return content, nil
}

func (f *fakeRepo) Commits(ctx context.Context, since, until *time.Time) ([]source.Commit, error) {
	f.record("commits")
	if f.commitsErr != nil {
		return nil, f.commitsErr
	}
	if f.truncated {
		return f.commits, source.ErrTruncated
	}
	return f.commits, nil
}

func (f *fakeRepo) CommitsBefore(ctx context.Context, t time.Time, limit int) ([]source.Commit, error) {
	f.record("commits_before")
	var out []source.Commit
	for _, c := range f.older {
		if c.Timestamp.Before(t) && len(out) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Tree(ctx context.Context) ([]string, error) {
	f.record("tree")
	return f.tree, nil
}

func (f *fakeRepo) SearchCode(ctx context.Context, query string) ([]source.CodeMatch, error) {
	f.record("search")
	f.mu.Lock()
	f.searched = append(f.searched, query)
	f.mu.Unlock()
	return f.search[query], nil
}

// scriptedOracle answers by prompt stage; each reply is consumed in order.
type scriptedOracle struct {
	mu      sync.Mutex
	replies map[string][]reply
	prompts []string
}

type reply struct {
	text string
	err  error
}

func (o *scriptedOracle) Complete(ctx context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prompts = append(o.prompts, prompt)

	key := "logic"
	if strings.Contains(prompt, "Unconfirmed technologies") {
		key = "tech"
	}
	queue := o.replies[key]
	if len(queue) == 0 {
		return "", oracle.ErrEmptyResponse
	}
	r := queue[0]
	o.replies[key] = queue[1:]
	return r.text, r.err
}

func (o *scriptedOracle) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.prompts)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runtime(o oracle.Oracle) *workflow.Runtime {
	opts := workflow.DefaultOptions()
	opts.Retry = oracle.Backoff{Attempts: 3, Base: time.Millisecond}
	return &workflow.Runtime{
		Oracle:  o,
		Options: opts,
		Logger:  discard(),
	}
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

var scenarioWindow = workflow.Window{
	Start: at("2025-01-10T11:00:00Z"),
	End:   at("2025-01-11T11:00:00Z"),
}

func commit(author, ts string) source.Commit {
	return source.Commit{AuthorName: author, Timestamp: at(ts)}
}
