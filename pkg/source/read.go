package source

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/hackid/pkg/metrics"
)

// Status classifies the outcome of a single metered read.
type Status int

const (
	// StatusOK means the read produced a value.
	StatusOK Status = iota
	// StatusEmpty means the source exists but holds nothing for the request.
	StatusEmpty
	// StatusFailed means the read failed; the value carries no evidence.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Read is the explicit result of a repository call. Missing files and API
// failures are ordinary outcomes, so they are carried as data.
// Truncated marks a listing that holds only its newest entries.
type Read[T any] struct {
	Value     T
	Status    Status
	Err       error
	Truncated bool
}

// OK reports whether the read produced a value.
func (r Read[T]) OK() bool {
	return r.Status == StatusOK
}

func settle[T any](v T, err error) Read[T] {
	switch {
	case err == nil:
		return Read[T]{Value: v, Status: StatusOK}
	case errors.Is(err, ErrTruncated):
		return Read[T]{Value: v, Status: StatusOK, Truncated: true}
	case errors.Is(err, ErrNotFound):
		return Read[T]{Status: StatusEmpty, Err: err}
	default:
		return Read[T]{Status: StatusFailed, Err: err}
	}
}

// Metered wraps a Repository and counts every call made through it.
// A Metered value belongs to one validation run.
type Metered struct {
	repo  Repository
	calls atomic.Int64
}

// Meter returns a Metered wrapper with a zeroed counter.
func Meter(repo Repository) *Metered {
	return &Metered{repo: repo}
}

// Calls returns the number of repository requests issued so far. When the
// wrapped repository is a Requester its own count is used, so paged calls
// count every page.
func (m *Metered) Calls() int64 {
	if rq, ok := m.repo.(Requester); ok {
		return rq.Requests()
	}
	return m.calls.Load()
}

func (m *Metered) count() {
	m.calls.Add(1)
	metrics.ExternalCalls.WithLabelValues(metrics.KindRepository).Inc()
}

func (m *Metered) Languages(ctx context.Context) Read[map[string]int64] {
	m.count()
	return settle(m.repo.Languages(ctx))
}

func (m *Metered) File(ctx context.Context, path string) Read[string] {
	m.count()
	r := settle(m.repo.File(ctx, path))
	if r.OK() && r.Value == "" {
		r.Status = StatusEmpty
	}
	return r
}

func (m *Metered) Commits(ctx context.Context, since, until *time.Time) Read[[]Commit] {
	m.count()
	return settle(m.repo.Commits(ctx, since, until))
}

func (m *Metered) CommitsBefore(ctx context.Context, t time.Time, limit int) Read[[]Commit] {
	m.count()
	r := settle(m.repo.CommitsBefore(ctx, t, limit))
	if r.OK() && len(r.Value) == 0 {
		r.Status = StatusEmpty
	}
	return r
}

func (m *Metered) Tree(ctx context.Context) Read[[]string] {
	m.count()
	r := settle(m.repo.Tree(ctx))
	if r.OK() && len(r.Value) == 0 {
		r.Status = StatusEmpty
	}
	return r
}

func (m *Metered) SearchCode(ctx context.Context, query string) Read[[]CodeMatch] {
	m.count()
	r := settle(m.repo.SearchCode(ctx, query))
	if r.OK() && len(r.Value) == 0 {
		r.Status = StatusEmpty
	}
	return r
}
