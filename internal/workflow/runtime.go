package workflow

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/hackid/pkg/metrics"
	"github.com/JaimeStill/hackid/pkg/oracle"
	"github.com/JaimeStill/hackid/pkg/source"
)

// Options tunes the cost bounds of a run.
type Options struct {
	// SemanticLimit caps how many unresolved technologies get a code search.
	SemanticLimit int
	// SnippetBytes truncates each code search fragment.
	SnippetBytes int
	// SourceBytes truncates the main source file sent to the oracle.
	SourceBytes int
	// Retry governs oracle retries on rate-limit signals.
	Retry oracle.Backoff
	// Timeout bounds a whole run; zero means no bound beyond the caller's context.
	Timeout time.Duration
}

// DefaultOptions returns the standard cost bounds.
func DefaultOptions() Options {
	return Options{
		SemanticLimit: 5,
		SnippetBytes:  1500,
		SourceBytes:   8000,
		Retry:         oracle.Backoff{Attempts: 3, Base: 20 * time.Second},
	}
}

// Runtime bundles the dependencies shared by every run. It holds no per-run
// state, so one Runtime serves any number of concurrent validations.
type Runtime struct {
	// Oracle is optional; without it the semantic tier and core-logic check are skipped.
	Oracle  oracle.Oracle
	Options Options
	Logger  *slog.Logger
}

// run carries the state of a single validation. Counters live here rather
// than on Runtime so concurrent runs never share them.
type run struct {
	opts   Options
	repo   *source.Metered
	oracle *meteredOracle
	claims ClaimSet
	window Window
	logger *slog.Logger
}

func newRun(rt *Runtime, repo source.Repository, claims ClaimSet, window Window) *run {
	logger := rt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("system", "workflow")

	r := &run{
		opts:   rt.Options,
		repo:   source.Meter(repo),
		claims: claims,
		window: window,
		logger: logger,
	}
	if rt.Oracle != nil {
		r.oracle = &meteredOracle{
			oracle: rt.Oracle,
			retry:  rt.Options.Retry,
			logger: logger,
		}
	}
	return r
}

func (r *run) calls() int {
	n := r.repo.Calls()
	if r.oracle != nil {
		n += r.oracle.calls.Load()
	}
	return int(n)
}

type meteredOracle struct {
	oracle oracle.Oracle
	retry  oracle.Backoff
	calls  atomic.Int64
	logger *slog.Logger
}

func (m *meteredOracle) Complete(ctx context.Context, prompt string) (string, error) {
	return m.retry.Do(
		ctx,
		func(ctx context.Context) (string, error) {
			m.calls.Add(1)
			metrics.ExternalCalls.WithLabelValues(metrics.KindOracle).Inc()
			return m.oracle.Complete(ctx, prompt)
		},
		func(attempt int, delay time.Duration, err error) {
			metrics.OracleRetries.Inc()
			m.logger.WarnContext(
				ctx, "oracle rate limited, retrying",
				"attempt", attempt,
				"delay", delay,
				"error", err,
			)
		},
	)
}
