package oracle

import (
	"context"
	"time"
)

// Backoff retries rate-limited completions with a linear delay of
// Base × attempt between tries.
type Backoff struct {
	Attempts int
	Base     time.Duration
}

// Do invokes fn until it succeeds, returns a non-rate-limit error, or the
// attempt budget is spent. onRetry, when set, observes each rate-limited
// failure that will be retried.
func (b Backoff) Do(
	ctx context.Context,
	fn func(ctx context.Context) (string, error),
	onRetry func(attempt int, delay time.Duration, err error),
) (string, error) {
	attempts := max(b.Attempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !IsRateLimited(err) || attempt == attempts {
			return "", err
		}

		delay := b.Base * time.Duration(attempt)
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return "", lastErr
}
