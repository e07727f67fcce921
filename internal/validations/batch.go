package validations

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Pacer spaces project starts and caps how many projects run at once, so a
// batch stays inside upstream rate limits.
type Pacer struct {
	interval    time.Duration
	concurrency int
}

// NewPacer creates a Pacer that starts at most one project per interval and
// runs at most concurrency projects at a time. A zero interval disables spacing.
func NewPacer(interval time.Duration, concurrency int) *Pacer {
	return &Pacer{
		interval:    interval,
		concurrency: max(concurrency, 1),
	}
}

// Run calls fn once per index in [0, n). Each call owns its outcome; fn
// reports failures through its own results, never by stopping the batch.
// Run returns early only when ctx ends, after in-flight calls finish.
func (p *Pacer) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	limit := rate.Inf
	if p.interval > 0 {
		limit = rate.Every(p.interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i := range n {
		if err := limiter.Wait(ctx); err != nil {
			g.Wait()
			return err
		}
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}

	g.Wait()
	return ctx.Err()
}
