// Package scheduler runs a function immediately and then on a fixed interval
// until the context is canceled. Time comes from a clockwork.Clock so tests
// can drive ticks with a fake clock.
package scheduler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Run calls fn once right away and then every interval. A run that outlasts
// the interval delays the next one; ticks are never queued. Run returns
// ctx.Err() when ctx is done.
func Run(ctx context.Context, clock clockwork.Clock, interval time.Duration, fn func(context.Context)) error {
	if interval <= 0 {
		fn(ctx)
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	fn(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fn(ctx)
		}
	}
}
