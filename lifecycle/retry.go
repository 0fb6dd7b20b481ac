package lifecycle

import (
	"context"
	"time"
)

// DefaultAttempts is the fixed attempt budget applied to external mutating
// calls.
const DefaultAttempts = 5

// RetryPolicy retries transient transport faults with a fixed delay between
// attempts. Permanent errors (upstream rejections, unknown resources) stop
// immediately.
type RetryPolicy struct {
	// Attempts is the total attempt budget. Zero means DefaultAttempts.
	Attempts int

	// Delay is the pause between attempts.
	Delay time.Duration
}

// Do runs fn until it succeeds, returns a permanent error, or the attempt
// budget is exhausted. The last error is returned on exhaustion.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay):
		}
	}
	return err
}
