package lifecycle

import (
	"context"
	"time"
)

// Waiter polls a resource's status at a fixed interval until it reports
// ready, a poll fails, or the wait budget is exhausted. The loop always
// resolves: timeout is a terminal PollTimeoutError, never an unresolved
// request.
type Waiter struct {
	// Interval is the pause between polls.
	Interval time.Duration

	// Timeout is the hard upper bound on total wait time.
	Timeout time.Duration
}

// Wait polls probe until it returns done. The probe's error is returned
// as-is; context cancellation and budget exhaustion are terminal.
func (w Waiter) Wait(ctx context.Context, probe func(context.Context) (done bool, err error)) error {
	deadline := time.Now().Add(w.Timeout)

	for {
		done, err := probe(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().Add(w.Interval).After(deadline) {
			return &PollTimeoutError{Waited: w.Timeout}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.Interval):
		}
	}
}
