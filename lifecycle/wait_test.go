package lifecycle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaiter_ReachesActiveState(t *testing.T) {
	w := Waiter{Interval: time.Millisecond, Timeout: time.Second}

	polls := 0
	err := w.Wait(context.Background(), func(context.Context) (bool, error) {
		polls++
		return polls >= 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, polls)
}

func TestWaiter_TimeoutIsTerminalFailure(t *testing.T) {
	w := Waiter{Interval: time.Millisecond, Timeout: 10 * time.Millisecond}

	start := time.Now()
	err := w.Wait(context.Background(), func(context.Context) (bool, error) {
		return false, nil
	})
	elapsed := time.Since(start)

	var timeout *PollTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Less(t, elapsed, time.Second, "wait must not hang past its budget")
}

func TestWaiter_ProbeErrorStopsPolling(t *testing.T) {
	w := Waiter{Interval: time.Millisecond, Timeout: time.Second}

	polls := 0
	err := w.Wait(context.Background(), func(context.Context) (bool, error) {
		polls++
		return false, &TransportTimeoutError{Err: fmt.Errorf("connection reset")}
	})

	require.Error(t, err)
	assert.Equal(t, 1, polls)
	assert.True(t, IsTransient(err))
}

func TestWaiter_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	w := Waiter{Interval: 50 * time.Millisecond, Timeout: time.Minute}

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := w.Wait(ctx, func(context.Context) (bool, error) {
		return false, nil
	})

	require.ErrorIs(t, err, context.Canceled)
}
