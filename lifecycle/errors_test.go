package lifecycle

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{
			name:      "transport timeout",
			err:       &TransportTimeoutError{Err: fmt.Errorf("dial tcp: i/o timeout")},
			transient: true,
		},
		{
			name:      "wrapped transport timeout",
			err:       fmt.Errorf("creating endpoint: %w", &TransportTimeoutError{Err: fmt.Errorf("timeout")}),
			transient: true,
		},
		{
			name:      "upstream rejection",
			err:       &UpstreamRejectedError{Op: "create", Err: fmt.Errorf("invalid url")},
			transient: false,
		},
		{
			name:      "unknown resource",
			err:       &UnknownResourceError{PhysicalID: "we_123"},
			transient: false,
		},
		{
			name:      "secret unavailable",
			err:       &SecretUnavailableError{Ref: "prod/stripe", Err: fmt.Errorf("not found")},
			transient: false,
		},
		{
			name:      "plain error",
			err:       errors.New("boom"),
			transient: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, IsTransient(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t,
		(&SecretUnavailableError{Ref: "prod/stripe#api_key", Err: fmt.Errorf("access denied")}).Error(),
		"prod/stripe#api_key")

	assert.Contains(t,
		(&UnknownResourceError{PhysicalID: "we_123"}).Error(),
		"we_123")

	assert.Contains(t,
		(&PollTimeoutError{Waited: 2 * time.Minute}).Error(),
		"2m0s")
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("root cause")

	assert.ErrorIs(t, &SecretUnavailableError{Ref: "x", Err: inner}, inner)
	assert.ErrorIs(t, &UpstreamRejectedError{Op: "update", Err: inner}, inner)
	assert.ErrorIs(t, &TransportTimeoutError{Err: inner}, inner)
}
