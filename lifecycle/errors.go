package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

// SecretUnavailableError reports that a secret reference could not be
// resolved to a value.
type SecretUnavailableError struct {
	Ref string
	Err error
}

func (e *SecretUnavailableError) Error() string {
	return fmt.Sprintf("secret %s unavailable: %v", e.Ref, e.Err)
}

func (e *SecretUnavailableError) Unwrap() error { return e.Err }

// UpstreamRejectedError reports that the external API rejected the request
// as invalid. Upstream rejections are never retried.
type UpstreamRejectedError struct {
	Op  string
	Err error
}

func (e *UpstreamRejectedError) Error() string {
	return fmt.Sprintf("upstream rejected %s: %v", e.Op, e.Err)
}

func (e *UpstreamRejectedError) Unwrap() error { return e.Err }

// UnknownResourceError reports that the external API no longer knows the
// physical id.
type UnknownResourceError struct {
	PhysicalID string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown external resource %s", e.PhysicalID)
}

// TransportTimeoutError reports a transport-layer fault (timeout, connection
// failure) talking to the external API. Transport faults are transient and
// eligible for bounded retry.
type TransportTimeoutError struct {
	Err error
}

func (e *TransportTimeoutError) Error() string {
	return fmt.Sprintf("transport fault: %v", e.Err)
}

func (e *TransportTimeoutError) Unwrap() error { return e.Err }

// PollTimeoutError reports that a status-polling loop exhausted its wait
// budget without the resource reaching the expected state.
type PollTimeoutError struct {
	Waited time.Duration
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("resource did not become active within %s", e.Waited)
}

// IsTransient reports whether the error is a transport fault worth retrying.
// Validation errors and unknown-resource errors are permanent.
func IsTransient(err error) bool {
	var transport *TransportTimeoutError
	return errors.As(err, &transport)
}
