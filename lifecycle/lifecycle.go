// Package lifecycle implements the external-resource lifecycle adapter
// pattern behind CloudFormation custom resources.
//
// A custom resource provider receives create/update/delete requests for a
// resource CloudFormation cannot manage natively (a Stripe webhook endpoint,
// injected Lambda configuration), performs the external API call, and
// reports a terminal outcome carrying the external system's own identifier
// (the physical id). Adapters are plugged into Dispatch, which owns the
// operation dispatch and failure reporting contract; adapters only talk to
// their external service.
package lifecycle

import (
	"context"
	"fmt"
)

// Operation is a lifecycle operation.
type Operation string

// Lifecycle operations.
const (
	OperationCreate Operation = "Create"
	OperationUpdate Operation = "Update"
	OperationDelete Operation = "Delete"
)

// Request is a single lifecycle request. Requests are constructed once per
// invocation; the external resource is the only durable state.
type Request struct {
	// Operation selects the lifecycle action.
	Operation Operation

	// PhysicalID is the external resource identifier produced by a prior
	// Create. Required for Update and Delete; the adapter never invents
	// or guesses identifiers.
	PhysicalID string

	// Properties are opaque business parameters (target URL, event list,
	// secret references).
	Properties map[string]any
}

// Result is a successful adapter outcome.
type Result struct {
	// PhysicalID is the external resource's own identifier.
	PhysicalID string

	// Payload is the response data, with secrets redacted.
	Payload map[string]any
}

// Adapter manages one kind of external resource.
type Adapter interface {
	// Create provisions the external resource and returns its physical id.
	Create(ctx context.Context, props map[string]any) (*Result, error)

	// Update modifies the external resource identified by physicalID.
	Update(ctx context.Context, physicalID string, props map[string]any) (*Result, error)

	// Delete removes the external resource. An already-absent resource is
	// success: delete is idempotent.
	Delete(ctx context.Context, physicalID string) error
}

// Status is the terminal status of a lifecycle request.
type Status string

// Terminal statuses.
const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// Outcome is the terminal result reported to the orchestration framework.
// Every dispatch produces exactly one Outcome; a request is never left
// unresolved.
type Outcome struct {
	Status     Status
	PhysicalID string
	Reason     string
	Data       map[string]any
}

// Dispatch routes a request to the adapter and converts the result or error
// into a terminal outcome.
func Dispatch(ctx context.Context, a Adapter, req Request) Outcome {
	switch req.Operation {
	case OperationCreate:
		res, err := a.Create(ctx, req.Properties)
		if err != nil {
			return failed(req.PhysicalID, err)
		}
		return succeeded(res)

	case OperationUpdate:
		if req.PhysicalID == "" {
			return failed("", fmt.Errorf("update request carries no physical id"))
		}
		res, err := a.Update(ctx, req.PhysicalID, req.Properties)
		if err != nil {
			return failed(req.PhysicalID, err)
		}
		return succeeded(res)

	case OperationDelete:
		if req.PhysicalID == "" {
			return failed("", fmt.Errorf("delete request carries no physical id"))
		}
		if err := a.Delete(ctx, req.PhysicalID); err != nil {
			return failed(req.PhysicalID, err)
		}
		return Outcome{Status: StatusSuccess, PhysicalID: req.PhysicalID}

	default:
		return failed(req.PhysicalID, fmt.Errorf("unknown lifecycle operation %q", req.Operation))
	}
}

func succeeded(res *Result) Outcome {
	return Outcome{
		Status:     StatusSuccess,
		PhysicalID: res.PhysicalID,
		Data:       res.Payload,
	}
}

func failed(physicalID string, err error) Outcome {
	return Outcome{
		Status:     StatusFailed,
		PhysicalID: physicalID,
		Reason:     err.Error(),
	}
}
