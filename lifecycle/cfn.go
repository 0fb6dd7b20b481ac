package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/aws/aws-lambda-go/cfn"
)

// FromCloudFormation converts a CloudFormation custom resource event into a
// lifecycle request.
func FromCloudFormation(event cfn.Event) Request {
	var op Operation
	switch event.RequestType {
	case cfn.RequestCreate:
		op = OperationCreate
	case cfn.RequestUpdate:
		op = OperationUpdate
	case cfn.RequestDelete:
		op = OperationDelete
	default:
		op = Operation(event.RequestType)
	}
	return Request{
		Operation:  op,
		PhysicalID: event.PhysicalResourceID,
		Properties: event.ResourceProperties,
	}
}

// Wrap adapts an Adapter to the aws-lambda-go custom resource function
// contract, for use with cfn.LambdaWrap. Failures are reported with a
// human-readable reason and a stable physical id so CloudFormation can
// correlate the rollback.
func Wrap(a Adapter) cfn.CustomResourceFunction {
	return func(ctx context.Context, event cfn.Event) (string, map[string]any, error) {
		req := FromCloudFormation(event)

		log.WithFields(log.Fields{
			"operation":   string(req.Operation),
			"logical_id":  event.LogicalResourceID,
			"physical_id": req.PhysicalID,
		}).Info("dispatching lifecycle request")

		out := Dispatch(ctx, a, req)

		physicalID := out.PhysicalID
		if physicalID == "" {
			// CloudFormation requires some physical id even on failure;
			// derive a deterministic placeholder from the request.
			physicalID = fmt.Sprintf("%s-%s", event.LogicalResourceID, event.RequestID)
		}

		if out.Status == StatusFailed {
			log.WithFields(log.Fields{
				"operation":   string(req.Operation),
				"physical_id": physicalID,
				"reason":      out.Reason,
			}).Error("lifecycle request failed")
			return physicalID, nil, errors.New(out.Reason)
		}

		log.WithFields(log.Fields{
			"operation":   string(req.Operation),
			"physical_id": physicalID,
		}).Info("lifecycle request succeeded")
		return physicalID, out.Data, nil
	}
}
