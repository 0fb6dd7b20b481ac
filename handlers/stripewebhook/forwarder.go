package stripewebhook

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/apex/log"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stripe/stripe-go/v82/webhook"
)

// EventsAPI is the slice of the EventBridge client the forwarder needs.
type EventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Forwarder verifies incoming Stripe webhook deliveries and relays them to an
// EventBridge bus. Deliveries with a bad or absent signature are rejected
// before any downstream call.
type Forwarder struct {
	signingSecret string
	events        EventsAPI
	busName       string
	source        string
}

// NewForwarder builds a Forwarder. source becomes the EventBridge event
// source for every relayed delivery.
func NewForwarder(signingSecret string, api EventsAPI, busName, source string) *Forwarder {
	return &Forwarder{
		signingSecret: signingSecret,
		events:        api,
		busName:       busName,
		source:        source,
	}
}

// Handle processes one function URL request.
func (f *Forwarder) Handle(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return respond(http.StatusBadRequest, `{"error":"malformed body"}`), nil
		}
		body = decoded
	}

	sig := req.Headers["stripe-signature"]
	event, err := webhook.ConstructEvent(body, sig, f.signingSecret)
	if err != nil {
		log.WithError(err).Warn("rejected webhook delivery")
		return respond(http.StatusBadRequest, `{"error":"signature verification failed"}`), nil
	}

	out, err := f.events.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []ebtypes.PutEventsRequestEntry{{
			EventBusName: aws.String(f.busName),
			Source:       aws.String(f.source),
			DetailType:   aws.String(string(event.Type)),
			Detail:       aws.String(string(body)),
		}},
	})
	if err != nil {
		log.WithError(err).WithField("event", event.ID).Error("relay failed")
		return respond(http.StatusBadGateway, `{"error":"relay failed"}`), nil
	}
	if out.FailedEntryCount > 0 {
		log.WithField("event", event.ID).Error("event bus rejected entry")
		return respond(http.StatusBadGateway, `{"error":"relay failed"}`), nil
	}

	log.WithFields(log.Fields{
		"event": event.ID,
		"type":  event.Type,
	}).Info("relayed webhook delivery")
	return respond(http.StatusOK, `{"received":true}`), nil
}

func respond(status int, body string) events.LambdaFunctionURLResponse {
	return events.LambdaFunctionURLResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       body,
	}
}
