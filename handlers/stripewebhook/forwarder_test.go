package stripewebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	entries  []ebtypes.PutEventsRequestEntry
	err      error
	rejected bool
}

func (f *fakeEvents) PutEvents(_ context.Context, params *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.entries = append(f.entries, params.Entries...)
	if f.rejected {
		return &eventbridge.PutEventsOutput{FailedEntryCount: 1}, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

const testSigningSecret = "whsec_test"

// sign produces a Stripe-Signature header value for a payload.
func sign(payload string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testSigningSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func deliveryRequest(payload, sig string) events.LambdaFunctionURLRequest {
	return events.LambdaFunctionURLRequest{
		Body:    payload,
		Headers: map[string]string{"stripe-signature": sig},
	}
}

func TestForwarder_RelaysVerifiedDelivery(t *testing.T) {
	api := &fakeEvents{}
	f := NewForwarder(testSigningSecret, api, "payments-bus", "stripe.webhook")

	payload := `{"id":"evt_1","type":"checkout.session.completed"}`
	resp, err := f.Handle(context.Background(), deliveryRequest(payload, sign(payload)))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, api.entries, 1)
	entry := api.entries[0]
	assert.Equal(t, "payments-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, "stripe.webhook", aws.ToString(entry.Source))
	assert.Equal(t, "checkout.session.completed", aws.ToString(entry.DetailType))
	assert.JSONEq(t, payload, aws.ToString(entry.Detail))
}

func TestForwarder_RejectsBadSignature(t *testing.T) {
	api := &fakeEvents{}
	f := NewForwarder(testSigningSecret, api, "payments-bus", "stripe.webhook")

	payload := `{"id":"evt_1","type":"checkout.session.completed"}`
	resp, err := f.Handle(context.Background(), deliveryRequest(payload, "t=1,v1=deadbeef"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, api.entries)
}

func TestForwarder_RejectsMissingSignature(t *testing.T) {
	api := &fakeEvents{}
	f := NewForwarder(testSigningSecret, api, "payments-bus", "stripe.webhook")

	resp, err := f.Handle(context.Background(), events.LambdaFunctionURLRequest{Body: "{}"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, api.entries)
}

func TestForwarder_DecodesBase64Body(t *testing.T) {
	api := &fakeEvents{}
	f := NewForwarder(testSigningSecret, api, "payments-bus", "stripe.webhook")

	payload := `{"id":"evt_2","type":"invoice.paid"}`
	req := events.LambdaFunctionURLRequest{
		Body:            base64.StdEncoding.EncodeToString([]byte(payload)),
		IsBase64Encoded: true,
		Headers:         map[string]string{"stripe-signature": sign(payload)},
	}
	resp, err := f.Handle(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, api.entries, 1)
	assert.Equal(t, "invoice.paid", aws.ToString(api.entries[0].DetailType))
}

func TestForwarder_RelayFailureIsBadGateway(t *testing.T) {
	api := &fakeEvents{err: fmt.Errorf("throttled")}
	f := NewForwarder(testSigningSecret, api, "payments-bus", "stripe.webhook")

	payload := `{"id":"evt_3","type":"invoice.paid"}`
	resp, err := f.Handle(context.Background(), deliveryRequest(payload, sign(payload)))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestForwarder_RejectedEntryIsBadGateway(t *testing.T) {
	api := &fakeEvents{rejected: true}
	f := NewForwarder(testSigningSecret, api, "payments-bus", "stripe.webhook")

	payload := `{"id":"evt_4","type":"invoice.paid"}`
	resp, err := f.Handle(context.Background(), deliveryRequest(payload, sign(payload)))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
