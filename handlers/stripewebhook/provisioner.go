// Package stripewebhook manages Stripe webhook endpoints as externally
// provisioned resources. The provisioner implements lifecycle.Adapter so a
// custom resource can create, update, and delete endpoints; the forwarder
// receives the resulting deliveries and relays them onto an event bus.
package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/substratehq/groundwork/lifecycle"
)

// EndpointAPI is the slice of the Stripe webhook endpoint client the
// provisioner needs.
type EndpointAPI interface {
	New(params *stripe.WebhookEndpointParams) (*stripe.WebhookEndpoint, error)
	Update(id string, params *stripe.WebhookEndpointParams) (*stripe.WebhookEndpoint, error)
	Del(id string, params *stripe.WebhookEndpointParams) (*stripe.WebhookEndpoint, error)
}

// SecretStore resolves secret references and writes generated secrets back.
type SecretStore interface {
	Resolve(ctx context.Context, ref string) (string, error)
	Store(ctx context.Context, secretID, value string) error
}

// Provisioner creates and maintains a Stripe webhook endpoint. The endpoint's
// signing secret is written to Secrets Manager on create and never appears in
// the response payload.
type Provisioner struct {
	clientFor func(apiKey string) EndpointAPI
	store     SecretStore
	retry     lifecycle.RetryPolicy

	// apiKeyRef is the secret reference used when a request carries no
	// properties, which is the case on delete.
	apiKeyRef string
}

// ProvisionerOption configures a Provisioner.
type ProvisionerOption func(*Provisioner)

// WithClientFunc overrides the Stripe client factory. Tests use this to
// substitute a fake endpoint API.
func WithClientFunc(fn func(apiKey string) EndpointAPI) ProvisionerOption {
	return func(p *Provisioner) { p.clientFor = fn }
}

// WithRetryPolicy overrides the retry policy for transient transport failures.
func WithRetryPolicy(rp lifecycle.RetryPolicy) ProvisionerOption {
	return func(p *Provisioner) { p.retry = rp }
}

// WithAPIKeyReference sets the secret reference resolved on delete, where the
// request properties are unavailable.
func WithAPIKeyReference(ref string) ProvisionerOption {
	return func(p *Provisioner) { p.apiKeyRef = ref }
}

// NewProvisioner returns a Provisioner backed by the live Stripe API.
func NewProvisioner(store SecretStore, opts ...ProvisionerOption) *Provisioner {
	p := &Provisioner{
		store:     store,
		retry:     lifecycle.RetryPolicy{Attempts: lifecycle.DefaultAttempts},
		apiKeyRef: "stripe/api-key",
		clientFor: func(apiKey string) EndpointAPI {
			return client.New(apiKey, nil).WebhookEndpoints
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type endpointProps struct {
	URL             string
	EnabledEvents   []string
	APIKeySecret    string
	SigningSecretID string
	Description     string
}

func parseProps(props map[string]any) (endpointProps, error) {
	var p endpointProps
	p.URL, _ = props["Url"].(string)
	if p.URL == "" {
		return p, fmt.Errorf("missing required property Url")
	}
	p.APIKeySecret, _ = props["ApiKeySecret"].(string)
	if p.APIKeySecret == "" {
		return p, fmt.Errorf("missing required property ApiKeySecret")
	}
	if raw, ok := props["EnabledEvents"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				p.EnabledEvents = append(p.EnabledEvents, s)
			}
		}
	}
	if len(p.EnabledEvents) == 0 {
		return p, fmt.Errorf("missing required property EnabledEvents")
	}
	p.SigningSecretID, _ = props["SigningSecretId"].(string)
	p.Description, _ = props["Description"].(string)
	return p, nil
}

func (p endpointProps) params() *stripe.WebhookEndpointParams {
	params := &stripe.WebhookEndpointParams{
		URL:           stripe.String(p.URL),
		EnabledEvents: stripe.StringSlice(p.EnabledEvents),
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	return params
}

// Create registers a new webhook endpoint and, when SigningSecretId is set,
// stores its signing secret through the secret side channel.
func (p *Provisioner) Create(ctx context.Context, props map[string]any) (*lifecycle.Result, error) {
	parsed, err := parseProps(props)
	if err != nil {
		return nil, &lifecycle.UpstreamRejectedError{Op: "create", Err: err}
	}
	api, err := p.client(ctx, parsed)
	if err != nil {
		return nil, err
	}

	var ep *stripe.WebhookEndpoint
	err = p.retry.Do(ctx, func(ctx context.Context) error {
		var callErr error
		ep, callErr = api.New(parsed.params())
		return translate("create", callErr)
	})
	if err != nil {
		return nil, err
	}

	if parsed.SigningSecretID != "" && ep.Secret != "" {
		if err := p.store.Store(ctx, parsed.SigningSecretID, ep.Secret); err != nil {
			return nil, &lifecycle.SecretUnavailableError{Ref: parsed.SigningSecretID, Err: err}
		}
	}
	return &lifecycle.Result{PhysicalID: ep.ID, Payload: payload(ep)}, nil
}

// Update reconfigures the endpoint identified by physicalID.
func (p *Provisioner) Update(ctx context.Context, physicalID string, props map[string]any) (*lifecycle.Result, error) {
	parsed, err := parseProps(props)
	if err != nil {
		return nil, &lifecycle.UpstreamRejectedError{Op: "update", Err: err}
	}
	api, err := p.client(ctx, parsed)
	if err != nil {
		return nil, err
	}

	var ep *stripe.WebhookEndpoint
	err = p.retry.Do(ctx, func(ctx context.Context) error {
		var callErr error
		ep, callErr = api.Update(physicalID, parsed.params())
		if isMissing(callErr) {
			return &lifecycle.UnknownResourceError{PhysicalID: physicalID}
		}
		return translate("update", callErr)
	})
	if err != nil {
		return nil, err
	}
	return &lifecycle.Result{PhysicalID: ep.ID, Payload: payload(ep)}, nil
}

// Delete removes the endpoint. A missing endpoint counts as success.
func (p *Provisioner) Delete(ctx context.Context, physicalID string) error {
	key, err := p.store.Resolve(ctx, p.apiKeyRef)
	if err != nil {
		return err
	}
	api := p.clientFor(key)

	return p.retry.Do(ctx, func(ctx context.Context) error {
		_, callErr := api.Del(physicalID, nil)
		if isMissing(callErr) {
			return nil
		}
		return translate("delete", callErr)
	})
}

func (p *Provisioner) client(ctx context.Context, parsed endpointProps) (EndpointAPI, error) {
	key, err := p.store.Resolve(ctx, parsed.APIKeySecret)
	if err != nil {
		return nil, err
	}
	return p.clientFor(key), nil
}

// payload returns the response data for an endpoint: the endpoint state as
// Stripe reports it, minus the signing secret.
func payload(ep *stripe.WebhookEndpoint) map[string]any {
	return map[string]any{
		"Url":           ep.URL,
		"Status":        ep.Status,
		"EnabledEvents": ep.EnabledEvents,
	}
}

func isMissing(err error) bool {
	var se *stripe.Error
	if errors.As(err, &se) {
		return se.Type == stripe.ErrorTypeInvalidRequest && se.Code == stripe.ErrorCodeResourceMissing
	}
	return false
}

// translate maps a Stripe client error into the lifecycle error taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &lifecycle.TransportTimeoutError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &lifecycle.TransportTimeoutError{Err: err}
	}
	return &lifecycle.UpstreamRejectedError{Op: op, Err: err}
}
