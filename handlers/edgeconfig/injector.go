// Package edgeconfig injects deploy-time configuration into a Lambda
// function's environment and publishes an immutable version carrying it.
// Edge-deployed functions cannot read environment variables at the
// replicated regions, so the configuration travels inside a published
// version that the distribution then points at.
package edgeconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/substratehq/groundwork/lifecycle"
)

// ConfigVariable is the environment variable the merged configuration is
// written to.
const ConfigVariable = "EDGE_CONFIG"

// FunctionAPI is the slice of the Lambda control plane the injector needs.
type FunctionAPI interface {
	GetFunctionConfiguration(ctx context.Context, params *lambda.GetFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionConfigurationOutput, error)
	UpdateFunctionConfiguration(ctx context.Context, params *lambda.UpdateFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error)
	PublishVersion(ctx context.Context, params *lambda.PublishVersionInput, optFns ...func(*lambda.Options)) (*lambda.PublishVersionOutput, error)
}

// Injector writes configuration into a function's environment and publishes
// a new version once the update settles. It implements lifecycle.Adapter;
// the physical id is the target function's name.
type Injector struct {
	api  FunctionAPI
	wait lifecycle.Waiter
}

// InjectorOption configures an Injector.
type InjectorOption func(*Injector)

// WithWaiter overrides the settle-polling waiter.
func WithWaiter(w lifecycle.Waiter) InjectorOption {
	return func(i *Injector) { i.wait = w }
}

// NewInjector builds an Injector over the given Lambda API.
func NewInjector(api FunctionAPI, opts ...InjectorOption) *Injector {
	i := &Injector{
		api:  api,
		wait: lifecycle.Waiter{Interval: 2 * time.Second, Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

type injectorProps struct {
	FunctionName string
	Config       map[string]any
}

func parseInjectorProps(props map[string]any) (injectorProps, error) {
	var p injectorProps
	p.FunctionName, _ = props["FunctionName"].(string)
	if p.FunctionName == "" {
		return p, fmt.Errorf("missing required property FunctionName")
	}
	p.Config, _ = props["Config"].(map[string]any)
	if p.Config == nil {
		return p, fmt.Errorf("missing required property Config")
	}
	return p, nil
}

// Create injects the configuration into the named function and publishes a
// version.
func (i *Injector) Create(ctx context.Context, props map[string]any) (*lifecycle.Result, error) {
	parsed, err := parseInjectorProps(props)
	if err != nil {
		return nil, &lifecycle.UpstreamRejectedError{Op: "create", Err: err}
	}
	return i.inject(ctx, "create", parsed)
}

// Update re-injects the configuration. The physical id is the function name
// recorded on create; a renamed function in the properties replaces it, and
// an unknown-function error names the function that was requested.
func (i *Injector) Update(ctx context.Context, _ string, props map[string]any) (*lifecycle.Result, error) {
	parsed, err := parseInjectorProps(props)
	if err != nil {
		return nil, &lifecycle.UpstreamRejectedError{Op: "update", Err: err}
	}
	return i.inject(ctx, "update", parsed)
}

// Delete is a no-op: the injector does not own the function, and published
// versions cannot be unpublished.
func (i *Injector) Delete(_ context.Context, _ string) error {
	return nil
}

func (i *Injector) inject(ctx context.Context, op string, p injectorProps) (*lifecycle.Result, error) {
	encoded, err := json.Marshal(p.Config)
	if err != nil {
		return nil, &lifecycle.UpstreamRejectedError{Op: op, Err: err}
	}

	current, err := i.api.GetFunctionConfiguration(ctx, &lambda.GetFunctionConfigurationInput{
		FunctionName: aws.String(p.FunctionName),
	})
	if err != nil {
		return nil, translateLambda(op, p.FunctionName, err)
	}

	vars := map[string]string{}
	if current.Environment != nil {
		for k, v := range current.Environment.Variables {
			vars[k] = v
		}
	}
	vars[ConfigVariable] = string(encoded)

	_, err = i.api.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(p.FunctionName),
		Environment:  &types.Environment{Variables: vars},
	})
	if err != nil {
		return nil, translateLambda(op, p.FunctionName, err)
	}

	if err := i.waitSettled(ctx, p.FunctionName); err != nil {
		return nil, err
	}

	published, err := i.api.PublishVersion(ctx, &lambda.PublishVersionInput{
		FunctionName: aws.String(p.FunctionName),
	})
	if err != nil {
		return nil, translateLambda(op, p.FunctionName, err)
	}

	return &lifecycle.Result{
		PhysicalID: p.FunctionName,
		Payload: map[string]any{
			"Version":    aws.ToString(published.Version),
			"VersionArn": aws.ToString(published.FunctionArn),
		},
	}, nil
}

// waitSettled polls until the function is Active and its last update has
// succeeded. Publishing before that point would version the previous
// configuration.
func (i *Injector) waitSettled(ctx context.Context, name string) error {
	return i.wait.Wait(ctx, func(ctx context.Context) (bool, error) {
		cfg, err := i.api.GetFunctionConfiguration(ctx, &lambda.GetFunctionConfigurationInput{
			FunctionName: aws.String(name),
		})
		if err != nil {
			return false, translateLambda("poll", name, err)
		}
		if cfg.LastUpdateStatus == types.LastUpdateStatusFailed {
			return false, &lifecycle.UpstreamRejectedError{
				Op:  "poll",
				Err: fmt.Errorf("function update failed: %s", aws.ToString(cfg.LastUpdateStatusReason)),
			}
		}
		settled := cfg.State == types.StateActive && cfg.LastUpdateStatus == types.LastUpdateStatusSuccessful
		return settled, nil
	})
}

func translateLambda(op, name string, err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return &lifecycle.UnknownResourceError{PhysicalID: name}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &lifecycle.TransportTimeoutError{Err: err}
	}
	return &lifecycle.UpstreamRejectedError{Op: op, Err: err}
}
