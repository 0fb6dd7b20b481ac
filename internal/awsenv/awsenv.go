// Package awsenv loads AWS SDK v2 configuration for the runtime handlers
// and provisioning commands.
package awsenv

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type options struct {
	profile string
	region  string
	retryer func() aws.Retryer
}

// Option customizes how AWS config is loaded. With no options the shared
// config chain applies (AWS_PROFILE, ~/.aws/config, env, IMDS).
type Option func(*options)

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion overrides the region.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer.
func WithRetryer(newRetryer func() aws.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// Load loads AWS SDK config, applying any overrides.
func Load(ctx context.Context, opts ...Option) (aws.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}
	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// NewSecretsManager constructs a Secrets Manager client from the config.
func NewSecretsManager(cfg aws.Config, optFns ...func(*secretsmanager.Options)) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(cfg, optFns...)
}

// NewLambda constructs a Lambda control plane client from the config.
func NewLambda(cfg aws.Config, optFns ...func(*lambda.Options)) *lambda.Client {
	return lambda.NewFromConfig(cfg, optFns...)
}

// NewEventBridge constructs an EventBridge client from the config.
func NewEventBridge(cfg aws.Config, optFns ...func(*eventbridge.Options)) *eventbridge.Client {
	return eventbridge.NewFromConfig(cfg, optFns...)
}
