// Package secrets resolves secret references to values at call time and
// persists secondary secrets through a side channel. Secret values are never
// logged and never placed into lifecycle response payloads.
package secrets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/tidwall/gjson"

	"github.com/substratehq/groundwork/lifecycle"
)

// API is the Secrets Manager surface the resolver needs.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
}

// Reference is a parsed secret locator: a Secrets Manager secret id (name
// or ARN), optionally followed by "#key" selecting a field from a JSON
// secret value.
type Reference struct {
	SecretID string
	JSONKey  string
}

// ParseReference parses a secret reference string.
func ParseReference(s string) (Reference, error) {
	id, key, _ := strings.Cut(s, "#")
	if id == "" {
		return Reference{}, fmt.Errorf("empty secret reference")
	}
	return Reference{SecretID: id, JSONKey: key}, nil
}

// String returns the reference in locator form. The secret value is not
// part of the representation.
func (r Reference) String() string {
	if r.JSONKey == "" {
		return r.SecretID
	}
	return r.SecretID + "#" + r.JSONKey
}

// Resolver resolves references against Secrets Manager with a bounded
// retry budget.
type Resolver struct {
	api      API
	attempts int
	delay    time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAttempts sets the retry attempt budget.
func WithAttempts(n int) Option {
	return func(r *Resolver) { r.attempts = n }
}

// WithDelay sets the pause between retry attempts.
func WithDelay(d time.Duration) Option {
	return func(r *Resolver) { r.delay = d }
}

// NewResolver creates a resolver over the given Secrets Manager API.
func NewResolver(api API, opts ...Option) *Resolver {
	r := &Resolver{api: api, attempts: 3, delay: time.Second}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves a secret reference to its value. All failures surface as
// lifecycle.SecretUnavailableError so callers report a typed outcome.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	parsed, err := ParseReference(ref)
	if err != nil {
		return "", &lifecycle.SecretUnavailableError{Ref: ref, Err: err}
	}

	var out *secretsmanager.GetSecretValueOutput
	for i := 0; i < r.attempts; i++ {
		out, err = r.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(parsed.SecretID),
		})
		if err == nil {
			break
		}
		if i == r.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", &lifecycle.SecretUnavailableError{Ref: parsed.String(), Err: ctx.Err()}
		case <-time.After(r.delay):
		}
	}
	if err != nil {
		return "", &lifecycle.SecretUnavailableError{Ref: parsed.String(), Err: err}
	}
	if out.SecretString == nil {
		return "", &lifecycle.SecretUnavailableError{Ref: parsed.String(), Err: fmt.Errorf("secret has no string value")}
	}

	value := *out.SecretString
	if parsed.JSONKey == "" {
		return value, nil
	}

	field := gjson.Get(value, parsed.JSONKey)
	if !field.Exists() {
		return "", &lifecycle.SecretUnavailableError{
			Ref: parsed.String(),
			Err: fmt.Errorf("key %s not present in secret value", parsed.JSONKey),
		}
	}
	return field.String(), nil
}

// Store persists a secret value through the side channel. Used for
// secondary secrets (signing secrets) that must never appear in response
// payloads.
func (r *Resolver) Store(ctx context.Context, secretID, value string) error {
	_, err := r.api.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(secretID),
		SecretString: aws.String(value),
	})
	if err != nil {
		return &lifecycle.SecretUnavailableError{Ref: secretID, Err: err}
	}
	return nil
}
