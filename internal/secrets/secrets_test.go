package secrets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratehq/groundwork/lifecycle"
)

type fakeSecretsManager struct {
	values map[string]string
	stored map[string]string

	failures int
	getCalls int
}

func newFakeSecretsManager() *fakeSecretsManager {
	return &fakeSecretsManager{
		values: make(map[string]string),
		stored: make(map[string]string),
	}
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.getCalls++
	if f.getCalls <= f.failures {
		return nil, fmt.Errorf("throttled")
	}
	v, ok := f.values[aws.ToString(params.SecretId)]
	if !ok {
		return nil, fmt.Errorf("secret not found")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func (f *fakeSecretsManager) PutSecretValue(_ context.Context, params *secretsmanager.PutSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	f.stored[aws.ToString(params.SecretId)] = aws.ToString(params.SecretString)
	return &secretsmanager.PutSecretValueOutput{}, nil
}

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("prod/stripe#api_key")
	require.NoError(t, err)
	assert.Equal(t, "prod/stripe", ref.SecretID)
	assert.Equal(t, "api_key", ref.JSONKey)

	ref, err = ParseReference("arn:aws:secretsmanager:us-east-1:123456789012:secret:prod/stripe-AbCdEf")
	require.NoError(t, err)
	assert.Empty(t, ref.JSONKey)

	_, err = ParseReference("")
	assert.Error(t, err)
}

func TestResolver_PlainSecret(t *testing.T) {
	sm := newFakeSecretsManager()
	sm.values["prod/stripe"] = "sk_test_123"

	r := NewResolver(sm, WithDelay(time.Millisecond))
	v, err := r.Resolve(context.Background(), "prod/stripe")
	require.NoError(t, err)
	assert.Equal(t, "sk_test_123", v)
}

func TestResolver_JSONKey(t *testing.T) {
	sm := newFakeSecretsManager()
	sm.values["prod/db"] = `{"username": "app", "password": "hunter2"}`

	r := NewResolver(sm, WithDelay(time.Millisecond))
	v, err := r.Resolve(context.Background(), "prod/db#password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)
}

func TestResolver_MissingJSONKey(t *testing.T) {
	sm := newFakeSecretsManager()
	sm.values["prod/db"] = `{"username": "app"}`

	r := NewResolver(sm, WithDelay(time.Millisecond))
	_, err := r.Resolve(context.Background(), "prod/db#password")

	var unavailable *lifecycle.SecretUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestResolver_RetriesThenSucceeds(t *testing.T) {
	sm := newFakeSecretsManager()
	sm.values["prod/stripe"] = "sk_test_123"
	sm.failures = 2

	r := NewResolver(sm, WithAttempts(3), WithDelay(time.Millisecond))
	v, err := r.Resolve(context.Background(), "prod/stripe")
	require.NoError(t, err)
	assert.Equal(t, "sk_test_123", v)
	assert.Equal(t, 3, sm.getCalls)
}

func TestResolver_ExhaustedRetriesAreSecretUnavailable(t *testing.T) {
	sm := newFakeSecretsManager()
	sm.values["prod/stripe"] = "sk_test_123"
	sm.failures = 10

	r := NewResolver(sm, WithAttempts(2), WithDelay(time.Millisecond))
	_, err := r.Resolve(context.Background(), "prod/stripe")

	var unavailable *lifecycle.SecretUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 2, sm.getCalls)
}

func TestResolver_Store(t *testing.T) {
	sm := newFakeSecretsManager()
	r := NewResolver(sm)

	require.NoError(t, r.Store(context.Background(), "prod/stripe/signing", "whsec_abc"))
	assert.Equal(t, "whsec_abc", sm.stored["prod/stripe/signing"])
}

func TestReference_StringOmitsValue(t *testing.T) {
	ref := Reference{SecretID: "prod/db", JSONKey: "password"}
	assert.Equal(t, "prod/db#password", ref.String())
}
