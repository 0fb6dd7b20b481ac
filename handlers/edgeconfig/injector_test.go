package edgeconfig

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/substratehq/groundwork/lifecycle"
)

type fakeLambda struct {
	name string
	vars map[string]string

	// settleAfter is the number of polls reporting an in-progress update
	// before the function becomes active.
	settleAfter int
	failUpdate  bool

	getCalls     int
	updateCalls  int
	publishCalls int
}

func newFakeLambda(name string) *fakeLambda {
	return &fakeLambda{
		name: name,
		vars: map[string]string{"NODE_OPTIONS": "--enable-source-maps"},
	}
}

func (f *fakeLambda) notFound(requested *string) error {
	if aws.ToString(requested) != f.name {
		return &types.ResourceNotFoundException{Message: aws.String("Function not found")}
	}
	return nil
}

func (f *fakeLambda) GetFunctionConfiguration(_ context.Context, params *lambda.GetFunctionConfigurationInput, _ ...func(*lambda.Options)) (*lambda.GetFunctionConfigurationOutput, error) {
	if err := f.notFound(params.FunctionName); err != nil {
		return nil, err
	}
	f.getCalls++

	out := &lambda.GetFunctionConfigurationOutput{
		Environment:      &types.EnvironmentResponse{Variables: f.vars},
		State:            types.StateActive,
		LastUpdateStatus: types.LastUpdateStatusSuccessful,
	}
	if f.failUpdate && f.updateCalls > 0 {
		out.LastUpdateStatus = types.LastUpdateStatusFailed
		out.LastUpdateStatusReason = aws.String("internal error")
		return out, nil
	}
	if f.updateCalls > 0 && f.getCalls <= f.settleAfter+1 {
		out.State = types.StatePending
		out.LastUpdateStatus = types.LastUpdateStatusInProgress
	}
	return out, nil
}

func (f *fakeLambda) UpdateFunctionConfiguration(_ context.Context, params *lambda.UpdateFunctionConfigurationInput, _ ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error) {
	if err := f.notFound(params.FunctionName); err != nil {
		return nil, err
	}
	f.updateCalls++
	f.vars = params.Environment.Variables
	return &lambda.UpdateFunctionConfigurationOutput{}, nil
}

func (f *fakeLambda) PublishVersion(_ context.Context, params *lambda.PublishVersionInput, _ ...func(*lambda.Options)) (*lambda.PublishVersionOutput, error) {
	if err := f.notFound(params.FunctionName); err != nil {
		return nil, err
	}
	f.publishCalls++
	return &lambda.PublishVersionOutput{
		Version:     aws.String("2"),
		FunctionArn: aws.String("arn:aws:lambda:us-east-1:123456789012:function:" + f.name + ":2"),
	}, nil
}

func newTestInjector(api FunctionAPI) *Injector {
	return NewInjector(api, WithWaiter(lifecycle.Waiter{
		Interval: time.Millisecond,
		Timeout:  time.Second,
	}))
}

func injectorProperties() map[string]any {
	return map[string]any{
		"FunctionName": "edge-auth",
		"Config": map[string]any{
			"issuer":   "https://auth.example.com",
			"audience": "site",
		},
	}
}

func TestInjector_CreateMergesConfigAndPublishes(t *testing.T) {
	api := newFakeLambda("edge-auth")
	inj := newTestInjector(api)

	res, err := inj.Create(context.Background(), injectorProperties())
	require.NoError(t, err)

	assert.Equal(t, "edge-auth", res.PhysicalID)
	assert.Equal(t, "2", res.Payload["Version"])
	assert.Contains(t, res.Payload["VersionArn"], ":function:edge-auth:2")

	assert.Equal(t, "--enable-source-maps", api.vars["NODE_OPTIONS"])
	merged := api.vars[ConfigVariable]
	assert.Equal(t, "https://auth.example.com", gjson.Get(merged, "issuer").String())
	assert.Equal(t, "site", gjson.Get(merged, "audience").String())
}

func TestInjector_CreateWaitsForSettle(t *testing.T) {
	api := newFakeLambda("edge-auth")
	api.settleAfter = 3
	inj := newTestInjector(api)

	_, err := inj.Create(context.Background(), injectorProperties())
	require.NoError(t, err)

	assert.Equal(t, 1, api.publishCalls)
	// initial read plus three in-progress polls plus the settled poll
	assert.Equal(t, 5, api.getCalls)
}

func TestInjector_CreatePollTimeout(t *testing.T) {
	api := newFakeLambda("edge-auth")
	api.settleAfter = 1 << 20
	inj := NewInjector(api, WithWaiter(lifecycle.Waiter{
		Interval: time.Millisecond,
		Timeout:  10 * time.Millisecond,
	}))

	_, err := inj.Create(context.Background(), injectorProperties())

	var timeout *lifecycle.PollTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Zero(t, api.publishCalls)
}

func TestInjector_CreateFailedUpdate(t *testing.T) {
	api := newFakeLambda("edge-auth")
	api.failUpdate = true
	inj := newTestInjector(api)

	_, err := inj.Create(context.Background(), injectorProperties())

	var rejected *lifecycle.UpstreamRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Contains(t, err.Error(), "internal error")
	assert.Zero(t, api.publishCalls)
}

func TestInjector_UpdateUnknownFunction(t *testing.T) {
	api := newFakeLambda("edge-auth")
	inj := newTestInjector(api)

	props := injectorProperties()
	props["FunctionName"] = "edge-auth-renamed"
	_, err := inj.Update(context.Background(), "edge-auth", props)

	var unknown *lifecycle.UnknownResourceError
	require.ErrorAs(t, err, &unknown)
	// the error names the function that was requested, not the prior id
	assert.Equal(t, "edge-auth-renamed", unknown.PhysicalID)
}

func TestInjector_UpdateReinjects(t *testing.T) {
	api := newFakeLambda("edge-auth")
	inj := newTestInjector(api)

	props := injectorProperties()
	props["Config"] = map[string]any{"issuer": "https://auth2.example.com"}
	res, err := inj.Update(context.Background(), "edge-auth", props)
	require.NoError(t, err)

	assert.Equal(t, "edge-auth", res.PhysicalID)
	assert.Equal(t, "https://auth2.example.com", gjson.Get(api.vars[ConfigVariable], "issuer").String())
}

func TestInjector_DeleteIsNoOp(t *testing.T) {
	api := newFakeLambda("edge-auth")
	inj := newTestInjector(api)

	require.NoError(t, inj.Delete(context.Background(), "edge-auth"))
	assert.Zero(t, api.updateCalls)
}

func TestInjector_MissingProperties(t *testing.T) {
	inj := newTestInjector(newFakeLambda("edge-auth"))

	_, err := inj.Create(context.Background(), map[string]any{"FunctionName": "edge-auth"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config")
}
