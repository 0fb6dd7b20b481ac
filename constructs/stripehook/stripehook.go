// Package stripehook declares Stripe webhook plumbing: a custom resource
// that provisions the webhook endpoint at Stripe, a Secrets Manager secret
// receiving the endpoint's signing secret, a forwarder function URL that
// verifies deliveries, and a dedicated event bus the deliveries land on.
package stripehook

import (
	"fmt"

	"github.com/substratehq/groundwork"
	"github.com/substratehq/groundwork/intrinsics"
	"github.com/substratehq/groundwork/resources/awslambda"
	"github.com/substratehq/groundwork/resources/cloudformation"
	"github.com/substratehq/groundwork/resources/events"
	"github.com/substratehq/groundwork/resources/iam"
	"github.com/substratehq/groundwork/resources/secretsmanager"
	"github.com/substratehq/groundwork/stack"
)

// Config describes one webhook integration.
type Config struct {
	// Name prefixes the logical ids.
	Name string

	// ProvisionerServiceToken is the ARN of the deployed webhook endpoint
	// provisioner handler.
	ProvisionerServiceToken any

	// APIKeySecretArn is the Secrets Manager secret holding the Stripe API
	// key. It is referenced, never read, at template level.
	APIKeySecretArn any

	// EnabledEvents lists the Stripe event types the endpoint subscribes to.
	EnabledEvents []string

	// ForwarderCodeBucket and ForwarderCodeKey locate the forwarder
	// deployment package.
	ForwarderCodeBucket any
	ForwarderCodeKey    string

	// EventSource is the EventBridge source value on relayed events.
	// Defaults to "stripe.webhook".
	EventSource string
}

// Resources holds handles to the declared resources.
type Resources struct {
	Bus           stack.Handle
	SigningSecret stack.Handle
	ForwarderRole stack.Handle
	Forwarder     stack.Handle
	ForwarderURL  stack.Handle
	URLPermission stack.Handle
	Endpoint      stack.Handle
}

// Define adds the webhook integration to the stack.
func Define(s *stack.Stack, cfg Config) (Resources, error) {
	var out Resources
	if cfg.Name == "" {
		return out, fmt.Errorf("stripehook: Name is required")
	}
	if cfg.ProvisionerServiceToken == nil {
		return out, fmt.Errorf("stripehook: ProvisionerServiceToken is required")
	}
	if cfg.APIKeySecretArn == nil {
		return out, fmt.Errorf("stripehook: APIKeySecretArn is required")
	}
	if len(cfg.EnabledEvents) == 0 {
		return out, fmt.Errorf("stripehook: EnabledEvents is required")
	}
	if cfg.ForwarderCodeBucket == nil || cfg.ForwarderCodeKey == "" {
		return out, fmt.Errorf("stripehook: forwarder code location is required")
	}
	source := cfg.EventSource
	if source == "" {
		source = "stripe.webhook"
	}

	prefix := stack.LogicalID(cfg.Name)

	out.Bus = s.Add(prefix+"Bus", events.EventBus{
		Name: cfg.Name + "-events",
	})

	out.SigningSecret = s.Add(prefix+"SigningSecret", secretsmanager.Secret{
		Description: "Webhook signing secret, written by the endpoint provisioner",
	})

	out.ForwarderRole = s.Add(prefix+"ForwarderRole", iam.Role{
		AssumeRolePolicyDocument: intrinsics.AssumeRolePolicy("lambda.amazonaws.com"),
		ManagedPolicyArns: intrinsics.Any(
			"arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole",
		),
		Policies: []iam.RolePolicy{
			{
				PolicyName: "publish-events",
				PolicyDocument: intrinsics.NewPolicyDocument(
					intrinsics.Allow("events:PutEvents", out.Bus.Arn()),
				),
			},
			{
				PolicyName: "read-signing-secret",
				PolicyDocument: intrinsics.NewPolicyDocument(
					intrinsics.Allow("secretsmanager:GetSecretValue", out.SigningSecret.Ref()),
				),
			},
		},
	})

	out.Forwarder = s.Add(prefix+"Forwarder", awslambda.Function{
		FunctionName: cfg.Name + "-forwarder",
		Description:  "Verifies Stripe deliveries and relays them to the event bus",
		Runtime:      awslambda.RuntimeProvidedAL2023,
		Handler:      "bootstrap",
		MemorySize:   128,
		Timeout:      15,
		Role:         out.ForwarderRole.Arn(),
		Code: &awslambda.Code{
			S3Bucket: cfg.ForwarderCodeBucket,
			S3Key:    cfg.ForwarderCodeKey,
		},
		Environment: &awslambda.Environment{
			Variables: map[string]any{
				"SIGNING_SECRET_ID": out.SigningSecret.Ref(),
				"EVENT_BUS_NAME":    out.Bus.Ref(),
				"EVENT_SOURCE":      source,
			},
		},
		Architectures: []string{"arm64"},
	})
	s.DependOn(out.Forwarder, out.ForwarderRole)

	out.ForwarderURL = s.Add(prefix+"ForwarderUrl", awslambda.Url{
		TargetFunctionArn: out.Forwarder.Arn(),
		AuthType:          awslambda.AuthTypeNone,
	})

	out.URLPermission = s.Add(prefix+"UrlPermission", awslambda.Permission{
		FunctionName:        out.Forwarder.Ref(),
		Action:              "lambda:InvokeFunctionUrl",
		Principal:           "*",
		FunctionUrlAuthType: awslambda.AuthTypeNone,
	})

	out.Endpoint = s.Add(prefix+"Endpoint", cloudformation.CustomResource{
		ServiceToken: cfg.ProvisionerServiceToken,
		Properties: map[string]any{
			"Url":             out.ForwarderURL.Attr("FunctionUrl"),
			"EnabledEvents":   cfg.EnabledEvents,
			"ApiKeySecret":    cfg.APIKeySecretArn,
			"SigningSecretId": out.SigningSecret.Ref(),
			"Description":     "Managed by the " + cfg.Name + " stack",
		},
	})
	s.DependOn(out.Endpoint, out.ForwarderURL, out.SigningSecret)

	s.AddOutput(prefix+"BusName", groundwork.Output{
		Description: "Event bus receiving webhook deliveries",
		Value:       out.Bus.Ref(),
	})
	s.AddOutput(prefix+"EndpointUrl", groundwork.Output{
		Description: "Public delivery URL registered with Stripe",
		Value:       out.ForwarderURL.Attr("FunctionUrl"),
	})

	return out, nil
}
