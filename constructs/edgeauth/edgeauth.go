// Package edgeauth declares a basic-auth viewer-request function. The
// credentials and realm reach the function through a configuration injection
// custom resource that writes them to the EDGE_CONFIG variable and freezes
// them into a published version.
//
// CloudFront rejects associating replicated function versions that declare
// environment variables, so the EDGE_CONFIG mechanism suits regional
// fronting (a Function URL or ALB ahead of the origin). For a true
// Lambda@Edge association, compile the configuration into the bundle at
// build time and keep the injector only for version publication.
package edgeauth

import (
	"fmt"

	"github.com/substratehq/groundwork"
	"github.com/substratehq/groundwork/intrinsics"
	"github.com/substratehq/groundwork/resources/awslambda"
	"github.com/substratehq/groundwork/resources/cloudformation"
	"github.com/substratehq/groundwork/resources/iam"
	"github.com/substratehq/groundwork/stack"
)

// Config describes one edge auth function.
type Config struct {
	// Name prefixes the logical ids and names the function.
	Name string

	// InjectorServiceToken is the ARN of the deployed configuration
	// injection handler.
	InjectorServiceToken any

	// Realm is presented in the WWW-Authenticate challenge.
	Realm string

	// CredentialsHash is the expected value of the Authorization header
	// ("Basic " + base64(user:pass)). Keeping only the encoded pair out of
	// the template is the caller's responsibility; typically this is a
	// template parameter.
	CredentialsHash any
}

// Resources holds handles to the declared resources.
type Resources struct {
	Role     stack.Handle
	Function stack.Handle
	Injected stack.Handle
}

// Define adds the edge auth function to the stack.
func Define(s *stack.Stack, cfg Config) (Resources, error) {
	var out Resources
	if cfg.Name == "" {
		return out, fmt.Errorf("edgeauth: Name is required")
	}
	if cfg.InjectorServiceToken == nil {
		return out, fmt.Errorf("edgeauth: InjectorServiceToken is required")
	}
	if cfg.CredentialsHash == nil {
		return out, fmt.Errorf("edgeauth: CredentialsHash is required")
	}
	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	prefix := stack.LogicalID(cfg.Name)

	out.Role = s.Add(prefix+"Role", iam.Role{
		AssumeRolePolicyDocument: intrinsics.AssumeRolePolicy(
			"lambda.amazonaws.com",
			"edgelambda.amazonaws.com",
		),
		ManagedPolicyArns: intrinsics.Any(
			"arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole",
		),
	})

	out.Function = s.Add(prefix+"Function", awslambda.Function{
		FunctionName: cfg.Name,
		Description:  "Viewer-request basic auth check",
		Runtime:      awslambda.RuntimeNodeJS,
		Handler:      "index.handler",
		MemorySize:   128,
		Timeout:      5,
		Role:         out.Role.Arn(),
		Code:         &awslambda.Code{ZipFile: viewerRequestSource},
	})
	s.DependOn(out.Function, out.Role)

	out.Injected = s.Add(prefix+"Config", cloudformation.CustomResource{
		ServiceToken: cfg.InjectorServiceToken,
		Properties: map[string]any{
			"FunctionName": out.Function.Ref(),
			"Config": map[string]any{
				"realm":       realm,
				"credentials": cfg.CredentialsHash,
			},
		},
	})
	s.DependOn(out.Injected, out.Function)

	s.AddOutput(prefix+"VersionArn", groundwork.Output{
		Description: "Published function version for the distribution",
		Value:       out.Injected.Attr("VersionArn"),
	})

	return out, nil
}

// viewerRequestSource is the inline function body. Configuration is read
// from the EDGE_CONFIG variable baked into the published version.
const viewerRequestSource = `'use strict';
const cfg = JSON.parse(process.env.EDGE_CONFIG || '{}');

exports.handler = async (event) => {
  const request = event.Records[0].cf.request;
  const headers = request.headers;
  const expected = 'Basic ' + cfg.credentials;

  if (headers.authorization && headers.authorization[0].value === expected) {
    return request;
  }
  return {
    status: '401',
    statusDescription: 'Unauthorized',
    headers: {
      'www-authenticate': [{
        key: 'WWW-Authenticate',
        value: 'Basic realm="' + (cfg.realm || 'Restricted') + '"',
      }],
    },
  };
};
`
