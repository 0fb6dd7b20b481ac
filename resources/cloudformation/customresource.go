// Package cloudformation contains CloudFormation-native resource types.
package cloudformation

// CustomResource represents an AWS::CloudFormation::CustomResource backed by
// a Lambda provider. Properties beyond ServiceToken are opaque business
// parameters passed to the provider's lifecycle handler.
type CustomResource struct {
	// ServiceToken is the ARN of the Lambda function handling lifecycle
	// requests for this resource.
	ServiceToken any

	// Properties are forwarded to the lifecycle handler unchanged.
	Properties map[string]any
}

// ResourceType returns the CloudFormation type for a custom resource.
func (CustomResource) ResourceType() string {
	return "AWS::CloudFormation::CustomResource"
}

// ResourceProperties merges ServiceToken with the opaque properties.
func (r CustomResource) ResourceProperties() map[string]any {
	props := make(map[string]any, len(r.Properties)+1)
	for k, v := range r.Properties {
		props[k] = v
	}
	props["ServiceToken"] = r.ServiceToken
	return props
}
