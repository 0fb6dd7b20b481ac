// Package awslambda contains CloudFormation resource types for AWS Lambda.
package awslambda

// Function represents an AWS::Lambda::Function resource.
type Function struct {
	FunctionName  string       `json:"FunctionName,omitempty"`
	Description   string       `json:"Description,omitempty"`
	Runtime       string       `json:"Runtime,omitempty"`
	Handler       string       `json:"Handler,omitempty"`
	MemorySize    int          `json:"MemorySize,omitempty"`
	Timeout       int          `json:"Timeout,omitempty"`
	Role          any          `json:"Role"`
	Code          *Code        `json:"Code,omitempty"`
	Environment   *Environment `json:"Environment,omitempty"`
	Architectures []string     `json:"Architectures,omitempty"`
}

// ResourceType returns the CloudFormation type for a function.
func (Function) ResourceType() string { return "AWS::Lambda::Function" }

// Common runtimes for groundwork handler binaries.
const (
	RuntimeProvidedAL2023 = "provided.al2023"
	RuntimeNodeJS         = "nodejs20.x"
)

// Code locates the deployment package.
type Code struct {
	S3Bucket any    `json:"S3Bucket,omitempty"`
	S3Key    string `json:"S3Key,omitempty"`
	ZipFile  string `json:"ZipFile,omitempty"`
}

// Environment holds function environment variables.
type Environment struct {
	Variables map[string]any `json:"Variables"`
}

// Version represents an AWS::Lambda::Version resource. Lambda@Edge requires
// a published version, not $LATEST.
type Version struct {
	FunctionName any    `json:"FunctionName"`
	Description  string `json:"Description,omitempty"`
}

// ResourceType returns the CloudFormation type for a version.
func (Version) ResourceType() string { return "AWS::Lambda::Version" }

// Permission represents an AWS::Lambda::Permission resource.
type Permission struct {
	FunctionName        any    `json:"FunctionName"`
	Action              string `json:"Action"`
	Principal           string `json:"Principal"`
	SourceArn           any    `json:"SourceArn,omitempty"`
	FunctionUrlAuthType string `json:"FunctionUrlAuthType,omitempty"`
}

// ResourceType returns the CloudFormation type for a permission.
func (Permission) ResourceType() string { return "AWS::Lambda::Permission" }

// Url represents an AWS::Lambda::Url resource (function URL).
type Url struct {
	TargetFunctionArn any    `json:"TargetFunctionArn"`
	AuthType          string `json:"AuthType"`
}

// ResourceType returns the CloudFormation type for a function URL.
func (Url) ResourceType() string { return "AWS::Lambda::Url" }

// Function URL auth types.
const (
	AuthTypeNone   = "NONE"
	AuthTypeAWSIAM = "AWS_IAM"
)
