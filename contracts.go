// Package groundwork provides Go types for declaring AWS operational
// automation as CloudFormation templates.
//
// Infrastructure is assembled from construct libraries (scheduled backups,
// dependency scanning, edge authentication, Stripe webhook provisioning)
// into stacks:
//
//	s := stack.New("nightly-backups")
//	backup.Define(s, backup.Config{...})
//	tmpl, _ := s.Template()
//
// The groundwork CLI reads a stack configuration file and emits
// CloudFormation templates for deployment.
package groundwork

// Resource represents a CloudFormation resource.
// All resource types (s3.Bucket, iam.Role, codebuild.Project, ...) implement
// this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::S3::Bucket")
	ResourceType() string
}

// PropertyProvider is implemented by resources whose properties cannot be
// derived from struct fields alone, such as custom resources carrying opaque
// business parameters.
type PropertyProvider interface {
	// ResourceProperties returns the full property map for the resource.
	ResourceProperties() map[string]any
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type          string   `json:"Type"`
	Description   string   `json:"Description,omitempty"`
	Default       any      `json:"Default,omitempty"`
	AllowedValues []string `json:"AllowedValues,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string `json:"Description,omitempty"`
	Value       any    `json:"Value"`
	Export      *struct {
		Name string `json:"Name"`
	} `json:"Export,omitempty"`
}

// SynthResult is the JSON output from `groundwork synth`.
type SynthResult struct {
	Success bool     `json:"success"`
	Stacks  []string `json:"stacks,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// LintResult is the JSON output from `groundwork lint`.
type LintResult struct {
	Success bool        `json:"success"`
	Issues  []LintIssue `json:"issues,omitempty"`
}

// LintIssue is a single template linting issue.
type LintIssue struct {
	Stack    string `json:"stack"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Rule     string `json:"rule"`
}

// ListResult is the JSON output from `groundwork list`.
type ListResult struct {
	Constructs []string `json:"constructs"`
	Stacks     []string `json:"stacks,omitempty"`
}
