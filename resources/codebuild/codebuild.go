// Package codebuild contains CloudFormation resource types for AWS CodeBuild.
package codebuild

// Project represents an AWS::CodeBuild::Project resource.
type Project struct {
	Name             string       `json:"Name,omitempty"`
	Description      string       `json:"Description,omitempty"`
	ServiceRole      any          `json:"ServiceRole"`
	Source           *Source      `json:"Source,omitempty"`
	Artifacts        *Artifacts   `json:"Artifacts,omitempty"`
	Environment      *Environment `json:"Environment,omitempty"`
	TimeoutInMinutes int          `json:"TimeoutInMinutes,omitempty"`
	LogsConfig       *LogsConfig  `json:"LogsConfig,omitempty"`
}

// ResourceType returns the CloudFormation type for a project.
func (Project) ResourceType() string { return "AWS::CodeBuild::Project" }

// Source describes where the build gets its source and buildspec.
type Source struct {
	Type      string `json:"Type"`
	Location  string `json:"Location,omitempty"`
	BuildSpec string `json:"BuildSpec,omitempty"`
}

// SourceTypeNoSource is used for builds whose buildspec is inlined and which
// fetch nothing from a repository.
const SourceTypeNoSource = "NO_SOURCE"

// SourceTypeGitHub fetches source from a GitHub repository.
const SourceTypeGitHub = "GITHUB"

// Artifacts describes build output artifacts.
type Artifacts struct {
	Type      string `json:"Type"`
	Location  any    `json:"Location,omitempty"`
	Name      string `json:"Name,omitempty"`
	Packaging string `json:"Packaging,omitempty"`
}

// ArtifactsTypeNone disables build artifacts.
const ArtifactsTypeNone = "NO_ARTIFACTS"

// ArtifactsTypeS3 uploads artifacts to S3.
const ArtifactsTypeS3 = "S3"

// Environment configures the build container.
type Environment struct {
	ComputeType          string                `json:"ComputeType"`
	Image                string                `json:"Image"`
	Type                 string                `json:"Type"`
	PrivilegedMode       bool                  `json:"PrivilegedMode,omitempty"`
	EnvironmentVariables []EnvironmentVariable `json:"EnvironmentVariables,omitempty"`
}

// EnvironmentVariable is a single build environment variable. Type may be
// PLAINTEXT, PARAMETER_STORE, or SECRETS_MANAGER.
type EnvironmentVariable struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
	Type  string `json:"Type,omitempty"`
}

// Standard Linux build environment defaults.
const (
	ComputeTypeSmall  = "BUILD_GENERAL1_SMALL"
	ComputeTypeMedium = "BUILD_GENERAL1_MEDIUM"
	LinuxContainer    = "LINUX_CONTAINER"
	StandardImage     = "aws/codebuild/standard:7.0"
)

// LogsConfig routes build logs.
type LogsConfig struct {
	CloudWatchLogs *CloudWatchLogs `json:"CloudWatchLogs,omitempty"`
}

// CloudWatchLogs configures the CloudWatch Logs destination.
type CloudWatchLogs struct {
	Status    string `json:"Status"`
	GroupName any    `json:"GroupName,omitempty"`
}
