// Package logs contains CloudFormation resource types for CloudWatch Logs.
package logs

// LogGroup represents an AWS::Logs::LogGroup resource.
type LogGroup struct {
	LogGroupName    any `json:"LogGroupName,omitempty"`
	RetentionInDays int `json:"RetentionInDays,omitempty"`
}

// ResourceType returns the CloudFormation type for a log group.
func (LogGroup) ResourceType() string { return "AWS::Logs::LogGroup" }
