// Package events contains CloudFormation resource types for Amazon EventBridge.
package events

// Rule represents an AWS::Events::Rule resource.
type Rule struct {
	Name               string         `json:"Name,omitempty"`
	Description        string         `json:"Description,omitempty"`
	ScheduleExpression string         `json:"ScheduleExpression,omitempty"`
	EventPattern       map[string]any `json:"EventPattern,omitempty"`
	EventBusName       any            `json:"EventBusName,omitempty"`
	State              string         `json:"State,omitempty"`
	Targets            []Target       `json:"Targets,omitempty"`
}

// ResourceType returns the CloudFormation type for a rule.
func (Rule) ResourceType() string { return "AWS::Events::Rule" }

// Rule states.
const (
	StateEnabled  = "ENABLED"
	StateDisabled = "DISABLED"
)

// Target is a rule target.
type Target struct {
	Arn     any    `json:"Arn"`
	Id      string `json:"Id"`
	RoleArn any    `json:"RoleArn,omitempty"`
	Input   string `json:"Input,omitempty"`
}

// EventBus represents an AWS::Events::EventBus resource.
type EventBus struct {
	Name string `json:"Name"`
}

// ResourceType returns the CloudFormation type for an event bus.
func (EventBus) ResourceType() string { return "AWS::Events::EventBus" }
