// Package iam contains CloudFormation resource types for AWS IAM.
package iam

// Role represents an AWS::IAM::Role resource.
type Role struct {
	RoleName                 any          `json:"RoleName,omitempty"`
	Description              string       `json:"Description,omitempty"`
	AssumeRolePolicyDocument any          `json:"AssumeRolePolicyDocument"`
	ManagedPolicyArns        []any        `json:"ManagedPolicyArns,omitempty"`
	Policies                 []RolePolicy `json:"Policies,omitempty"`
	Path                     string       `json:"Path,omitempty"`
}

// ResourceType returns the CloudFormation type for a role.
func (Role) ResourceType() string { return "AWS::IAM::Role" }

// RolePolicy is an inline policy attached to a role.
type RolePolicy struct {
	PolicyName     string `json:"PolicyName"`
	PolicyDocument any    `json:"PolicyDocument"`
}

// ManagedPolicy represents an AWS::IAM::ManagedPolicy resource.
type ManagedPolicy struct {
	ManagedPolicyName string `json:"ManagedPolicyName,omitempty"`
	Description       string `json:"Description,omitempty"`
	PolicyDocument    any    `json:"PolicyDocument"`
	Roles             []any  `json:"Roles,omitempty"`
}

// ResourceType returns the CloudFormation type for a managed policy.
func (ManagedPolicy) ResourceType() string { return "AWS::IAM::ManagedPolicy" }
