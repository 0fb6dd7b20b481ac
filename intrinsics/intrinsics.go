// Package intrinsics provides CloudFormation intrinsic functions and IAM
// policy document types for groundwork constructs.
//
// The core intrinsic types come from the shared cloudformation-schema-go
// package and are re-exported here so construct code needs a single import:
//
//	Ref{LogicalName: "BackupBucket"}        → {"Ref": "BackupBucket"}
//	GetAtt{LogicalName: "Role", Attribute: "Arn"}
//	                                        → {"Fn::GetAtt": ["Role", "Arn"]}
//	Sub{String: "${AWS::StackName}-backups"}
//	                                        → {"Fn::Sub": "..."}
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// Split represents a CloudFormation Fn::Split intrinsic function.
	Split = intrinsics.Split

	// Base64 represents a CloudFormation Fn::Base64 intrinsic function.
	Base64 = intrinsics.Base64

	// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
	ImportValue = intrinsics.ImportValue

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Param creates a Ref for a CloudFormation parameter.
var Param = intrinsics.Param

// Pseudo-parameters predefined by CloudFormation, available in every
// template.
var (
	// AWS_ACCOUNT_ID returns the AWS account ID of the deploying account.
	AWS_ACCOUNT_ID = intrinsics.AWS_ACCOUNT_ID

	// AWS_PARTITION returns the partition the resource is in.
	AWS_PARTITION = intrinsics.AWS_PARTITION

	// AWS_REGION returns the AWS Region in which the stack is created.
	AWS_REGION = intrinsics.AWS_REGION

	// AWS_STACK_NAME returns the name of the stack.
	AWS_STACK_NAME = intrinsics.AWS_STACK_NAME

	// AWS_URL_SUFFIX returns the domain suffix (usually amazonaws.com).
	AWS_URL_SUFFIX = intrinsics.AWS_URL_SUFFIX

	// AWS_NO_VALUE removes the resource property when used with Fn::If.
	AWS_NO_VALUE = intrinsics.AWS_NO_VALUE
)

// Json is a shorthand for map[string]any, used for inline JSON objects like
// policy Condition blocks.
type Json = map[string]any

// List creates a typed slice from the given items, avoiding verbose slice
// literals in construct code.
func List[T any](items ...T) []T {
	return items
}

// Any creates a []any slice from the given items. Use for fields typed as
// []any that accept mixed values and intrinsics.
func Any(items ...any) []any {
	return items
}
