// Package s3 contains CloudFormation resource types for Amazon S3.
package s3

// Bucket represents an AWS::S3::Bucket resource.
type Bucket struct {
	BucketName                     any                             `json:"BucketName,omitempty"`
	BucketEncryption               *BucketEncryption               `json:"BucketEncryption,omitempty"`
	VersioningConfiguration        *VersioningConfiguration        `json:"VersioningConfiguration,omitempty"`
	PublicAccessBlockConfiguration *PublicAccessBlockConfiguration `json:"PublicAccessBlockConfiguration,omitempty"`
	LifecycleConfiguration         *LifecycleConfiguration         `json:"LifecycleConfiguration,omitempty"`
}

// ResourceType returns the CloudFormation type for a bucket.
func (Bucket) ResourceType() string { return "AWS::S3::Bucket" }

// BucketEncryption configures server-side encryption.
type BucketEncryption struct {
	ServerSideEncryptionConfiguration []ServerSideEncryptionRule `json:"ServerSideEncryptionConfiguration"`
}

// ServerSideEncryptionRule wraps a default encryption configuration.
type ServerSideEncryptionRule struct {
	ServerSideEncryptionByDefault ServerSideEncryptionByDefault `json:"ServerSideEncryptionByDefault"`
}

// ServerSideEncryptionByDefault selects the encryption algorithm.
type ServerSideEncryptionByDefault struct {
	SSEAlgorithm   string `json:"SSEAlgorithm"`
	KMSMasterKeyID any    `json:"KMSMasterKeyID,omitempty"`
}

// AES256Encryption is a ready-made SSE-S3 encryption block.
func AES256Encryption() *BucketEncryption {
	return &BucketEncryption{
		ServerSideEncryptionConfiguration: []ServerSideEncryptionRule{
			{ServerSideEncryptionByDefault: ServerSideEncryptionByDefault{SSEAlgorithm: "AES256"}},
		},
	}
}

// VersioningConfiguration enables object versioning.
type VersioningConfiguration struct {
	Status string `json:"Status"`
}

// PublicAccessBlockConfiguration blocks public bucket access.
type PublicAccessBlockConfiguration struct {
	BlockPublicAcls       bool `json:"BlockPublicAcls"`
	BlockPublicPolicy     bool `json:"BlockPublicPolicy"`
	IgnorePublicAcls      bool `json:"IgnorePublicAcls"`
	RestrictPublicBuckets bool `json:"RestrictPublicBuckets"`
}

// BlockAllPublicAccess is the standard public access block for private buckets.
func BlockAllPublicAccess() *PublicAccessBlockConfiguration {
	return &PublicAccessBlockConfiguration{
		BlockPublicAcls:       true,
		BlockPublicPolicy:     true,
		IgnorePublicAcls:      true,
		RestrictPublicBuckets: true,
	}
}

// LifecycleConfiguration holds object lifecycle rules.
type LifecycleConfiguration struct {
	Rules []LifecycleRule `json:"Rules"`
}

// LifecycleRule expires or transitions objects.
type LifecycleRule struct {
	ID               string `json:"Id,omitempty"`
	Status           string `json:"Status"`
	ExpirationInDays int    `json:"ExpirationInDays,omitempty"`
	Prefix           string `json:"Prefix,omitempty"`
}

// BucketPolicy represents an AWS::S3::BucketPolicy resource.
type BucketPolicy struct {
	Bucket         any `json:"Bucket"`
	PolicyDocument any `json:"PolicyDocument"`
}

// ResourceType returns the CloudFormation type for a bucket policy.
func (BucketPolicy) ResourceType() string { return "AWS::S3::BucketPolicy" }
