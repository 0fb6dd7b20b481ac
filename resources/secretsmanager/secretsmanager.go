// Package secretsmanager contains CloudFormation resource types for AWS
// Secrets Manager.
package secretsmanager

// Secret represents an AWS::SecretsManager::Secret resource.
type Secret struct {
	Name                 string                `json:"Name,omitempty"`
	Description          string                `json:"Description,omitempty"`
	SecretString         any                   `json:"SecretString,omitempty"`
	GenerateSecretString *GenerateSecretString `json:"GenerateSecretString,omitempty"`
}

// ResourceType returns the CloudFormation type for a secret.
func (Secret) ResourceType() string { return "AWS::SecretsManager::Secret" }

// GenerateSecretString asks Secrets Manager to generate the secret value.
type GenerateSecretString struct {
	SecretStringTemplate string `json:"SecretStringTemplate,omitempty"`
	GenerateStringKey    string `json:"GenerateStringKey,omitempty"`
	PasswordLength       int    `json:"PasswordLength,omitempty"`
	ExcludeCharacters    string `json:"ExcludeCharacters,omitempty"`
}
