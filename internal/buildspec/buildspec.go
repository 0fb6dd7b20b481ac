// Package buildspec models CodeBuild buildspec documents and renders them
// to YAML for inlining into AWS::CodeBuild::Project sources.
package buildspec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is a CodeBuild buildspec document.
type Spec struct {
	Version   string     `yaml:"version"`
	Env       *Env       `yaml:"env,omitempty"`
	Phases    Phases     `yaml:"phases"`
	Artifacts *Artifacts `yaml:"artifacts,omitempty"`
}

// Env declares build environment variables and secret bindings.
type Env struct {
	Variables map[string]string `yaml:"variables,omitempty"`

	// SecretsManager maps env var names to secret references
	// ("secret-id:json-key"), resolved by CodeBuild at build time.
	SecretsManager map[string]string `yaml:"secrets-manager,omitempty"`
}

// Phases holds the build phase command lists.
type Phases struct {
	Install   *Phase `yaml:"install,omitempty"`
	PreBuild  *Phase `yaml:"pre_build,omitempty"`
	Build     *Phase `yaml:"build,omitempty"`
	PostBuild *Phase `yaml:"post_build,omitempty"`
}

// Phase is a single build phase.
type Phase struct {
	Commands []string `yaml:"commands"`
}

// Artifacts declares build output files.
type Artifacts struct {
	Files []string `yaml:"files"`
	Name  string   `yaml:"name,omitempty"`
}

// New creates a buildspec with the current schema version.
func New() Spec {
	return Spec{Version: "0.2"}
}

// Render serializes the buildspec to YAML.
func (s Spec) Render() (string, error) {
	if s.Version == "" {
		return "", fmt.Errorf("buildspec version is required")
	}
	if s.Phases.Build == nil || len(s.Phases.Build.Commands) == 0 {
		return "", fmt.Errorf("buildspec requires at least one build command")
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("rendering buildspec: %w", err)
	}
	return string(data), nil
}
