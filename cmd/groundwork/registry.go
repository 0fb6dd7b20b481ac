package main

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/substratehq/groundwork"
	"github.com/substratehq/groundwork/constructs/backup"
	"github.com/substratehq/groundwork/constructs/depscan"
	"github.com/substratehq/groundwork/constructs/edgeauth"
	"github.com/substratehq/groundwork/constructs/stripehook"
	"github.com/substratehq/groundwork/intrinsics"
	"github.com/substratehq/groundwork/stack"
)

// constructBuilder decodes a stack's params and declares its resources.
type constructBuilder func(s *stack.Stack, params *yaml.Node) error

// constructRegistry maps config construct names to builders.
var constructRegistry = map[string]constructBuilder{
	"backup":     buildBackup,
	"depscan":    buildDepscan,
	"edgeauth":   buildEdgeauth,
	"stripehook": buildStripehook,
}

func constructNames() []string {
	names := make([]string, 0, len(constructRegistry))
	for name := range constructRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildStack assembles one configured stack.
func buildStack(name string, sc StackConfig) (*stack.Stack, error) {
	s := stack.New(name)
	if sc.Description != "" {
		s.SetDescription(sc.Description)
	}
	build := constructRegistry[sc.Construct]
	if build == nil {
		return nil, fmt.Errorf("unknown construct %q", sc.Construct)
	}
	if err := build(s, &sc.Params); err != nil {
		return nil, fmt.Errorf("stack %s: %w", name, err)
	}
	return s, nil
}

func decodeParams(params *yaml.Node, out any) error {
	if params == nil || params.Kind == 0 {
		return fmt.Errorf("params are required")
	}
	if err := params.Decode(out); err != nil {
		return fmt.Errorf("decoding params: %w", err)
	}
	return nil
}

func buildBackup(s *stack.Stack, params *yaml.Node) error {
	var p struct {
		Name              string `yaml:"name"`
		DatabaseSecretArn string `yaml:"database_secret_arn"`
		Schedule          string `yaml:"schedule"`
		RetentionDays     int    `yaml:"retention_days"`
		Timeout           int    `yaml:"timeout"`
	}
	if err := decodeParams(params, &p); err != nil {
		return err
	}
	cfg := backup.Config{
		Name:          p.Name,
		Schedule:      p.Schedule,
		RetentionDays: p.RetentionDays,
		Timeout:       p.Timeout,
	}
	if p.DatabaseSecretArn != "" {
		cfg.DatabaseSecretArn = p.DatabaseSecretArn
	}
	_, err := backup.Define(s, cfg)
	return err
}

func buildDepscan(s *stack.Stack, params *yaml.Node) error {
	var p struct {
		Name                string `yaml:"name"`
		RepositoryURL       string `yaml:"repository_url"`
		Ecosystem           string `yaml:"ecosystem"`
		Schedule            string `yaml:"schedule"`
		ReportRetentionDays int    `yaml:"report_retention_days"`
	}
	if err := decodeParams(params, &p); err != nil {
		return err
	}
	_, err := depscan.Define(s, depscan.Config{
		Name:                p.Name,
		RepositoryURL:       p.RepositoryURL,
		Ecosystem:           depscan.Ecosystem(p.Ecosystem),
		Schedule:            p.Schedule,
		ReportRetentionDays: p.ReportRetentionDays,
	})
	return err
}

func buildEdgeauth(s *stack.Stack, params *yaml.Node) error {
	var p struct {
		Name                 string `yaml:"name"`
		InjectorServiceToken string `yaml:"injector_service_token"`
		Realm                string `yaml:"realm"`
		CredentialsParameter string `yaml:"credentials_parameter"`
	}
	if err := decodeParams(params, &p); err != nil {
		return err
	}
	cfg := edgeauth.Config{
		Name:  p.Name,
		Realm: p.Realm,
	}
	if p.InjectorServiceToken != "" {
		cfg.InjectorServiceToken = p.InjectorServiceToken
	}
	// credentials arrive as a template parameter, never config text
	if p.CredentialsParameter != "" {
		s.AddParameter(p.CredentialsParameter, groundwork.Parameter{
			Type:        "String",
			Description: "Base64-encoded user:pass pair for the edge auth check",
		})
		cfg.CredentialsHash = intrinsics.Param(p.CredentialsParameter)
	}
	_, err := edgeauth.Define(s, cfg)
	return err
}

func buildStripehook(s *stack.Stack, params *yaml.Node) error {
	var p struct {
		Name                    string   `yaml:"name"`
		ProvisionerServiceToken string   `yaml:"provisioner_service_token"`
		APIKeySecretArn         string   `yaml:"api_key_secret_arn"`
		EnabledEvents           []string `yaml:"enabled_events"`
		ForwarderCodeBucket     string   `yaml:"forwarder_code_bucket"`
		ForwarderCodeKey        string   `yaml:"forwarder_code_key"`
		EventSource             string   `yaml:"event_source"`
	}
	if err := decodeParams(params, &p); err != nil {
		return err
	}
	cfg := stripehook.Config{
		Name:             p.Name,
		EnabledEvents:    p.EnabledEvents,
		ForwarderCodeKey: p.ForwarderCodeKey,
		EventSource:      p.EventSource,
	}
	if p.ProvisionerServiceToken != "" {
		cfg.ProvisionerServiceToken = p.ProvisionerServiceToken
	}
	if p.APIKeySecretArn != "" {
		cfg.APIKeySecretArn = p.APIKeySecretArn
	}
	if p.ForwarderCodeBucket != "" {
		cfg.ForwarderCodeBucket = p.ForwarderCodeBucket
	}
	_, err := stripehook.Define(s, cfg)
	return err
}
