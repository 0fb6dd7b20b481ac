package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file synth reads when -c is not given.
const DefaultConfigFile = "groundwork.yaml"

// Config is the stack configuration file.
//
//	stacks:
//	  nightly-backups:
//	    construct: backup
//	    description: Nightly database backups
//	    params:
//	      name: nightly-db
//	      database_secret_arn: arn:aws:secretsmanager:...
//	      schedule: cron(0 5 * * ? *)
type Config struct {
	Stacks map[string]StackConfig `yaml:"stacks"`
}

// StackConfig declares one stack: which construct builds it and with what
// parameters.
type StackConfig struct {
	Construct   string    `yaml:"construct"`
	Description string    `yaml:"description,omitempty"`
	Params      yaml.Node `yaml:"params"`
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(cfg.Stacks) == 0 {
		return nil, fmt.Errorf("%s declares no stacks", path)
	}
	for name, sc := range cfg.Stacks {
		if sc.Construct == "" {
			return nil, fmt.Errorf("stack %s: construct is required", name)
		}
		if _, ok := constructRegistry[sc.Construct]; !ok {
			return nil, fmt.Errorf("stack %s: unknown construct %q (known: %v)",
				name, sc.Construct, constructNames())
		}
	}
	return &cfg, nil
}

// StackNames returns the configured stack names, sorted.
func (c *Config) StackNames() []string {
	names := make([]string, 0, len(c.Stacks))
	for name := range c.Stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the subset of stacks named in args, or all stacks when args
// is empty.
func (c *Config) Select(args []string) (map[string]StackConfig, error) {
	if len(args) == 0 {
		return c.Stacks, nil
	}
	selected := make(map[string]StackConfig, len(args))
	for _, name := range args {
		sc, ok := c.Stacks[name]
		if !ok {
			return nil, fmt.Errorf("unknown stack %q (configured: %v)", name, c.StackNames())
		}
		selected[name] = sc
	}
	return selected, nil
}
