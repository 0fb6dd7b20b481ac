package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/substratehq/groundwork"
	"github.com/substratehq/groundwork/stack"
)

func newSynthCmd() *cobra.Command {
	var (
		configFile   string
		outputFormat string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "synth [stacks...]",
		Short: "Render CloudFormation templates for configured stacks",
		Long: `Synth assembles the configured stacks and renders their templates.

With no arguments every stack in the config file is rendered. A single stack
with no --output-dir prints to stdout; otherwise templates are written to the
output directory as <stack>.<format>.

Examples:
    groundwork synth
    groundwork synth nightly-backups
    groundwork synth --format yaml --output-dir ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(configFile, args, outputFormat, outputDir)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", DefaultConfigFile, "Stack configuration file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Write templates to this directory instead of stdout")

	return cmd
}

func runSynth(configFile string, args []string, format, outputDir string) error {
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format: %s", format)
	}

	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	selected, err := cfg.Select(args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	result := groundwork.SynthResult{Success: true}
	for _, name := range names {
		s, err := buildStack(name, selected[name])
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		data, err := render(s, format)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("rendering %s: %v", name, err))
			continue
		}

		result.Stacks = append(result.Stacks, name)

		if outputDir == "" {
			if len(names) > 1 {
				fmt.Printf("# stack: %s\n", name)
			}
			fmt.Println(string(data))
			continue
		}

		path := filepath.Join(outputDir, name+"."+format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("synth failed")
	}
	return nil
}

func render(s *stack.Stack, format string) ([]byte, error) {
	if format == "yaml" {
		return s.YAML()
	}
	return s.JSON()
}
