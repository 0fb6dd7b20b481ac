package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/substratehq/groundwork"
	"github.com/substratehq/groundwork/internal/cfnlint"
)

func newLintCmd() *cobra.Command {
	var (
		configFile   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "lint [stacks...]",
		Short: "Synthesize stacks and lint the rendered templates",
		Long: `Lint assembles the configured stacks and runs cfn-lint on each rendered
template. Warnings are reported but only errors fail the run.

Examples:
    groundwork lint
    groundwork lint nightly-backups --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(configFile, args, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", DefaultConfigFile, "Stack configuration file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runLint(configFile string, args []string, format string) error {
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

	var issues []groundwork.LintIssue
	for _, name := range names {
		s, err := buildStack(name, selected[name])
		if err != nil {
			return err
		}
		tmpl, err := s.Template()
		if err != nil {
			return fmt.Errorf("stack %s: %w", name, err)
		}
		stackIssues, err := cfnlint.LintTemplate(name, &tmpl)
		if err != nil {
			return err
		}
		issues = append(issues, stackIssues...)
	}

	result := groundwork.LintResult{
		Success: !cfnlint.HasErrors(issues),
		Issues:  issues,
	}

	if err := outputLintResult(result, format); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("lint failed")
	}
	return nil
}

func outputLintResult(result groundwork.LintResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if len(result.Issues) == 0 {
			fmt.Println("No issues found.")
			return nil
		}
		for _, issue := range result.Issues {
			fmt.Fprintf(os.Stderr, "%s: [%s] %s: %s\n",
				issue.Stack, issue.Severity, issue.Rule, issue.Message)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
