// Package cfnlint validates synthesized templates with cfn-lint-go.
package cfnlint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	"github.com/substratehq/groundwork"
)

// LintFile lints a template file on disk and returns the issues found,
// tagged with the given stack name.
func LintFile(stackName, templatePath string) ([]groundwork.LintIssue, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template not found: %s", templatePath)
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("linting %s: %w", templatePath, err)
	}

	issues := make([]groundwork.LintIssue, 0, len(matches))
	for _, match := range matches {
		issues = append(issues, groundwork.LintIssue{
			Stack:    stackName,
			Severity: severity(match.Level),
			Message:  message(match),
			Rule:     match.Rule.ID,
		})
	}
	return issues, nil
}

// LintTemplate lints an in-memory template. The template is rendered to a
// temp file because the linter operates on files.
func LintTemplate(stackName string, tmpl *groundwork.Template) ([]groundwork.LintIssue, error) {
	encoded, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}

	dir, err := os.MkdirTemp("", "groundwork-lint-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, stackName+".json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return nil, err
	}
	return LintFile(stackName, path)
}

// HasErrors reports whether any issue is an error. Warnings and
// informational issues do not fail a lint run.
func HasErrors(issues []groundwork.LintIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}

func severity(level string) string {
	switch level {
	case "Error":
		return "error"
	case "Warning":
		return "warning"
	default:
		return "info"
	}
}

func message(match lint.Match) string {
	if len(match.Location.Path) == 0 {
		return match.Message
	}
	parts := make([]string, len(match.Location.Path))
	for i, p := range match.Location.Path {
		parts[i] = fmt.Sprintf("%v", p)
	}
	return fmt.Sprintf("%s (at %s)", match.Message, strings.Join(parts, "/"))
}
