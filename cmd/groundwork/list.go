package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/substratehq/groundwork"
)

func newListCmd() *cobra.Command {
	var (
		configFile   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available constructs and configured stacks",
		Long: `List shows the construct libraries this build knows about and, when the
config file exists, the stacks it declares.

Examples:
    groundwork list
    groundwork list --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(configFile, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", DefaultConfigFile, "Stack configuration file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runList(configFile, format string) error {
	result := groundwork.ListResult{
		Constructs: constructNames(),
	}

	// The config file is optional for list: without one only the constructs
	// are shown.
	if _, err := os.Stat(configFile); err == nil {
		cfg, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		result.Stacks = cfg.StackNames()
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		fmt.Printf("Constructs (%d):\n", len(result.Constructs))
		for _, name := range result.Constructs {
			fmt.Printf("  %s\n", name)
		}
		if len(result.Stacks) > 0 {
			fmt.Printf("\nStacks in %s (%d):\n", configFile, len(result.Stacks))
			for _, name := range result.Stacks {
				fmt.Printf("  %s\n", name)
			}
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
