// Command groundwork synthesizes CloudFormation templates from construct
// declarations in a stack configuration file.
//
// Usage:
//
//	groundwork synth               Render templates for configured stacks
//	groundwork lint                Synthesize and lint templates
//	groundwork graph <stack>       Dependency graph of one stack
//	groundwork list                List constructs and configured stacks
//	groundwork watch               Re-synthesize on config changes
//	groundwork version             Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "groundwork",
		Short: "Synthesize CloudFormation templates from construct declarations",
		Long: `groundwork assembles operational-automation stacks from construct
libraries and renders them as CloudFormation templates.

Declare stacks in groundwork.yaml:

    stacks:
      nightly-backups:
        construct: backup
        params:
          name: nightly-db
          database_secret_arn: arn:aws:secretsmanager:...:secret:prod/db
          schedule: cron(0 5 * * ? *)

Then render templates:

    groundwork synth`,
	}

	rootCmd.AddCommand(
		newSynthCmd(),
		newLintCmd(),
		newGraphCmd(),
		newListCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("groundwork %s\n", getVersion())
		},
	}
}
