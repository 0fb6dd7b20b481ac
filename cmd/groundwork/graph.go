package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/substratehq/groundwork/internal/graph"
)

func newGraphCmd() *cobra.Command {
	var (
		configFile        string
		outputFormat      string
		includeParameters bool
		clusterByService  bool
	)

	cmd := &cobra.Command{
		Use:   "graph <stack>",
		Short: "Generate a dependency graph of a synthesized stack",
		Long: `Generate a DOT or Mermaid graph of one stack's resource dependencies.
Edges come from DependsOn plus Ref and Fn::GetAtt references.

Render with Graphviz:
    groundwork graph nightly-backups | dot -Tpng -o deps.png

Or embed in markdown:
    groundwork graph nightly-backups -f mermaid

Examples:
    groundwork graph nightly-backups
    groundwork graph nightly-backups -p      # include parameters
    groundwork graph nightly-backups -C      # cluster by service`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(configFile, args[0], outputFormat, includeParameters, clusterByService)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", DefaultConfigFile, "Stack configuration file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&includeParameters, "include-parameters", "p", false, "Include parameter nodes in the graph")
	cmd.Flags().BoolVarP(&clusterByService, "cluster", "C", false, "Cluster resources by AWS service")

	return cmd
}

func runGraph(configFile, stackName, format string, includeParams, cluster bool) error {
	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	sc, ok := cfg.Stacks[stackName]
	if !ok {
		return fmt.Errorf("unknown stack %q (configured: %v)", stackName, cfg.StackNames())
	}

	s, err := buildStack(stackName, sc)
	if err != nil {
		return err
	}
	tmpl, err := s.Template()
	if err != nil {
		return fmt.Errorf("stack %s: %w", stackName, err)
	}

	gen := &graph.Generator{
		Format:            graphFormat,
		IncludeParameters: includeParams,
		ClusterByService:  cluster,
	}
	return gen.Generate(&tmpl, os.Stdout)
}
