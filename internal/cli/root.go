package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flowlint",
		Short: "Static analysis for data flow in JS/TS codebases",
		Long: `Flowlint inspects a JavaScript/TypeScript source tree and produces a
per-file codebase map, a data-flow graph (types, tables, hooks,
components, API routes), a rule-based violation report, and a 0-100
health score.

Artifacts are written to .flowlint/ and can be version-controlled.`,
		SilenceUsage: true,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Run the full pipeline and write artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunAnalyze,
	}
	analyzeCmd.Flags().Bool("json", false, "Print machine-readable run summary")
	analyzeCmd.Flags().Int("fail-under", 0, "Exit non-zero when the health score is below N")

	mapCmd := &cobra.Command{
		Use:   "map [path]",
		Short: "Build the codebase map and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunMap,
	}

	graphCmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Build the data-flow graph and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunGraph,
	}
	graphCmd.Flags().Bool("text", false, "Print the human-readable report instead of JSON")

	contractsCmd := &cobra.Command{
		Use:   "contracts [path]",
		Short: "Run only the contract validator and print findings as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunContracts,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flowlint %s\n", version)
		},
	}

	rootCmd.AddCommand(
		analyzeCmd,
		mapCmd,
		graphCmd,
		contractsCmd,
		versionCmd,
	)

	return rootCmd
}
