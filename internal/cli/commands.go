package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flowlint-dev/flowlint/internal/codemap"
	"github.com/flowlint-dev/flowlint/internal/contract"
	"github.com/flowlint-dev/flowlint/internal/dataflow"
	"github.com/flowlint-dev/flowlint/internal/filecache"
	"github.com/flowlint-dev/flowlint/internal/fileutil"
	"github.com/flowlint-dev/flowlint/internal/output"
	"github.com/flowlint-dev/flowlint/internal/rules"
	"github.com/flowlint-dev/flowlint/internal/walker"
)

func RunAnalyze(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveRoot(args)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	failUnder, err := cmd.Flags().GetInt("fail-under")
	if err != nil {
		return fmt.Errorf("failed to read --fail-under flag: %w", err)
	}

	cfg := LoadConfig(rootPath)
	result, err := Analyze(rootPath, cfg)
	if err != nil {
		return err
	}
	if err := WriteArtifacts(rootPath, cfg, result); err != nil {
		return err
	}

	if asJSON {
		if err := fileutil.PrintJSON(analyzeSummary(result)); err != nil {
			return err
		}
	} else {
		printSummary(result, filepath.Join(rootPath, cfg.ArtifactsDir))
	}

	if failUnder > 0 && result.Score < failUnder {
		return fmt.Errorf("health score %d is below --fail-under %d", result.Score, failUnder)
	}
	return nil
}

type runSummary struct {
	Files      int           `json:"files"`
	Score      int           `json:"score"`
	Violations rules.Summary `json:"violations"`
	Nodes      int           `json:"nodes"`
	Edges      int           `json:"edges"`
	FlowIssues int           `json:"flowIssues"`
}

func analyzeSummary(result *Result) runSummary {
	return runSummary{
		Files:      result.Map.Meta.FileCount,
		Score:      result.Score,
		Violations: result.Summary,
		Nodes:      len(result.Graph.Nodes),
		Edges:      len(result.Graph.Edges),
		FlowIssues: len(result.Graph.Issues),
	}
}

func printSummary(result *Result, artifactsDir string) {
	fmt.Printf("analyzed %d files\n", result.Map.Meta.FileCount)
	fmt.Printf("health score: %d/100\n", result.Score)
	fmt.Printf("violations: %d (critical %d, warning %d, info %d)\n",
		result.Summary.Total,
		result.Summary.BySeverity["critical"],
		result.Summary.BySeverity["warning"],
		result.Summary.BySeverity["info"])
	fmt.Printf("graph: %d nodes, %d edges, %d flow issues\n",
		len(result.Graph.Nodes), len(result.Graph.Edges), len(result.Graph.Issues))
	for _, violation := range result.Summary.TopIssues {
		fmt.Printf("  [%s] %s: %s\n", violation.Severity, violation.File, violation.Message)
	}
	fmt.Printf("artifacts written to %s\n", artifactsDir)
}

func RunMap(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveRoot(args)
	if err != nil {
		return err
	}
	walked, err := walker.Walk(rootPath, nil)
	if err != nil {
		return err
	}

	m := codemap.NewBuilder(filecache.New(rootPath)).Build(walked)
	return fileutil.PrintJSON(output.BuildMapDocument(m))
}

func RunGraph(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveRoot(args)
	if err != nil {
		return err
	}
	asText, err := cmd.Flags().GetBool("text")
	if err != nil {
		return fmt.Errorf("failed to read --text flag: %w", err)
	}

	walked, err := walker.Walk(rootPath, nil)
	if err != nil {
		return err
	}
	graph := dataflow.NewBuilder(filecache.New(rootPath), walked.Files).Build()
	dataflow.Validate(graph)

	if asText {
		fmt.Print(fileutil.EnsureTrailingNewline(dataflow.Report(graph)))
		return nil
	}
	return fileutil.PrintJSON(graph)
}

func RunContracts(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveRoot(args)
	if err != nil {
		return err
	}
	cfg := LoadConfig(rootPath)

	registry, err := contract.LoadRegistry(filepath.Join(rootPath, cfg.contractsDir()))
	if err != nil {
		return err
	}

	walked, err := walker.Walk(rootPath, nil)
	if err != nil {
		return err
	}
	cache := filecache.New(rootPath)
	m := codemap.NewBuilder(cache).Build(walked)

	examples := filepath.Join(rootPath, cfg.contractsDir(), "examples")
	violations := contract.NewValidator(registry, cache).Validate(m, examples)
	return fileutil.PrintJSON(output.BuildViolationsDocument(violations))
}
