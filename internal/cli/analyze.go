package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowlint-dev/flowlint/internal/codemap"
	"github.com/flowlint-dev/flowlint/internal/contract"
	"github.com/flowlint-dev/flowlint/internal/dataflow"
	"github.com/flowlint-dev/flowlint/internal/filecache"
	"github.com/flowlint-dev/flowlint/internal/output"
	"github.com/flowlint-dev/flowlint/internal/rules"
	"github.com/flowlint-dev/flowlint/internal/walker"
)

// Result is everything one analysis run produced.
type Result struct {
	Map        *codemap.Map
	Graph      *dataflow.Graph
	Violations []rules.Violation
	Summary    rules.Summary
	Score      int
}

// Analyze runs the whole pipeline: walk, map, rule battery, contract
// validator, graph build and flow validation. Each validator runs in
// its own failure boundary; a fault in one leaves the others' findings
// intact. Only an unwalkable root is fatal.
func Analyze(rootPath string, cfg Config) (*Result, error) {
	walked, err := walker.Walk(rootPath, nil)
	if err != nil {
		return nil, err
	}

	cache := filecache.New(rootPath)
	m := codemap.NewBuilder(cache).Build(walked)

	violations := make([]rules.Violation, 0)
	violations = append(violations, runBoundary("rule battery", func() []rules.Violation {
		return rules.Run(m, append(rules.DefaultRules(), rules.DriftRules()...))
	})...)
	violations = append(violations, runBoundary("contract validator", func() []rules.Violation {
		registry, err := contract.LoadRegistry(filepath.Join(rootPath, cfg.contractsDir()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "contract registry unusable: %v\n", err)
			return nil
		}
		examples := filepath.Join(rootPath, cfg.contractsDir(), "examples")
		return contract.NewValidator(registry, cache).Validate(m, examples)
	})...)
	rules.SortViolations(violations)

	graph := graphBoundary("graph builder", func() *dataflow.Graph {
		return dataflow.NewBuilder(cache, walked.Files).Build()
	})
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "flow validator failed: %v\n", r)
			}
		}()
		dataflow.Validate(graph)
	}()

	return &Result{
		Map:        m,
		Graph:      graph,
		Violations: violations,
		Summary:    rules.Summarize(violations),
		Score:      rules.Score(violations),
	}, nil
}

// runBoundary isolates one validator. A panic is logged and yields
// zero findings without touching the rest of the run.
func runBoundary(name string, fn func() []rules.Violation) (found []rules.Violation) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, r)
			found = nil
		}
	}()
	return fn()
}

// graphBoundary isolates the graph build. A panic in the discovery
// heuristics degrades to an empty graph instead of aborting the run.
func graphBoundary(name string, fn func() *dataflow.Graph) (g *dataflow.Graph) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, r)
			g = dataflow.NewGraph()
		}
	}()
	return fn()
}

// WriteArtifacts persists the run under the artifacts directory.
func WriteArtifacts(rootPath string, cfg Config, result *Result) error {
	writer := output.NewWriter(filepath.Join(rootPath, cfg.ArtifactsDir))
	if err := writer.WriteMap(result.Map); err != nil {
		return err
	}
	if err := writer.WriteViolations(result.Violations); err != nil {
		return err
	}
	return writer.WriteGraph(result.Graph)
}
