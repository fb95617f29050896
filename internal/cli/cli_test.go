package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flowlint-dev/flowlint/internal/dataflow"
	"github.com/flowlint-dev/flowlint/internal/rules"
)

var projectFiles = map[string]string{
	// Missing error and loading state on purpose.
	"src/hooks/useBooks.ts": `import { useQuery } from '@tanstack/react-query'
import { supabase } from '../lib/db/client'

export function useBooks() {
  return useQuery({ queryFn: () => supabase.from('books').select('id, title') })
}
`,
	// Component reaching into the persistence layer directly.
	"src/components/BookList.tsx": `import { supabase } from '@/lib/supabase'

export function BookList() {
  return null
}
`,
	// Protected path, no auth idiom in the file.
	"src/app/admin/page.tsx": `export default function AdminPage() {
  return null
}
`,
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func countRule(violations []rules.Violation, rule string) int {
	count := 0
	for _, v := range violations {
		if v.Rule == rule {
			count++
		}
	}
	return count
}

func TestAnalyzeEndToEnd(t *testing.T) {
	root := writeProject(t, projectFiles)

	result, err := Analyze(root, Config{ArtifactsDir: defaultArtifactsDir})
	if err != nil {
		t.Fatal(err)
	}

	if result.Map.Meta.FileCount != 3 {
		t.Errorf("file count = %d, want 3", result.Map.Meta.FileCount)
	}
	for rule, want := range map[string]int{
		"Error Handling":        1,
		"Loading States":        1,
		"Hook-Database Pattern": 1,
		"Auth Guards":           1,
	} {
		if got := countRule(result.Violations, rule); got != want {
			t.Errorf("%s violations = %d, want %d", rule, got, want)
		}
	}
	if result.Score >= 100 {
		t.Errorf("score = %d, expected a penalized score", result.Score)
	}
	if result.Score != rules.Score(result.Violations) {
		t.Error("result score disagrees with the violation list")
	}
	if len(result.Graph.Nodes) == 0 {
		t.Error("graph has no nodes")
	}
}

func TestAnalyzeWritesArtifacts(t *testing.T) {
	root := writeProject(t, projectFiles)
	cfg := Config{ArtifactsDir: defaultArtifactsDir}

	result, err := Analyze(root, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteArtifacts(root, cfg, result); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"map.json", "violations.json", "dataflow.json", "dataflow.txt"} {
		if _, err := os.Stat(filepath.Join(root, defaultArtifactsDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

// A malformed contract registry must not cost the run its rule and
// flow findings.
func TestMalformedContractsDoNotAbortAnalysis(t *testing.T) {
	files := make(map[string]string, len(projectFiles)+1)
	for rel, content := range projectFiles {
		files[rel] = content
	}
	files[".flowlint/contracts.yaml"] = "book: [broken: yaml: mapping"
	root := writeProject(t, files)

	result, err := Analyze(root, Config{ArtifactsDir: defaultArtifactsDir})
	if err != nil {
		t.Fatal(err)
	}

	if countRule(result.Violations, "Error Handling") != 1 {
		t.Error("rule battery findings lost")
	}
	if countRule(result.Violations, "Contract Fields") != 0 {
		t.Error("malformed registry should yield zero contract findings")
	}
	if len(result.Graph.Nodes) == 0 {
		t.Error("flow analysis findings lost")
	}
}

func TestAnalyzeWithContracts(t *testing.T) {
	files := make(map[string]string, len(projectFiles)+2)
	for rel, content := range projectFiles {
		files[rel] = content
	}
	files[".flowlint/contracts.yaml"] = `book:
  required_fields:
    title: string
    author: string
`
	files[".flowlint/examples/books.json"] = `{"book_title": "Dune", "author": "Herbert"}`
	root := writeProject(t, files)

	result, err := Analyze(root, Config{ArtifactsDir: defaultArtifactsDir})
	if err != nil {
		t.Fatal(err)
	}

	if got := countRule(result.Violations, "Contract Fields"); got != 1 {
		t.Fatalf("Contract Fields violations = %d, want 1", got)
	}
	for _, v := range result.Violations {
		if v.Rule == "Contract Fields" {
			if v.Expected != "title" || v.Actual != "book_title" {
				t.Errorf("expected/actual = %q/%q", v.Expected, v.Actual)
			}
		}
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	root := t.TempDir()

	cfg := LoadConfig(root)
	if cfg.ArtifactsDir != defaultArtifactsDir || cfg.contractsDir() != defaultArtifactsDir {
		t.Fatalf("defaults = %+v", cfg)
	}

	t.Setenv("FLOWLINT_OUT", "artifacts")
	t.Setenv("FLOWLINT_CONTRACTS", "contracts")
	cfg = LoadConfig(root)
	if cfg.ArtifactsDir != "artifacts" {
		t.Errorf("ArtifactsDir = %q, want artifacts", cfg.ArtifactsDir)
	}
	if cfg.contractsDir() != "contracts" {
		t.Errorf("contractsDir = %q, want contracts", cfg.contractsDir())
	}
}

func TestResolveRoot(t *testing.T) {
	root := t.TempDir()
	got, err := resolveRoot([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Errorf("resolveRoot = %q, want %q", got, root)
	}

	file := filepath.Join(root, "f.ts")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveRoot([]string{file}); err == nil {
		t.Error("expected an error for a non-directory root")
	}
	if _, err := resolveRoot([]string{filepath.Join(root, "missing")}); err == nil {
		t.Error("expected an error for a missing root")
	}
}

func TestGraphBuildFaultDegradesToEmptyGraph(t *testing.T) {
	graph := graphBoundary("graph builder", func() *dataflow.Graph {
		panic("discovery fault")
	})
	if graph == nil {
		t.Fatal("expected an empty graph, got nil")
	}
	if nodes := graph.SortedNodes(); len(nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(nodes))
	}
	if len(graph.Edges) != 0 {
		t.Errorf("expected no edges, got %d", len(graph.Edges))
	}
}
