package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flowlint-dev/flowlint/internal/codemap"
	"github.com/flowlint-dev/flowlint/internal/dataflow"
	"github.com/flowlint-dev/flowlint/internal/jsparse"
	"github.com/flowlint-dev/flowlint/internal/rules"
)

func sampleMap() *codemap.Map {
	return &codemap.Map{
		Meta: codemap.Meta{GeneratedAt: time.Unix(0, 0).UTC(), FileCount: 1},
		Files: map[string]*codemap.FileRecord{
			"src/hooks/useBooks.ts": {
				Path:     "src/hooks/useBooks.ts",
				Exports:  []jsparse.Export{{Name: "useBooks", Line: 3}},
				Imports:  []string{"@tanstack/react-query"},
				Category: codemap.CategoryHook,
			},
		},
		EntryPoints: map[string]codemap.EntryPoint{},
	}
}

func TestWriteMapDocument(t *testing.T) {
	dir := t.TempDir()
	if err := NewWriter(dir).WriteMap(sampleMap()); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "map.json"))
	if err != nil {
		t.Fatal(err)
	}
	var doc MapDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		t.Fatalf("map.json is not valid JSON: %v", err)
	}

	if doc.Meta.FileCount != 1 {
		t.Errorf("meta.fileCount = %d, want 1", doc.Meta.FileCount)
	}
	if got := doc.Exports["src/hooks/useBooks.ts"]; len(got) != 1 || got[0] != "useBooks" {
		t.Errorf("exports section = %v", got)
	}
	if _, ok := doc.Files["src/hooks/useBooks.ts"]; !ok {
		t.Error("files section missing the record")
	}
}

func TestWriteViolationsIncludesSummaryAndScore(t *testing.T) {
	dir := t.TempDir()
	violations := []rules.Violation{
		{Rule: "Error Handling", Severity: rules.SeverityCritical, File: "a.ts"},
		{Rule: "Loading States", Severity: rules.SeverityWarning, File: "a.ts"},
	}
	if err := NewWriter(dir).WriteViolations(violations); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "violations.json"))
	if err != nil {
		t.Fatal(err)
	}
	var doc ViolationsDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		t.Fatal(err)
	}

	if doc.Score != 85 {
		t.Errorf("score = %d, want 85", doc.Score)
	}
	if doc.Summary.Total != 2 || doc.Summary.BySeverity["critical"] != 1 {
		t.Errorf("summary = %+v", doc.Summary)
	}
}

func TestWriteIsStableAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if err := w.WriteMap(sampleMap()); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(dir, "map.json"))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.WriteMap(sampleMap()); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "map.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatal("map.json differs across identical runs")
	}
}

func TestWriteGraphProducesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	g := dataflow.NewGraph()
	if err := NewWriter(dir).WriteGraph(g); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"dataflow.json", "dataflow.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}
