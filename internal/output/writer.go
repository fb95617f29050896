// Package output writes the run's artifacts under the project-local
// artifacts directory. Writes are change-detecting so repeated runs on
// an unchanged tree leave file mtimes alone.
package output

import (
	"path/filepath"

	"github.com/flowlint-dev/flowlint/internal/codemap"
	"github.com/flowlint-dev/flowlint/internal/dataflow"
	"github.com/flowlint-dev/flowlint/internal/fileutil"
	"github.com/flowlint-dev/flowlint/internal/rules"
)

const (
	mapFile        = "map.json"
	violationsFile = "violations.json"
	graphFile      = "dataflow.json"
	reportFile     = "dataflow.txt"
)

// Writer persists analysis artifacts under one directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// MapDocument is the serialized codebase map: per-file export/import
// indexes alongside the full record set.
type MapDocument struct {
	Meta        codemap.Meta                   `json:"meta"`
	Exports     map[string][]string            `json:"exports"`
	Imports     map[string][]string            `json:"imports"`
	EntryPoints map[string]codemap.EntryPoint  `json:"entryPoints"`
	Files       map[string]*codemap.FileRecord `json:"files"`
	Warnings    []string                       `json:"warnings,omitempty"`
}

// ViolationsDocument pairs the violation list with its aggregate view.
type ViolationsDocument struct {
	Violations []rules.Violation `json:"violations"`
	Summary    rules.Summary     `json:"summary"`
	Score      int               `json:"score"`
}

// BuildMapDocument derives the serialized form of a map.
func BuildMapDocument(m *codemap.Map) *MapDocument {
	doc := &MapDocument{
		Meta:        m.Meta,
		Exports:     make(map[string][]string, len(m.Files)),
		Imports:     make(map[string][]string, len(m.Files)),
		EntryPoints: m.EntryPoints,
		Files:       m.Files,
		Warnings:    m.Warnings,
	}
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		names := make([]string, 0, len(record.Exports))
		for _, export := range record.Exports {
			names = append(names, export.Name)
		}
		doc.Exports[path] = names
		doc.Imports[path] = append([]string(nil), record.Imports...)
	}
	return doc
}

// BuildViolationsDocument derives the serialized violation report.
func BuildViolationsDocument(violations []rules.Violation) *ViolationsDocument {
	return &ViolationsDocument{
		Violations: violations,
		Summary:    rules.Summarize(violations),
		Score:      rules.Score(violations),
	}
}

func (w *Writer) WriteMap(m *codemap.Map) error {
	return w.writeJSON(mapFile, BuildMapDocument(m))
}

func (w *Writer) WriteViolations(violations []rules.Violation) error {
	return w.writeJSON(violationsFile, BuildViolationsDocument(violations))
}

// WriteGraph writes both the structured graph and its text rendering.
func (w *Writer) WriteGraph(g *dataflow.Graph) error {
	if err := w.writeJSON(graphFile, g); err != nil {
		return err
	}
	report := fileutil.EnsureTrailingNewline(dataflow.Report(g))
	return fileutil.WriteIfChanged(filepath.Join(w.dir, reportFile), []byte(report))
}

func (w *Writer) writeJSON(name string, value any) error {
	data, err := fileutil.EncodeJSON(value)
	if err != nil {
		return err
	}
	return fileutil.WriteIfChanged(filepath.Join(w.dir, name), data)
}
