// Package codemap builds the per-file fact table ("codebase map") that
// the rule battery reads. One record per candidate file, created once
// per run from a full file read and immutable afterwards.
package codemap

import (
	"time"

	"github.com/flowlint-dev/flowlint/internal/jsparse"
)

// Metrics are simple token-counting measures; no real parsing involved.
type Metrics struct {
	LOC                int `json:"loc"`
	FunctionCount      int `json:"functionCount"`
	ExportCount        int `json:"exportCount"`
	ImportCount        int `json:"importCount"`
	CyclomaticEstimate int `json:"cyclomaticEstimate"`
}

// FileRecord is the normalized fact set for one file.
type FileRecord struct {
	Path    string           `json:"path"`
	Exports []jsparse.Export `json:"exports"`
	Imports []string         `json:"imports"`

	HasParse          bool `json:"hasParse"`
	HasAuth           bool `json:"hasAuth"`
	HasTryCatch       bool `json:"hasTryCatch"`
	HasLoadingState   bool `json:"hasLoadingState"`
	HasErrorState     bool `json:"hasErrorState"`
	HasFormValidation bool `json:"hasFormValidation"`

	Mutations   []string `json:"mutations,omitempty"`
	Invalidates []string `json:"invalidates,omitempty"`

	Metrics  Metrics  `json:"metrics"`
	Hash     string   `json:"hash"`
	Category Category `json:"category"`
}

// EntryPointKind distinguishes page routes from API routes.
type EntryPointKind string

const (
	EntryPage EntryPointKind = "page"
	EntryAPI  EntryPointKind = "api"
)

// EntryPoint is a logical route resolved from a recognized path shape.
type EntryPoint struct {
	Kind      EntryPointKind `json:"kind"`
	File      string         `json:"file"`
	Protected bool           `json:"protected"`
}

// Meta describes one analysis run.
type Meta struct {
	GeneratedAt time.Time `json:"generatedAt"`
	FileCount   int       `json:"fileCount"`
}

// Map is the complete codebase map. Every entry point's File refers to a
// key of Files.
type Map struct {
	Meta        Meta                   `json:"meta"`
	Files       map[string]*FileRecord `json:"files"`
	EntryPoints map[string]EntryPoint  `json:"entryPoints"`
	Warnings    []string               `json:"warnings,omitempty"`
}

// SortedPaths returns the file keys in deterministic order.
func (m *Map) SortedPaths() []string {
	paths := make([]string, 0, len(m.Files))
	for path := range m.Files {
		paths = append(paths, path)
	}
	sortStrings(paths)
	return paths
}
