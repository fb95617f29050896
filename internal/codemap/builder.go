package codemap

import (
	"fmt"
	"sort"
	"time"

	"github.com/flowlint-dev/flowlint/internal/filecache"
	"github.com/flowlint-dev/flowlint/internal/fileutil"
	"github.com/flowlint-dev/flowlint/internal/jsparse"
	"github.com/flowlint-dev/flowlint/internal/walker"
)

// Builder turns walked files into a codebase map.
type Builder struct {
	cache     *filecache.Cache
	parser    *jsparse.Parser
	detectors []Detector
}

func NewBuilder(cache *filecache.Cache) *Builder {
	return &Builder{
		cache:     cache,
		parser:    jsparse.NewParser(),
		detectors: DefaultDetectors(),
	}
}

// Build reads every candidate file once and produces the map. Unreadable
// or unparseable files degrade to warnings; Build fails only on internal
// errors, never on project content.
func (b *Builder) Build(walked *walker.Result) *Map {
	m := &Map{
		Files:       make(map[string]*FileRecord, len(walked.Files)),
		EntryPoints: make(map[string]EntryPoint),
	}
	for _, warning := range walked.Warnings {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%s: %s", warning.Path, warning.Message))
	}

	for _, relPath := range walked.Files {
		content, err := b.cache.Read(relPath)
		if err != nil {
			m.Warnings = append(m.Warnings, fmt.Sprintf("%s: unreadable, skipped: %v", relPath, err))
			continue
		}
		m.Files[relPath] = b.buildRecord(relPath, content, m)
	}

	m.Meta = Meta{GeneratedAt: time.Now().UTC(), FileCount: len(m.Files)}
	ResolveEntryPoints(m)
	return m
}

func (b *Builder) buildRecord(relPath string, content []byte, m *Map) *FileRecord {
	text := string(content)

	// Detectors are independent and commutative; the fold order is
	// fixed only for reproducible Mutations/Invalidates list order.
	var facts Facts
	for _, detector := range b.detectors {
		facts = mergeFacts(facts, detector.Detect(text))
	}

	record := &FileRecord{
		Path:              relPath,
		HasParse:          facts.HasParse,
		HasAuth:           facts.HasAuth,
		HasTryCatch:       facts.HasTryCatch,
		HasLoadingState:   facts.HasLoadingState,
		HasErrorState:     facts.HasErrorState,
		HasFormValidation: facts.HasFormValidation,
		Mutations:         fileutil.DedupeAndSort(facts.Mutations),
		Invalidates:       fileutil.DedupeAndSort(facts.Invalidates),
		Hash:              fileutil.ContentHash(content),
		Category:          Classify(relPath),
	}
	if len(record.Mutations) == 0 {
		record.Mutations = nil
	}
	if len(record.Invalidates) == 0 {
		record.Invalidates = nil
	}

	parsed, err := b.parser.Parse(relPath, content)
	if err != nil {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%s: parse failed: %v", relPath, err))
		parsed = &jsparse.Facts{}
	}
	record.Exports = sortExports(parsed.Exports)
	record.Imports = fileutil.DedupeAndSort(parsed.Imports)
	record.Metrics = computeMetrics(text, parsed.FunctionCount, len(record.Exports), len(record.Imports))

	return record
}

func sortExports(exports []jsparse.Export) []jsparse.Export {
	out := make([]jsparse.Export, len(exports))
	copy(out, exports)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line == out[j].Line {
			return out[i].Name < out[j].Name
		}
		return out[i].Line < out[j].Line
	})
	return out
}
