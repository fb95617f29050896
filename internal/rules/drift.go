package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flowlint-dev/flowlint/internal/codemap"
)

const (
	fileSizeWarnLOC     = 400
	fileSizeCriticalLOC = 800
)

// DriftRules returns the structural-drift battery. These run in the
// same registry as the core rules and share the violation shape.
func DriftRules() []Rule {
	return []Rule{
		{Name: "File Size", Check: checkFileSize},
		{Name: "Duplicate Functions", Check: checkDuplicateFunctions},
		{Name: "Export Completeness", Check: checkExportCompleteness},
		{Name: "Unused Files", Check: checkUnusedFiles},
	}
}

func checkFileSize(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		loc := m.Files[path].Metrics.LOC
		if loc <= fileSizeWarnLOC {
			continue
		}
		severity := SeverityWarning
		if loc > fileSizeCriticalLOC {
			severity = SeverityCritical
		}
		out = append(out, Violation{
			Rule:     "File Size",
			Severity: severity,
			File:     path,
			Message:  fmt.Sprintf("file is %d lines of code (threshold %d)", loc, fileSizeWarnLOC),
			Fix:      "Split the file along its export boundaries",
		})
	}
	return out
}

// checkDuplicateFunctions flags an exported symbol name appearing in
// three or more files. One violation per name, anchored to the first
// file in path order.
func checkDuplicateFunctions(m *codemap.Map) []Violation {
	byName := make(map[string][]string)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		if record.Category == codemap.CategoryTest {
			continue
		}
		seen := make(map[string]bool, len(record.Exports))
		for _, export := range record.Exports {
			if export.Name == "default" || seen[export.Name] {
				continue
			}
			seen[export.Name] = true
			byName[export.Name] = append(byName[export.Name], path)
		}
	}

	names := make([]string, 0, len(byName))
	for name, files := range byName {
		if len(files) >= 3 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]Violation, 0, len(names))
	for _, name := range names {
		files := byName[name]
		out = append(out, Violation{
			Rule:     "Duplicate Functions",
			Severity: SeverityWarning,
			File:     files[0],
			Message:  fmt.Sprintf("export %q is declared in %d files: %s", name, len(files), strings.Join(files, ", ")),
			Fix:      "Keep one definition and import it where the copies live",
		})
	}
	return out
}

// checkExportCompleteness flags non-test, non-route files with code but
// no exports. Informational only; scripts and side-effect modules are
// legitimate.
func checkExportCompleteness(m *codemap.Map) []Violation {
	entryFiles := make(map[string]bool, len(m.EntryPoints))
	for _, entry := range m.EntryPoints {
		entryFiles[entry.File] = true
	}

	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		if record.Category == codemap.CategoryTest || entryFiles[path] {
			continue
		}
		if len(record.Exports) > 0 || record.Metrics.LOC == 0 {
			continue
		}
		out = append(out, Violation{
			Rule:     "Export Completeness",
			Severity: SeverityInfo,
			File:     path,
			Message:  "file contains code but exports nothing",
			Fix:      "Export the module's public surface or fold it into its consumer",
		})
	}
	return out
}

// frameworkOwnedStems are file names the router loads by convention.
// Nothing imports them, so reachability cannot see their consumers.
var frameworkOwnedStems = map[string]bool{
	"layout":       true,
	"loading":      true,
	"error":        true,
	"global-error": true,
	"not-found":    true,
	"template":     true,
	"default":      true,
	"middleware":   true,
}

// checkUnusedFiles reports files unreachable from any entry point
// through resolved imports. Informational: dynamic imports and
// framework conventions can hide real consumers. With no entry points
// resolved there is no reachability root, so the check stays silent
// rather than flagging the whole tree.
func checkUnusedFiles(m *codemap.Map) []Violation {
	if len(m.EntryPoints) == 0 {
		return nil
	}

	reachable := make(map[string]bool, len(m.Files))
	queue := make([]string, 0, len(m.EntryPoints))
	for _, entry := range m.EntryPoints {
		if !reachable[entry.File] {
			reachable[entry.File] = true
			queue = append(queue, entry.File)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		record, ok := m.Files[current]
		if !ok {
			continue
		}
		for _, specifier := range record.Imports {
			for _, target := range m.ResolveImport(current, specifier) {
				if !reachable[target] {
					reachable[target] = true
					queue = append(queue, target)
				}
			}
		}
	}

	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		if reachable[path] || record.Category == codemap.CategoryTest {
			continue
		}
		if frameworkOwnedStems[fileStem(path)] || strings.Contains(path, ".config.") {
			continue
		}
		out = append(out, Violation{
			Rule:     "Unused Files",
			Severity: SeverityInfo,
			File:     path,
			Message:  "file is not reachable from any entry point",
			Fix:      "Delete the file or import it from a live module",
		})
	}
	return out
}

func fileStem(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.IndexByte(base, '.'); idx >= 0 {
		base = base[:idx]
	}
	return base
}
