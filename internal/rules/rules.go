// Package rules is the map-driven validator battery. Every rule is a
// pure function over the finished codebase map; rules share no state
// and each degrades to zero findings when its file category is absent.
package rules

import (
	"fmt"
	"sort"

	"github.com/flowlint-dev/flowlint/internal/codemap"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Violation is one finding attributed to a rule and a file. Expected
// and Actual carry the corrected/observed names for naming-drift
// findings.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
}

// Rule pairs a stable name with a pure check over the map.
type Rule struct {
	Name  string
	Check func(m *codemap.Map) []Violation
}

// DefaultRules returns the standard battery in its conventional order.
// The order is cosmetic; every rule is independent.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "Schema Validation", Check: checkSchemaValidation},
		{Name: "Hook-Database Pattern", Check: checkHookDatabasePattern},
		{Name: "Error Handling", Check: checkErrorHandling},
		{Name: "Loading States", Check: checkLoadingStates},
		{Name: "API Validation", Check: checkAPIValidation},
		{Name: "Route Constants", Check: checkRouteConstants},
		{Name: "Cache Invalidation", Check: checkCacheInvalidation},
		{Name: "Form Validation", Check: checkFormValidation},
		{Name: "Auth Guards", Check: checkAuthGuards},
	}
}

// checkSchemaValidation flags persistence-layer files that never parse
// what they read or write.
func checkSchemaValidation(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		if record.Category != codemap.CategoryPersistence || record.HasParse {
			continue
		}
		out = append(out, Violation{
			Rule:     "Schema Validation",
			Severity: SeverityCritical,
			File:     path,
			Message:  "persistence file performs database access without schema parsing",
			Fix:      "Validate rows with a schema parser (e.g. z.object(...).parse) before use",
		})
	}
	return out
}

// checkHookDatabasePattern flags component-layer files that import the
// persistence layer directly instead of going through a hook.
func checkHookDatabasePattern(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		if !codemap.ComponentLike(record.Category) {
			continue
		}
		for _, imported := range record.Imports {
			if codemap.PersistenceFlavored(imported) {
				out = append(out, Violation{
					Rule:     "Hook-Database Pattern",
					Severity: SeverityCritical,
					File:     path,
					Message:  fmt.Sprintf("component imports persistence module %q directly", imported),
					Fix:      "Move the data access into a hook and call the hook from the component",
				})
				break
			}
		}
	}
	return out
}

// checkErrorHandling flags hooks without an error state and API routes
// without a try/catch path.
func checkErrorHandling(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		switch record.Category {
		case codemap.CategoryHook:
			if !record.HasErrorState {
				out = append(out, Violation{
					Rule:     "Error Handling",
					Severity: SeverityCritical,
					File:     path,
					Message:  "hook exposes no error state",
					Fix:      "Surface the query/mutation error (isError, onError, or an error field)",
				})
			}
		case codemap.CategoryAPI:
			if !record.HasTryCatch {
				out = append(out, Violation{
					Rule:     "Error Handling",
					Severity: SeverityCritical,
					File:     path,
					Message:  "API route has no try/catch around its handler body",
					Fix:      "Wrap the handler in try/catch and return an error response",
				})
			}
		}
	}
	return out
}

func checkLoadingStates(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		if record.Category != codemap.CategoryHook || record.HasLoadingState {
			continue
		}
		out = append(out, Violation{
			Rule:     "Loading States",
			Severity: SeverityWarning,
			File:     path,
			Message:  "hook exposes no loading state",
			Fix:      "Expose isLoading/isPending so consumers can render a pending state",
		})
	}
	return out
}

// checkAPIValidation flags API entry points whose backing file accepts
// input without parsing it.
func checkAPIValidation(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, route := range sortedRoutes(m) {
		entry := m.EntryPoints[route]
		if entry.Kind != codemap.EntryAPI {
			continue
		}
		record, ok := m.Files[entry.File]
		if !ok || record.HasParse {
			continue
		}
		out = append(out, Violation{
			Rule:     "API Validation",
			Severity: SeverityCritical,
			File:     entry.File,
			Message:  fmt.Sprintf("API route %s handles requests without schema parsing", route),
			Fix:      "Parse the request body/params with a schema before acting on them",
		})
	}
	return out
}

// checkRouteConstants is reserved. A raw-string-literal route usage
// check was tried here and produced almost no signal on real trees;
// the slot stays so rule numbering in reports remains stable.
func checkRouteConstants(*codemap.Map) []Violation {
	return nil
}

func checkCacheInvalidation(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		if record.Category != codemap.CategoryHook {
			continue
		}
		if len(record.Mutations) == 0 || len(record.Invalidates) > 0 {
			continue
		}
		out = append(out, Violation{
			Rule:     "Cache Invalidation",
			Severity: SeverityWarning,
			File:     path,
			Message:  fmt.Sprintf("hook mutates data (%v) without invalidating caches", record.Mutations),
			Fix:      "Call invalidateQueries (or revalidatePath/revalidateTag) after the mutation",
		})
	}
	return out
}

func checkFormValidation(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, path := range m.SortedPaths() {
		record := m.Files[path]
		if record.Category != codemap.CategoryForm || record.HasFormValidation {
			continue
		}
		out = append(out, Violation{
			Rule:     "Form Validation",
			Severity: SeverityWarning,
			File:     path,
			Message:  "form file has no validation wiring",
			Fix:      "Attach a resolver or validation schema to the form",
		})
	}
	return out
}

// checkAuthGuards flags entry points protected by path convention whose
// backing file carries no auth idiom.
func checkAuthGuards(m *codemap.Map) []Violation {
	out := make([]Violation, 0)
	for _, route := range sortedRoutes(m) {
		entry := m.EntryPoints[route]
		if !entry.Protected {
			continue
		}
		record, ok := m.Files[entry.File]
		if !ok || record.HasAuth {
			continue
		}
		out = append(out, Violation{
			Rule:     "Auth Guards",
			Severity: SeverityCritical,
			File:     entry.File,
			Message:  fmt.Sprintf("protected route %s has no auth check in its backing file", route),
			Fix:      "Guard the route (getServerSession, middleware, or an explicit auth check)",
		})
	}
	return out
}

func sortedRoutes(m *codemap.Map) []string {
	routes := make([]string, 0, len(m.EntryPoints))
	for route := range m.EntryPoints {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}
