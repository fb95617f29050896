package rules

import (
	"fmt"
	"os"
	"sort"

	"github.com/flowlint-dev/flowlint/internal/codemap"
)

// Run executes every rule against the map inside a recover boundary.
// A panicking rule is logged and contributes zero findings; the rest
// of the battery is unaffected. The result is sorted for stable output.
func Run(m *codemap.Map, battery []Rule) []Violation {
	out := make([]Violation, 0)
	for _, rule := range battery {
		out = append(out, runOne(m, rule)...)
	}
	SortViolations(out)
	return out
}

func runOne(m *codemap.Map, rule Rule) (found []Violation) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "rule %q failed: %v\n", rule.Name, r)
			found = nil
		}
	}()
	return rule.Check(m)
}

// SortViolations orders findings by file, then rule, then message.
func SortViolations(violations []Violation) {
	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
}
