package ignore

import (
	"path/filepath"
	"regexp"
	"strings"
)

type rule struct {
	pattern  string
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher applies gitignore-like rules with "last rule wins" behavior.
type Matcher struct {
	rules []rule
}

// NewMatcher builds a matcher from user-provided .flowlintignore lines.
// Default excludes cover dependency caches and build output of typical
// JS/TS projects; user negation rules can re-include paths.
func NewMatcher(userRules []string) *Matcher {
	defaultRules := []string{
		".git/",
		".flowlint/",
		"node_modules/",
		".next/",
		".turbo/",
		".vercel/",
		"dist/",
		"build/",
		"out/",
		"coverage/",
		"storybook-static/",
	}

	all := make([]string, 0, len(defaultRules)+len(userRules))
	all = append(all, defaultRules...)
	all = append(all, userRules...)

	rules := make([]rule, 0, len(all))
	for _, line := range all {
		if parsed, ok := parseRule(line); ok {
			rules = append(rules, parsed)
		}
	}

	return &Matcher{rules: rules}
}

// ShouldIgnore returns true when relPath should be excluded from analysis.
// Dot-directories and dotfiles are excluded by convention regardless of rules.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	if relPath == "" || relPath == "." {
		return false
	}

	ignored := isDotPath(relPath)
	for _, rule := range m.rules {
		if ruleMatches(rule, relPath, isDir) {
			ignored = !rule.negated
		}
	}
	return ignored
}

func isDotPath(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		if len(segment) > 1 && strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	parsed := rule{}
	if strings.HasPrefix(line, "!") {
		parsed.negated = true
		line = strings.TrimPrefix(line, "!")
	}
	if strings.HasPrefix(line, "/") {
		parsed.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if strings.HasSuffix(line, "/") {
		parsed.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}
	parsed.pattern = line
	return parsed, true
}

// ruleMatches tests one rule against relPath. Unanchored patterns may
// match at any depth; directory-only patterns exclude the directory
// itself and everything under it.
func ruleMatches(rule rule, relPath string, isDir bool) bool {
	if rule.dirOnly {
		if matchDirectoryPattern(rule, relPath) {
			return true
		}
		return isDir && matchPathPattern(rule.pattern, filepath.Base(relPath))
	}

	if rule.anchored {
		return matchPathPattern(rule.pattern, relPath)
	}

	if strings.Contains(rule.pattern, "/") {
		if matchPathPattern(rule.pattern, relPath) {
			return true
		}
		parts := strings.Split(relPath, "/")
		for i := 1; i < len(parts); i++ {
			if matchPathPattern(rule.pattern, strings.Join(parts[i:], "/")) {
				return true
			}
		}
		return false
	}

	if matchPathPattern(rule.pattern, filepath.Base(relPath)) {
		return true
	}
	for _, segment := range strings.Split(relPath, "/") {
		if matchPathPattern(rule.pattern, segment) {
			return true
		}
	}
	return false
}

// matchDirectoryPattern handles trailing-slash rules like
// "node_modules/": the name matches as a whole prefix or as any
// intermediate path segment.
func matchDirectoryPattern(rule rule, relPath string) bool {
	if relPath == rule.pattern || strings.HasPrefix(relPath, rule.pattern+"/") {
		return true
	}
	if rule.anchored {
		return false
	}

	for _, segment := range strings.Split(relPath, "/") {
		if segment == rule.pattern {
			return true
		}
	}
	return false
}

func matchPathPattern(pattern, value string) bool {
	ok, err := regexp.MatchString("^"+globToRegex(pattern)+"$", value)
	return err == nil && ok
}

// globToRegex translates gitignore glob syntax: "**" crosses path
// separators, "*" and "?" stop at them, everything else is literal.
func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch ch := pattern[i]; ch {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		default:
			if strings.ContainsRune(`.+()|[]{}^$\\`, rune(ch)) {
				b.WriteByte('\\')
			}
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// normalizePath makes a path comparable to rule patterns: forward
// slashes, no leading "./" or "/".
func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}
