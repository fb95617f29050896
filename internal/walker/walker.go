// Package walker enumerates the candidate source files of a project tree.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/flowlint-dev/flowlint/internal/ignore"
)

// candidate extensions the analyzer understands.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
}

// Warning records a non-fatal problem encountered during the walk.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result holds the ordered candidate set for one project tree.
type Result struct {
	RootPath string
	Files    []string // relative paths, sorted
	Warnings []Warning
}

// Walk enumerates candidate files under root. Only an unreadable root is
// fatal; individual unreadable entries are recorded as warnings. Symlinks
// are never followed, so link cycles cannot recurse.
func Walk(root string, userRules []string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read analysis root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("analysis root %q is not a directory", root)
	}

	matcher := ignore.NewMatcher(append(loadIgnoreFile(root), userRules...))
	gi := loadGitignore(root)

	result := &Result{RootPath: root}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if walkErr != nil {
			result.Warnings = append(result.Warnings, Warning{
				Path:    relPath,
				Message: fmt.Sprintf("walk error: %v", walkErr),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if matcher.ShouldIgnore(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		result.Files = append(result.Files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(result.Files)
	return result, nil
}

// loadIgnoreFile reads project-local .flowlintignore rules, if any.
func loadIgnoreFile(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, ".flowlintignore"))
	if err != nil {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	rules := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			rules = append(rules, line)
		}
	}
	return rules
}

func loadGitignore(root string) *gitignore.GitIgnore {
	gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
