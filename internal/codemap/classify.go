package codemap

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// Category is the single file classification every rule consumes.
// Divergent per-rule path heuristics drift apart; this enum is the one
// place path shape is interpreted.
type Category string

const (
	CategoryHook        Category = "hook"
	CategoryComponent   Category = "component"
	CategoryAPI         Category = "api"
	CategoryPersistence Category = "persistence"
	CategoryTypes       Category = "types"
	CategoryForm        Category = "form"
	CategoryTest        Category = "test"
	CategoryOther       Category = "other"
)

var hookFilePattern = regexp.MustCompile(`^use[A-Z]`)

var persistenceSegments = map[string]bool{
	"db":           true,
	"database":     true,
	"models":       true,
	"repositories": true,
	"dal":          true,
	"persistence":  true,
	"queries":      true,
}

// Classify maps a relative path to its file category.
func Classify(relPath string) Category {
	relPath = strings.TrimPrefix(path.Clean(strings.ReplaceAll(relPath, "\\", "/")), "./")
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	segments := strings.Split(path.Dir(relPath), "/")

	switch {
	case isTestPath(relPath, stem):
		return CategoryTest
	case isAPIRoutePath(relPath, segments):
		return CategoryAPI
	case hookFilePattern.MatchString(stem) || hasSegment(segments, "hooks"):
		return CategoryHook
	case hasPersistenceSegment(segments) || stem == "schema" || strings.HasSuffix(stem, ".queries"):
		return CategoryPersistence
	case strings.HasSuffix(base, ".d.ts") || stem == "types" || hasSegment(segments, "types") ||
		hasSegment(segments, "interfaces") || strings.HasSuffix(stem, ".types"):
		return CategoryTypes
	case strings.HasSuffix(stem, "Form") || hasSegment(segments, "forms"):
		return CategoryForm
	case strings.HasSuffix(base, ".tsx") || strings.HasSuffix(base, ".jsx") ||
		hasSegment(segments, "components"):
		return CategoryComponent
	default:
		return CategoryOther
	}
}

// ComponentLike reports whether a category renders UI (rule 2's
// "component-oriented path/extension" notion).
func ComponentLike(category Category) bool {
	return category == CategoryComponent || category == CategoryForm
}

func isTestPath(relPath, stem string) bool {
	if strings.Contains(relPath, "__tests__/") || strings.Contains(relPath, "__mocks__/") {
		return true
	}
	return strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec")
}

func isAPIRoutePath(relPath string, segments []string) bool {
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if strings.Contains(relPath, "pages/api/") {
		return true
	}
	if stem == "route" && hasSegment(segments, "api") {
		return true
	}
	return false
}

func hasSegment(segments []string, want string) bool {
	for _, segment := range segments {
		if segment == want {
			return true
		}
	}
	return false
}

func hasPersistenceSegment(segments []string) bool {
	for _, segment := range segments {
		if persistenceSegments[segment] {
			return true
		}
	}
	return false
}

// persistenceImportTokens flags module identifiers that reach the
// persistence layer. Used by rule 2 and by table discovery.
var persistenceImportTokens = []string{
	"supabase",
	"prisma",
	"drizzle",
	"mongoose",
	"firestore",
	"firebase",
	"knex",
	"typeorm",
	"sequelize",
	"/db",
	"/database",
	"/models",
	"/queries",
}

// PersistenceFlavored reports whether a module identifier looks like a
// persistence-layer import.
func PersistenceFlavored(moduleID string) bool {
	lowered := strings.ToLower(moduleID)
	for _, token := range persistenceImportTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return lowered == "db" || lowered == "database"
}

func sortStrings(values []string) {
	sort.Strings(values)
}
