package codemap

import (
	"path"
	"strings"
)

// protectedSegments mark routes that live behind authentication by
// convention. Path-based and code-based auth signals are each
// sufficient on their own, neither is necessary.
var protectedSegments = map[string]bool{
	"admin":     true,
	"dashboard": true,
	"account":   true,
	"settings":  true,
}

// ResolveEntryPoints derives logical routes from recognized path shapes
// (Next-style app/ and pages/ conventions) and marks protection.
// The resolved map satisfies the invariant that every entry point's
// file exists in m.Files.
func ResolveEntryPoints(m *Map) {
	for _, relPath := range m.SortedPaths() {
		record := m.Files[relPath]
		route, kind, ok := RouteForPath(relPath)
		if !ok {
			continue
		}
		m.EntryPoints[route] = EntryPoint{
			Kind:      kind,
			File:      relPath,
			Protected: pathIsProtected(relPath) || record.HasAuth,
		}
	}
}

// RouteForPath converts a file path under a routing convention into a
// logical route string.
func RouteForPath(relPath string) (route string, kind EntryPointKind, ok bool) {
	normalized := strings.TrimPrefix(relPath, "src/")

	if rest, found := strings.CutPrefix(normalized, "app/"); found {
		return appRouterRoute(rest)
	}
	if rest, found := strings.CutPrefix(normalized, "pages/"); found {
		return pagesRouterRoute(rest)
	}
	return "", "", false
}

func appRouterRoute(rest string) (string, EntryPointKind, bool) {
	base := path.Base(rest)
	stem := strings.TrimSuffix(base, path.Ext(base))

	var kind EntryPointKind
	switch stem {
	case "page":
		kind = EntryPage
	case "route":
		kind = EntryAPI
	default:
		return "", "", false
	}

	dir := path.Dir(rest)
	segments := make([]string, 0)
	if dir != "." {
		for _, segment := range strings.Split(dir, "/") {
			// Route groups "(group)" and parallel slots "@slot" decorate
			// the tree without contributing URL segments.
			if strings.HasPrefix(segment, "(") || strings.HasPrefix(segment, "@") {
				continue
			}
			segments = append(segments, segment)
		}
	}
	return "/" + strings.Join(segments, "/"), kind, true
}

func pagesRouterRoute(rest string) (string, EntryPointKind, bool) {
	stem := strings.TrimSuffix(rest, path.Ext(rest))
	stem = strings.TrimSuffix(stem, "/index")
	if stem == "index" {
		stem = ""
	}
	if strings.HasPrefix(stem, "_") {
		// _app, _document and friends are framework plumbing, not routes.
		return "", "", false
	}

	kind := EntryPage
	if stem == "api" || strings.HasPrefix(stem, "api/") {
		kind = EntryAPI
	}
	return "/" + stem, kind, true
}

func pathIsProtected(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		segment = strings.Trim(segment, "()")
		if protectedSegments[segment] {
			return true
		}
	}
	return false
}
