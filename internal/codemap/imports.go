package codemap

import (
	"path"
	"strings"
)

var importSuffixes = []string{"", ".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js"}

// ResolveImport maps an import specifier used in fromFile to the map
// files it refers to. Relative specifiers resolve against the
// importer's directory; "@/" resolves against src/ per the common
// tsconfig alias. Bare package specifiers resolve to nothing.
func (m *Map) ResolveImport(fromFile, specifier string) []string {
	specifier = strings.TrimSpace(specifier)
	var base string
	switch {
	case strings.HasPrefix(specifier, "."):
		base = path.Join(path.Dir(fromFile), specifier)
	case strings.HasPrefix(specifier, "@/"):
		base = strings.TrimPrefix(specifier, "@/")
		if m.anyFileWithPrefix("src/" + base) {
			base = "src/" + base
		}
	default:
		return nil
	}

	out := make([]string, 0, 1)
	for _, suffix := range importSuffixes {
		if _, ok := m.Files[base+suffix]; ok {
			out = append(out, base+suffix)
		}
	}
	return out
}

func (m *Map) anyFileWithPrefix(prefix string) bool {
	for file := range m.Files {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}
