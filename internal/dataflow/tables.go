package dataflow

import (
	"regexp"
	"strings"
)

// TableRef is one persistence call site recovered from source text.
type TableRef struct {
	Table  string
	Line   int
	Offset int
}

// The five generic call shapes covering common ORM/query styles:
// builder `.from("t")`, prisma-style chained accessor `client.t.op(`,
// document `.collection("t")`, schema-model `model("T", ...)`, and
// drizzle-style table declarations `pgTable("t", ...)`.
var (
	fromPattern       = regexp.MustCompile(`\.from\(\s*['"]([A-Za-z0-9_]+)['"]`)
	chainedPattern    = regexp.MustCompile(`\b(?:prisma|db|client)\.([a-zA-Z][A-Za-z0-9_]*)\.(?:findMany|findUnique|findFirst|create|createMany|update|updateMany|upsert|delete|deleteMany|count|aggregate)\(`)
	collectionPattern = regexp.MustCompile(`\.collection\(\s*['"]([A-Za-z0-9_]+)['"]`)
	modelPattern      = regexp.MustCompile(`\bmodel\(\s*['"]([A-Za-z0-9_]+)['"]`)
	tableDeclPattern  = regexp.MustCompile(`\b(?:pgTable|sqliteTable|mysqlTable)\(\s*['"]([A-Za-z0-9_]+)['"]`)
)

var tableRefPatterns = []*regexp.Regexp{
	fromPattern,
	chainedPattern,
	collectionPattern,
	modelPattern,
	tableDeclPattern,
}

// ScanTableRefs recovers table names with their call-site positions.
// The result is ordered by offset; duplicates per table are kept so
// field extraction can inspect each site's neighborhood.
func ScanTableRefs(text string) []TableRef {
	refs := make([]TableRef, 0)
	for _, pattern := range tableRefPatterns {
		for _, match := range pattern.FindAllStringSubmatchIndex(text, -1) {
			start, end := match[2], match[3]
			if start < 0 {
				continue
			}
			refs = append(refs, TableRef{
				Table:  text[start:end],
				Line:   lineAt(text, match[0]),
				Offset: match[0],
			})
		}
	}
	sortRefs(refs)
	return refs
}

var (
	selectArgPattern   = regexp.MustCompile(`\.select\(\s*['"]([^'"]+)['"]`)
	objectKeyPattern   = regexp.MustCompile(`[{,]\s*([a-zA-Z_][A-Za-z0-9_]*)\s*[:,}]`)
	annotationPattern  = regexp.MustCompile(`:\s*(?:Promise<)?([A-Z][A-Za-z0-9_]*)(\[\])?>?`)
	genericCallPattern = regexp.MustCompile(`(?:useQuery|useMutation|useSWR)<\s*([A-Z][A-Za-z0-9_]*)(\[\])?`)
)

// fieldWindow bounds how far around a call site field extraction looks.
const fieldWindow = 400

// FieldsNearRef extracts a best-effort field list from select/insert/
// where argument shapes in the window after a table reference.
func FieldsNearRef(text string, ref TableRef) []string {
	window := sliceWindow(text, ref.Offset, fieldWindow)
	fields := make([]string, 0)

	if match := selectArgPattern.FindStringSubmatch(window); match != nil {
		raw := match[1]
		if raw != "*" {
			for _, field := range strings.Split(raw, ",") {
				field = strings.TrimSpace(field)
				// "author:authors(name)" embeds a relation; keep the alias.
				if idx := strings.IndexAny(field, ":("); idx > 0 {
					field = field[:idx]
				}
				if field != "" && field != "*" {
					fields = append(fields, field)
				}
			}
		}
	}

	for _, verb := range []string{".insert(", ".update(", ".upsert(", ".where(", "data:"} {
		idx := strings.Index(window, verb)
		if idx == -1 {
			continue
		}
		object := objectWindow(window[idx:])
		for _, match := range objectKeyPattern.FindAllStringSubmatch(object, -1) {
			fields = append(fields, match[1])
		}
	}

	return dedupePreservingOrder(fields)
}

// TypeNearRef infers the data-type name for a call site: a nearby type
// annotation wins, otherwise the singularized Pascal-cased table name.
func TypeNearRef(text string, ref TableRef) string {
	window := sliceWindow(text, ref.Offset-fieldWindow, 2*fieldWindow)

	if match := genericCallPattern.FindStringSubmatch(window); match != nil {
		return match[1]
	}
	if match := annotationPattern.FindStringSubmatch(window); match != nil {
		if candidate := match[1]; !annotationNoise[candidate] {
			return candidate
		}
	}
	return TypeNameForTable(ref.Table)
}

// annotationNoise lists capitalized annotation names that never denote
// a domain data type.
var annotationNoise = map[string]bool{
	"Promise": true, "Array": true, "Record": true, "Partial": true,
	"Omit": true, "Pick": true, "Request": true, "Response": true,
	"NextRequest": true, "NextResponse": true, "String": true,
	"Number": true, "Boolean": true, "Date": true, "JSX": true,
}

func sliceWindow(text string, start, size int) string {
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > len(text) {
		end = len(text)
	}
	if start > len(text) {
		start = len(text)
	}
	return text[start:end]
}

// objectWindow cuts the first balanced-ish object literal after idx 0.
func objectWindow(text string) string {
	open := strings.Index(text, "{")
	if open == -1 {
		if idx := strings.Index(text, ")"); idx != -1 {
			return text[:idx]
		}
		return text
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[open : i+1]
			}
		}
	}
	return text[open:]
}

func lineAt(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}

func sortRefs(refs []TableRef) {
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j].Offset < refs[j-1].Offset; j-- {
			refs[j], refs[j-1] = refs[j-1], refs[j]
		}
	}
}

func dedupePreservingOrder(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}
