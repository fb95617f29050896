package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/flowlint-dev/flowlint/internal/codemap"
	"github.com/flowlint-dev/flowlint/internal/filecache"
	"github.com/flowlint-dev/flowlint/internal/jsparse"
	"github.com/flowlint-dev/flowlint/internal/rules"
)

const ruleName = "Contract Fields"

// Validator cross-checks observed field names against the registry.
type Validator struct {
	registry Registry
	cache    *filecache.Cache
	parser   *jsparse.Parser
}

func NewValidator(registry Registry, cache *filecache.Cache) *Validator {
	return &Validator{
		registry: registry,
		cache:    cache,
		parser:   jsparse.NewParser(),
	}
}

// Validate runs the three checks: golden examples under examplesDir,
// type declarations, and component source. An empty registry yields
// zero findings.
func (v *Validator) Validate(m *codemap.Map, examplesDir string) []rules.Violation {
	out := make([]rules.Violation, 0)
	if len(v.registry) == 0 {
		return out
	}

	out = append(out, v.checkExamples(examplesDir)...)
	out = append(out, v.checkTypeDecls(m)...)
	out = append(out, v.checkComponentSource(m)...)
	rules.SortViolations(out)
	return out
}

// checkExamples walks every object in every golden example payload.
// A missing directory means the feature is not in use.
func (v *Validator) checkExamples(dir string) []rules.Violation {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	out := make([]rules.Violation, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var doc any
		if err := json.Unmarshal(content, &doc); err != nil {
			continue
		}

		pathEntity := v.entityForPath(entry.Name())
		walkObjects(doc, func(obj map[string]any) {
			entity := pathEntity
			if entity == "" {
				entity = v.entityForShape(obj)
			}
			if entity == "" {
				return
			}
			for _, field := range sortedKeys(obj) {
				if violation, ok := v.checkProperty(entity, field, path, ""); ok {
					out = append(out, violation)
				}
			}
		})
	}
	return out
}

// checkTypeDecls inspects declared struct-like types in type-category
// files.
func (v *Validator) checkTypeDecls(m *codemap.Map) []rules.Violation {
	out := make([]rules.Violation, 0)
	for _, relPath := range m.SortedPaths() {
		if m.Files[relPath].Category != codemap.CategoryTypes {
			continue
		}
		content, err := v.cache.Read(relPath)
		if err != nil {
			continue
		}
		facts, err := v.parser.Parse(relPath, content)
		if err != nil {
			continue
		}

		for _, decl := range facts.Types {
			entity := strings.ToLower(NormalizeEntityName(decl.Name))
			if _, ok := v.registry[entity]; !ok {
				entity = v.entityForFieldList(decl.Fields)
			}
			if entity == "" {
				continue
			}
			for _, field := range decl.Fields {
				if violation, ok := v.checkProperty(entity, field, relPath, ""); ok {
					out = append(out, violation)
				}
			}
		}
	}
	return out
}

// checkComponentSource scans component-layer text for property-shaped
// occurrences of known mis-namings. The full suppression pipeline
// applies here, including the literal/comment window.
func (v *Validator) checkComponentSource(m *codemap.Map) []rules.Violation {
	out := make([]rules.Violation, 0)
	for _, relPath := range m.SortedPaths() {
		if !codemap.ComponentLike(m.Files[relPath].Category) {
			continue
		}
		entity := v.entityForPath(relPath)
		if entity == "" {
			continue
		}
		content, err := v.cache.Read(relPath)
		if err != nil {
			continue
		}
		text := string(content)

		table := SubstitutionsFor(entity, v.registry[entity])
		for _, wrong := range sortedStringKeys(table) {
			for _, offset := range propertyOccurrences(text, wrong) {
				if InLiteralOrComment(text, offset) {
					continue
				}
				violation, ok := v.checkProperty(entity, wrong, relPath, occurrenceWindow(text, offset))
				if !ok {
					continue
				}
				violation.Message = fmt.Sprintf("%s (line %d)", violation.Message, lineAt(text, offset))
				out = append(out, violation)
				break
			}
		}
	}
	return out
}

// checkProperty applies the suppression pipeline and the positive
// substitution match for one property name.
func (v *Validator) checkProperty(entity, field, file, window string) (rules.Violation, bool) {
	if IsForeignKeyShape(field) {
		return rules.Violation{}, false
	}
	if window != "" && AllowedInUIContext(field, window) {
		return rules.Violation{}, false
	}
	if v.registry.IsAutoGenerated(entity, field) {
		return rules.Violation{}, false
	}

	correct, ok := SubstitutionsFor(entity, v.registry[entity])[field]
	if !ok || !v.registry.IsRequired(entity, correct) {
		return rules.Violation{}, false
	}
	return rules.Violation{
		Rule:     ruleName,
		Severity: rules.SeverityCritical,
		File:     file,
		Message:  fmt.Sprintf("%s field %q should be %q per the %s contract", entity, field, correct, entity),
		Fix:      fmt.Sprintf("Rename %q to %q", field, correct),
		Expected: correct,
		Actual:   field,
	}, true
}

// entityForPath matches registry entities against path segments and
// the file stem, lowercased, accepting plural forms.
func (v *Validator) entityForPath(relPath string) string {
	lowered := strings.ToLower(relPath)
	segments := strings.FieldsFunc(lowered, func(r rune) bool {
		return r == '/' || r == '.' || r == '-' || r == '_'
	})
	for _, entity := range v.registry.Entities() {
		for _, segment := range segments {
			if segment == entity || segment == entity+"s" || segment == entity+"es" ||
				strings.HasPrefix(segment, entity) {
				return entity
			}
		}
	}
	return ""
}

// entityForShape infers an entity structurally: the object must carry
// at least two fields that are required by exactly one entity.
func (v *Validator) entityForShape(obj map[string]any) string {
	return v.entityForFieldList(sortedKeys(obj))
}

func (v *Validator) entityForFieldList(fields []string) string {
	counts := make(map[string]int)
	for _, field := range fields {
		owners := make([]string, 0, 1)
		for entity := range v.registry {
			if v.registry.IsRequired(entity, field) {
				owners = append(owners, entity)
			}
		}
		if len(owners) == 1 {
			counts[owners[0]]++
		}
	}

	matched := ""
	for entity, count := range counts {
		if count < 2 {
			continue
		}
		if matched != "" {
			return ""
		}
		matched = entity
	}
	return matched
}

// NormalizeEntityName strips common type-name suffixes so "BookData"
// and "Book" resolve to the same entity.
func NormalizeEntityName(name string) string {
	for _, suffix := range []string{"Data", "Type", "Model", "Entity"} {
		if trimmed := strings.TrimSuffix(name, suffix); trimmed != name && trimmed != "" {
			return trimmed
		}
	}
	return name
}

// propertyOccurrences lists every property-shaped use of name in text
// order: ".name" member accesses and "name:" object keys. Prose hits
// are included; the caller filters them per occurrence, so a mention
// in a comment never hides a later code use.
func propertyOccurrences(text, name string) []int {
	offsets := make([]int, 0, 2)
	member := regexp.MustCompile(`\.` + regexp.QuoteMeta(name) + `\b`)
	for _, loc := range member.FindAllStringIndex(text, -1) {
		offsets = append(offsets, loc[0]+1)
	}
	key := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*:`)
	for _, loc := range key.FindAllStringIndex(text, -1) {
		offsets = append(offsets, loc[0])
	}
	sort.Ints(offsets)

	deduped := offsets[:0]
	for i, offset := range offsets {
		if i == 0 || offset != offsets[i-1] {
			deduped = append(deduped, offset)
		}
	}
	return deduped
}

const windowRadius = 120

func occurrenceWindow(text string, offset int) string {
	start := offset - windowRadius
	if start < 0 {
		start = 0
	}
	end := offset + windowRadius
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

func lineAt(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}

func walkObjects(value any, fn func(map[string]any)) {
	switch typed := value.(type) {
	case map[string]any:
		fn(typed)
		for _, nested := range typed {
			walkObjects(nested, fn)
		}
	case []any:
		for _, element := range typed {
			walkObjects(element, fn)
		}
	}
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
