package dataflow

import (
	"regexp"
	"strings"

	"github.com/flowlint-dev/flowlint/internal/codemap"
	"github.com/flowlint-dev/flowlint/internal/filecache"
	"github.com/flowlint-dev/flowlint/internal/jsparse"
)

// Builder runs the five discovery passes and the connection pass over
// the candidate file set. It reads source through the shared cache,
// independently of the codebase map.
type Builder struct {
	cache  *filecache.Cache
	parser *jsparse.Parser
	files  []string

	texts  map[string]string
	parsed map[string]*jsparse.Facts
}

func NewBuilder(cache *filecache.Cache, files []string) *Builder {
	return &Builder{
		cache:  cache,
		parser: jsparse.NewParser(),
		files:  files,
		texts:  make(map[string]string),
		parsed: make(map[string]*jsparse.Facts),
	}
}

// Build produces the full graph. Validation is a separate pass
// (Validate); Build never emits issues, so a partial graph is never
// judged.
func (b *Builder) Build() *Graph {
	g := NewGraph()

	b.discoverTypes(g)
	b.discoverTables(g)
	b.discoverHooks(g)
	b.discoverComponents(g)
	b.discoverAPIs(g)
	b.connectByImports(g)

	return g
}

// text returns cached file content; files that cannot be read simply
// contribute nothing to discovery.
func (b *Builder) text(relPath string) (string, bool) {
	if cached, ok := b.texts[relPath]; ok {
		return cached, cached != ""
	}
	content, err := b.cache.Read(relPath)
	if err != nil {
		b.texts[relPath] = ""
		return "", false
	}
	text := string(content)
	b.texts[relPath] = text
	return text, true
}

func (b *Builder) facts(relPath string) *jsparse.Facts {
	if cached, ok := b.parsed[relPath]; ok {
		return cached
	}
	text, ok := b.text(relPath)
	if !ok {
		empty := &jsparse.Facts{}
		b.parsed[relPath] = empty
		return empty
	}
	facts, err := b.parser.Parse(relPath, []byte(text))
	if err != nil {
		facts = &jsparse.Facts{}
	}
	b.parsed[relPath] = facts
	return facts
}

// discoverTypes turns structural type declarations into Type nodes.
func (b *Builder) discoverTypes(g *Graph) {
	for _, relPath := range b.files {
		if codemap.Classify(relPath) != codemap.CategoryTypes {
			continue
		}
		for _, decl := range b.facts(relPath).Types {
			g.add(&Node{
				ID:               nodeID(KindType, decl.Name, relPath, 0),
				Kind:             KindType,
				Name:             decl.Name,
				File:             relPath,
				Line:             decl.Line,
				InferredDataType: decl.Name,
				Fields:           append([]string(nil), decl.Fields...),
			})
		}
	}
}

// discoverTables recovers Table nodes from persistence-layer call sites.
func (b *Builder) discoverTables(g *Graph) {
	for _, relPath := range b.files {
		if !b.isPersistenceFile(relPath) {
			continue
		}
		text, ok := b.text(relPath)
		if !ok {
			continue
		}
		for _, ref := range ScanTableRefs(text) {
			node := g.add(&Node{
				ID:               nodeID(KindTable, ref.Table, relPath, 0),
				Kind:             KindTable,
				Name:             ref.Table,
				File:             relPath,
				Line:             ref.Line,
				InferredDataType: TypeNearRef(text, ref),
				TableName:        ref.Table,
			})
			node.Fields = mergeFields(node.Fields, FieldsNearRef(text, ref))
		}
	}
}

func (b *Builder) isPersistenceFile(relPath string) bool {
	if codemap.Classify(relPath) == codemap.CategoryPersistence {
		return true
	}
	for _, imported := range b.facts(relPath).Imports {
		if codemap.PersistenceFlavored(imported) {
			return true
		}
	}
	return false
}

var hookNamePattern = regexp.MustCompile(`^use[A-Z]`)

// discoverHooks finds exported use-prefixed declarations, resolves their
// table reference and data type, and wires edges to matching tables.
func (b *Builder) discoverHooks(g *Graph) {
	for _, relPath := range b.files {
		if codemap.Classify(relPath) == codemap.CategoryTest {
			continue
		}
		facts := b.facts(relPath)
		text, ok := b.text(relPath)
		if !ok {
			continue
		}

		for _, export := range facts.Exports {
			if !hookNamePattern.MatchString(export.Name) {
				continue
			}

			hook := &Node{
				ID:     nodeID(KindHook, export.Name, relPath, 0),
				Kind:   KindHook,
				Name:   export.Name,
				File:   relPath,
				Line:   export.Line,
				Fields: scanFieldAccess(text),
			}

			refs := ScanTableRefs(text)
			if len(refs) > 0 {
				hook.TableName = refs[0].Table
				hook.InferredDataType = TypeNearRef(text, refs[0])
			} else if match := genericCallPattern.FindStringSubmatch(text); match != nil {
				hook.InferredDataType = match[1]
			}

			node := g.add(hook)
			if node.TableName != "" {
				for _, table := range g.NodesOfKind(KindTable) {
					if table.TableName == node.TableName {
						g.link(table, node)
					}
				}
			}
		}
	}
}

var componentDeclPatterns = []string{
	"function %s(",
	"function %s (",
	"const %s = (",
	"const %s = async (",
	"const %s: React.FC",
	"const %s = React.memo",
	"const %s = forwardRef",
}

var hookCallPattern = regexp.MustCompile(`\b(use[A-Z][A-Za-z0-9_]*)\s*\(`)

// discoverComponents finds capitalized identifiers bound to function
// forms, records which hooks they call, and resolves a props type.
func (b *Builder) discoverComponents(g *Graph) {
	hookIndex := make(map[string][]*Node)
	for _, hook := range g.NodesOfKind(KindHook) {
		hookIndex[hook.Name] = append(hookIndex[hook.Name], hook)
	}

	for _, relPath := range b.files {
		category := codemap.Classify(relPath)
		if !codemap.ComponentLike(category) {
			continue
		}
		facts := b.facts(relPath)
		text, ok := b.text(relPath)
		if !ok {
			continue
		}

		for _, export := range facts.Exports {
			if !isComponentName(export.Name) || !declaredAsFunction(text, export.Name) {
				continue
			}

			component := g.add(&Node{
				ID:     nodeID(KindComponent, export.Name, relPath, 0),
				Kind:   KindComponent,
				Name:   export.Name,
				File:   relPath,
				Line:   export.Line,
				Fields: scanFieldAccess(text),
			})
			component.PropsType = propsTypeFor(text)

			for _, match := range hookCallPattern.FindAllStringSubmatch(text, -1) {
				for _, hook := range hookIndex[match[1]] {
					g.link(hook, component)
					if component.InferredDataType == "" {
						component.InferredDataType = hook.InferredDataType
					}
				}
			}
		}
	}
}

// discoverAPIs adds one node per route-handler file; table/type
// inference matches table discovery.
func (b *Builder) discoverAPIs(g *Graph) {
	for _, relPath := range b.files {
		if codemap.Classify(relPath) != codemap.CategoryAPI {
			continue
		}
		route, _, ok := codemap.RouteForPath(relPath)
		if !ok {
			route = "/" + strings.TrimSuffix(relPath, pathExt(relPath))
		}
		text, ok := b.text(relPath)
		if !ok {
			continue
		}

		api := g.add(&Node{
			ID:   nodeID(KindAPI, route, relPath, 0),
			Kind: KindAPI,
			Name: route,
			File: relPath,
		})

		refs := ScanTableRefs(text)
		if len(refs) > 0 {
			api.TableName = refs[0].Table
			api.InferredDataType = TypeNearRef(text, refs[0])
			for _, ref := range refs {
				api.Fields = mergeFields(api.Fields, FieldsNearRef(text, ref))
			}
			for _, table := range g.NodesOfKind(KindTable) {
				if table.TableName == api.TableName {
					g.link(table, api)
				}
			}
		}
	}
}

// connectByImports links Component/Hook nodes to any discovered node
// whose file matches one of their import paths. This catches indirect
// dependencies naming-based discovery misses. Idempotent: the edge set
// is deduplicated by identity.
func (b *Builder) connectByImports(g *Graph) {
	byFile := make(map[string][]*Node)
	for _, node := range g.SortedNodes() {
		byFile[node.File] = append(byFile[node.File], node)
	}

	for _, consumer := range g.SortedNodes() {
		if consumer.Kind != KindComponent && consumer.Kind != KindHook {
			continue
		}
		for _, imported := range b.facts(consumer.File).Imports {
			for _, candidate := range resolveImport(consumer.File, imported, byFile) {
				for _, producer := range byFile[candidate] {
					if producer.Kind == KindComponent {
						continue
					}
					g.link(producer, consumer)
				}
			}
		}
	}
}

// resolveImport maps an import specifier to known node files. Relative
// specifiers resolve against the importer's directory; "@/" resolves
// against the project root (the common tsconfig alias).
func resolveImport(fromFile, specifier string, byFile map[string][]*Node) []string {
	specifier = strings.TrimSpace(specifier)
	var base string
	switch {
	case strings.HasPrefix(specifier, "."):
		base = pathJoin(pathDir(fromFile), specifier)
	case strings.HasPrefix(specifier, "@/"):
		base = strings.TrimPrefix(specifier, "@/")
		if _, ok := byFile["src/"+base]; ok || anyWithPrefix(byFile, "src/"+base) {
			base = "src/" + base
		}
	default:
		return nil
	}

	candidates := make([]string, 0, 8)
	for _, suffix := range []string{"", ".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js"} {
		candidate := base + suffix
		if _, ok := byFile[candidate]; ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

func anyWithPrefix(byFile map[string][]*Node, prefix string) bool {
	for file := range byFile {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}

func isComponentName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

func declaredAsFunction(text, name string) bool {
	for _, pattern := range componentDeclPatterns {
		if strings.Contains(text, strings.Replace(pattern, "%s", name, 1)) {
			return true
		}
	}
	return false
}

var propsAnnotationPattern = regexp.MustCompile(`:\s*([A-Z][A-Za-z0-9_]*Props)\b`)

func propsTypeFor(text string) string {
	if match := propsAnnotationPattern.FindStringSubmatch(text); match != nil {
		return match[1]
	}
	return ""
}

var (
	dataAccessPattern    = regexp.MustCompile(`\b(?:data|item|row|record|entry|result)\.([a-z_][A-Za-z0-9_]*)`)
	bracketAccessPattern = regexp.MustCompile(`\b(?:data|item|row|record|entry|result)\[['"]([A-Za-z0-9_]+)['"]\]`)
	destructurePattern   = regexp.MustCompile(`const\s*\{\s*([^}]+)\}\s*=\s*(?:data|item|row|props)\b`)
)

// builtinMembers are prototype members that field-access scanning must
// not mistake for entity fields.
var builtinMembers = map[string]bool{
	"map": true, "filter": true, "forEach": true, "length": true,
	"slice": true, "reduce": true, "find": true, "some": true,
	"every": true, "sort": true, "push": true, "pop": true,
	"includes": true, "join": true, "concat": true, "flatMap": true,
	"indexOf": true, "at": true, "keys": true, "values": true,
	"entries": true, "toString": true, "then": true, "catch": true,
}

// scanFieldAccess collects entity field usage via generic access shapes:
// obj.field, bracket access, and destructuring of data-shaped variables.
func scanFieldAccess(text string) []string {
	fields := make([]string, 0)

	for _, match := range dataAccessPattern.FindAllStringSubmatch(text, -1) {
		if !builtinMembers[match[1]] {
			fields = append(fields, match[1])
		}
	}
	for _, match := range bracketAccessPattern.FindAllStringSubmatch(text, -1) {
		if !builtinMembers[match[1]] {
			fields = append(fields, match[1])
		}
	}
	for _, match := range destructurePattern.FindAllStringSubmatch(text, -1) {
		for _, name := range strings.Split(match[1], ",") {
			name = strings.TrimSpace(name)
			if idx := strings.IndexAny(name, ":="); idx > 0 {
				name = strings.TrimSpace(name[:idx])
			}
			if name != "" && !builtinMembers[name] && !strings.Contains(name, ".") {
				fields = append(fields, name)
			}
		}
	}

	return dedupePreservingOrder(fields)
}

func pathDir(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx == -1 {
		return "."
	}
	return path[:idx]
}

func pathExt(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return ""
	}
	return path[idx:]
}

func pathJoin(dir, rel string) string {
	segments := strings.Split(dir, "/")
	if dir == "." {
		segments = nil
	}
	for _, segment := range strings.Split(rel, "/") {
		switch segment {
		case "", ".":
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, segment)
		}
	}
	return strings.Join(segments, "/")
}
