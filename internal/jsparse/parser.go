// Package jsparse is the tree-sitter front end for TypeScript/JavaScript
// sources. It extracts the structural facts the analysis passes consume:
// exported symbols, imported modules, and declared object types with
// their field lists. Extraction is best-effort: complex re-export chains
// may be under-counted, but facts are never attributed to another file.
package jsparse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Export is an exported symbol with its declaration line.
type Export struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// TypeDecl is a structural type declaration (interface or object-shaped
// type alias) with its declared field names.
type TypeDecl struct {
	Name   string   `json:"name"`
	Line   int      `json:"line"`
	Fields []string `json:"fields"`
}

// Facts holds everything the parser extracts from one file.
type Facts struct {
	Exports       []Export
	Imports       []string
	Types         []TypeDecl
	FunctionCount int
}

// Parser wraps per-dialect tree-sitter parsers. Not safe for concurrent
// use; the pipeline is single-threaded by design.
type Parser struct {
	ts  *sitter.Parser
	tsx *sitter.Parser
	js  *sitter.Parser
}

func NewParser() *Parser {
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(typescript.GetLanguage())

	tsxParser := sitter.NewParser()
	tsxParser.SetLanguage(tsx.GetLanguage())

	jsParser := sitter.NewParser()
	jsParser.SetLanguage(javascript.GetLanguage())

	return &Parser{ts: tsParser, tsx: tsxParser, js: jsParser}
}

// Parse extracts facts from one source file. A file the grammar cannot
// make sense of still yields a (possibly empty) fact set, not an error,
// unless tree-sitter itself fails.
func (p *Parser) Parse(filename string, content []byte) (*Facts, error) {
	parser := p.js
	switch {
	case strings.HasSuffix(filename, ".tsx"):
		parser = p.tsx
	case strings.HasSuffix(filename, ".ts"):
		parser = p.ts
	}

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	facts := &Facts{}
	walk(tree.RootNode(), content, facts, false)

	facts.Exports = dedupeExports(facts.Exports)
	facts.Imports = dedupeStrings(facts.Imports)
	return facts, nil
}

func walk(node *sitter.Node, content []byte, facts *Facts, exported bool) {
	switch node.Type() {
	case "import_statement":
		if module := importSource(node, content); module != "" {
			facts.Imports = append(facts.Imports, module)
		}
		return

	case "call_expression":
		if module := requireSource(node, content); module != "" {
			facts.Imports = append(facts.Imports, module)
		}

	case "export_statement":
		collectExportClause(node, content, facts)
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i), content, facts, true)
		}
		return

	case "function_declaration", "generator_function_declaration":
		facts.FunctionCount++
		if exported {
			addNamedExport(node, content, facts)
		}

	case "arrow_function", "function_expression", "function", "method_definition":
		facts.FunctionCount++

	case "class_declaration":
		if exported {
			addNamedExport(node, content, facts)
		}

	case "lexical_declaration", "variable_declaration":
		if exported {
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				if child.Type() != "variable_declarator" {
					continue
				}
				if name := child.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
					facts.Exports = append(facts.Exports, Export{
						Name: name.Content(content),
						Line: line(child),
					})
				}
			}
		}

	case "interface_declaration":
		decl := TypeDecl{Fields: collectPropertyNames(node, content)}
		if name := node.ChildByFieldName("name"); name != nil {
			decl.Name = name.Content(content)
		}
		decl.Line = line(node)
		if decl.Name != "" {
			facts.Types = append(facts.Types, decl)
			if exported {
				facts.Exports = append(facts.Exports, Export{Name: decl.Name, Line: decl.Line})
			}
		}

	case "type_alias_declaration":
		decl := TypeDecl{Fields: collectPropertyNames(node, content)}
		if name := node.ChildByFieldName("name"); name != nil {
			decl.Name = name.Content(content)
		}
		decl.Line = line(node)
		if decl.Name != "" {
			facts.Types = append(facts.Types, decl)
			if exported {
				facts.Exports = append(facts.Exports, Export{Name: decl.Name, Line: decl.Line})
			}
		}

	case "assignment_expression":
		collectCommonJSExport(node, content, facts)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), content, facts, false)
	}
}

func addNamedExport(node *sitter.Node, content []byte, facts *Facts) {
	name := node.ChildByFieldName("name")
	if name == nil {
		// export default function () {}
		facts.Exports = append(facts.Exports, Export{Name: "default", Line: line(node)})
		return
	}
	facts.Exports = append(facts.Exports, Export{Name: name.Content(content), Line: line(node)})
}

// collectExportClause handles `export { a, b as c }` and bare
// `export default <expr>` forms.
func collectExportClause(node *sitter.Node, content []byte, facts *Facts) {
	hasDefault := false
	hasDeclaration := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "default":
			hasDefault = true
		case "export_clause":
			hasDeclaration = true
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					name = alias
				}
				if name != nil {
					facts.Exports = append(facts.Exports, Export{
						Name: name.Content(content),
						Line: line(spec),
					})
				}
			}
		case "function_declaration", "generator_function_declaration", "class_declaration",
			"lexical_declaration", "variable_declaration", "interface_declaration",
			"type_alias_declaration", "enum_declaration":
			hasDeclaration = true
		}
	}

	if hasDefault && !hasDeclaration {
		// export default someExpression
		facts.Exports = append(facts.Exports, Export{Name: "default", Line: line(node)})
	}
}

// collectCommonJSExport handles `module.exports = ...` and
// `exports.name = ...` assignment shapes.
func collectCommonJSExport(node *sitter.Node, content []byte, facts *Facts) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "member_expression" {
		return
	}

	raw := left.Content(content)
	switch {
	case raw == "module.exports":
		facts.Exports = append(facts.Exports, Export{Name: "default", Line: line(node)})
	case strings.HasPrefix(raw, "module.exports."):
		facts.Exports = append(facts.Exports, Export{
			Name: strings.TrimPrefix(raw, "module.exports."),
			Line: line(node),
		})
	case strings.HasPrefix(raw, "exports."):
		facts.Exports = append(facts.Exports, Export{
			Name: strings.TrimPrefix(raw, "exports."),
			Line: line(node),
		})
	}
}

func importSource(node *sitter.Node, content []byte) string {
	if source := node.ChildByFieldName("source"); source != nil {
		return unquote(source.Content(content))
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "string" {
			return unquote(child.Content(content))
		}
	}
	return ""
}

func requireSource(node *sitter.Node, content []byte) string {
	fn := node.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || fn.Content(content) != "require" {
		return ""
	}
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == "string" {
			return unquote(arg.Content(content))
		}
	}
	return ""
}

// collectPropertyNames gathers property_signature names anywhere under a
// type declaration. Recursing instead of matching the body node keeps
// this stable across grammar revisions.
func collectPropertyNames(node *sitter.Node, content []byte) []string {
	fields := make([]string, 0)
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "property_signature" || n.Type() == "method_signature" {
			if name := n.ChildByFieldName("name"); name != nil {
				fields = append(fields, name.Content(content))
			}
			if n.Type() == "property_signature" {
				return
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(node)
	return dedupeStrings(fields)
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first := value[0]
		if first == '"' || first == '\'' || first == '`' {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}

func dedupeExports(values []Export) []Export {
	seen := make(map[string]bool, len(values))
	out := make([]Export, 0, len(values))
	for _, value := range values {
		key := value.Name
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, value)
	}
	return out
}
