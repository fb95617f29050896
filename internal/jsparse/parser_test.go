package jsparse

import "testing"

func parse(t *testing.T, name, src string) *Facts {
	t.Helper()
	facts, err := NewParser().Parse(name, []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return facts
}

func exportNames(facts *Facts) map[string]int {
	out := make(map[string]int, len(facts.Exports))
	for _, export := range facts.Exports {
		out[export.Name] = export.Line
	}
	return out
}

func TestParseTypeScriptExportsAndImports(t *testing.T) {
	src := `import { createClient } from '@supabase/supabase-js'
import React from 'react'

export const useBooks = () => { return null }

export function formatTitle(title: string): string {
  return title.trim()
}

const internal = 1

export default function Page() { return null }
`
	facts := parse(t, "src/hooks/useBooks.ts", src)

	names := exportNames(facts)
	if _, ok := names["useBooks"]; !ok {
		t.Errorf("missing useBooks export, got %v", names)
	}
	if _, ok := names["formatTitle"]; !ok {
		t.Errorf("missing formatTitle export, got %v", names)
	}
	if _, ok := names["Page"]; !ok {
		t.Errorf("missing default-exported Page, got %v", names)
	}
	if _, ok := names["internal"]; ok {
		t.Error("internal const must not be exported")
	}
	if names["useBooks"] != 4 {
		t.Errorf("useBooks line = %d, want 4", names["useBooks"])
	}

	wantImports := map[string]bool{"@supabase/supabase-js": true, "react": true}
	for _, imp := range facts.Imports {
		if !wantImports[imp] {
			t.Errorf("unexpected import %q", imp)
		}
		delete(wantImports, imp)
	}
	if len(wantImports) != 0 {
		t.Errorf("missing imports: %v", wantImports)
	}
}

func TestParseInterfaceFields(t *testing.T) {
	src := `export interface Book {
  id: string
  title: string
  author: string
  published_at: string
}

type BookFormData = {
  title: string
  author: string
}
`
	facts := parse(t, "src/types/book.ts", src)

	if len(facts.Types) != 2 {
		t.Fatalf("expected 2 type declarations, got %d", len(facts.Types))
	}

	book := facts.Types[0]
	if book.Name != "Book" {
		t.Fatalf("expected Book, got %q", book.Name)
	}
	want := []string{"id", "title", "author", "published_at"}
	if len(book.Fields) != len(want) {
		t.Fatalf("Book fields = %v, want %v", book.Fields, want)
	}
	for i, field := range want {
		if book.Fields[i] != field {
			t.Errorf("field %d = %q, want %q", i, book.Fields[i], field)
		}
	}

	alias := facts.Types[1]
	if alias.Name != "BookFormData" || len(alias.Fields) != 2 {
		t.Errorf("alias = %+v, want BookFormData with 2 fields", alias)
	}
}

func TestParseExportClauseAndCommonJS(t *testing.T) {
	tsSrc := `const a = 1
const b = 2
export { a, b as renamed }
`
	facts := parse(t, "src/lib/util.ts", tsSrc)
	names := exportNames(facts)
	if _, ok := names["a"]; !ok {
		t.Errorf("missing a export, got %v", names)
	}
	if _, ok := names["renamed"]; !ok {
		t.Errorf("missing renamed export, got %v", names)
	}

	jsSrc := `const db = require('./db')
exports.listBooks = function () {}
module.exports.countBooks = () => {}
`
	facts = parse(t, "src/lib/legacy.js", jsSrc)
	names = exportNames(facts)
	if _, ok := names["listBooks"]; !ok {
		t.Errorf("missing listBooks export, got %v", names)
	}
	if _, ok := names["countBooks"]; !ok {
		t.Errorf("missing countBooks export, got %v", names)
	}
	if len(facts.Imports) != 1 || facts.Imports[0] != "./db" {
		t.Errorf("imports = %v, want [./db]", facts.Imports)
	}
}

func TestParseTSXComponent(t *testing.T) {
	src := `import { useBooks } from '../hooks/useBooks'

export function BookList() {
  const { data, error } = useBooks()
  return <ul>{data?.map(b => <li key={b.id}>{b.title}</li>)}</ul>
}
`
	facts := parse(t, "src/components/BookList.tsx", src)
	names := exportNames(facts)
	if _, ok := names["BookList"]; !ok {
		t.Fatalf("missing BookList export, got %v", names)
	}
	if facts.FunctionCount < 1 {
		t.Errorf("FunctionCount = %d, want >= 1", facts.FunctionCount)
	}
}
