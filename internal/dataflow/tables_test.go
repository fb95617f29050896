package dataflow

import "testing"

func TestScanTableRefsCoversCallShapes(t *testing.T) {
	src := `
const a = await supabase.from('books').select('id, title, author')
const b = await prisma.order.findMany({ where: { status: 'open' } })
const c = db.collection("reviews").find()
const Review = model("reviews", reviewSchema)
export const users = pgTable("users", { id: serial() })
`
	refs := ScanTableRefs(src)

	want := map[string]bool{"books": false, "order": false, "reviews": false, "users": false}
	for _, ref := range refs {
		if _, ok := want[ref.Table]; !ok {
			t.Errorf("unexpected table ref %q", ref.Table)
			continue
		}
		want[ref.Table] = true
		if ref.Line == 0 {
			t.Errorf("table %q has no line", ref.Table)
		}
	}
	for table, seen := range want {
		if !seen {
			t.Errorf("missing table ref %q", table)
		}
	}
}

func TestScanTableRefsIsOrderedByOffset(t *testing.T) {
	src := `db.collection("zebras").find(); supabase.from('apples').select('*')`
	refs := ScanTableRefs(src)
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].Table != "zebras" || refs[1].Table != "apples" {
		t.Fatalf("expected offset order [zebras apples], got [%s %s]", refs[0].Table, refs[1].Table)
	}
}

func TestFieldsNearRef(t *testing.T) {
	src := `const { data } = await supabase.from('books').select('id, title, author:authors(name)')`
	refs := ScanTableRefs(src)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}

	fields := FieldsNearRef(src, refs[0])
	want := []string{"id", "title", "author"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestFieldsNearRefInsertKeys(t *testing.T) {
	src := `await supabase.from('books').insert({ title: input.title, author: input.author })`
	refs := ScanTableRefs(src)
	fields := FieldsNearRef(src, refs[0])

	seen := map[string]bool{}
	for _, field := range fields {
		seen[field] = true
	}
	if !seen["title"] || !seen["author"] {
		t.Fatalf("expected title and author keys, got %v", fields)
	}
}

func TestTypeNearRef(t *testing.T) {
	annotated := `async function listBooks(): Promise<Book[]> {
  return supabase.from('books').select('*')
}`
	refs := ScanTableRefs(annotated)
	if got := TypeNearRef(annotated, refs[0]); got != "Book" {
		t.Errorf("annotated TypeNearRef = %q, want Book", got)
	}

	bare := `supabase.from('categories').select('*')`
	refs = ScanTableRefs(bare)
	if got := TypeNearRef(bare, refs[0]); got != "Category" {
		t.Errorf("fallback TypeNearRef = %q, want Category", got)
	}
}
