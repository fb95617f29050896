package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlint-dev/flowlint/internal/codemap"
	"github.com/flowlint-dev/flowlint/internal/filecache"
	"github.com/flowlint-dev/flowlint/internal/rules"
)

func testRegistry(t *testing.T) Registry {
	t.Helper()
	registry, err := LoadRegistry(writeRegistry(t, "contracts.yaml", registryYAML))
	require.NoError(t, err)
	return registry
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func mapWithFiles(paths ...string) *codemap.Map {
	m := &codemap.Map{Files: map[string]*codemap.FileRecord{}, EntryPoints: map[string]codemap.EntryPoint{}}
	for _, path := range paths {
		m.Files[path] = &codemap.FileRecord{Path: path, Category: codemap.Classify(path)}
	}
	return m
}

func TestGoldenExampleFieldDrift(t *testing.T) {
	root := writeFiles(t, map[string]string{
		".flowlint/examples/books.json": `{"book_title": "Dune", "author": "Herbert", "id": "b1"}`,
	})
	validator := NewValidator(testRegistry(t), filecache.New(root))

	got := validator.Validate(mapWithFiles(), filepath.Join(root, ".flowlint", "examples"))
	require.Len(t, got, 1)

	violation := got[0]
	assert.Equal(t, rules.SeverityCritical, violation.Severity)
	assert.Equal(t, "title", violation.Expected)
	assert.Equal(t, "book_title", violation.Actual)
}

func TestForeignKeyShapesAreNeverViolations(t *testing.T) {
	registry := testRegistry(t)
	validator := NewValidator(registry, filecache.New(t.TempDir()))

	for _, name := range []string{"book_id", "author_ids", "userId", "orderIds"} {
		assert.True(t, IsForeignKeyShape(name), name)
		_, fired := validator.checkProperty("book", name, "x.json", "")
		assert.False(t, fired, "property %q must be exempt", name)
	}
	assert.False(t, IsForeignKeyShape("book_title"))
	assert.False(t, IsForeignKeyShape("Id"), "bare Id is the field itself, not a reference")
}

func TestAutoGeneratedFieldsAreSkipped(t *testing.T) {
	root := writeFiles(t, map[string]string{
		".flowlint/examples/books.json": `{"book_id": "b1", "id": 7, "title": "Dune", "author": "x"}`,
	})
	validator := NewValidator(testRegistry(t), filecache.New(root))

	got := validator.Validate(mapWithFiles(), filepath.Join(root, ".flowlint", "examples"))
	assert.Empty(t, got)
}

func TestNestedExampleObjectsAreWalked(t *testing.T) {
	root := writeFiles(t, map[string]string{
		".flowlint/examples/library.json": `{
  "items": [{"book_title": "Dune", "author": "Herbert", "title": "x"}]
}`,
	})
	validator := NewValidator(testRegistry(t), filecache.New(root))

	got := validator.Validate(mapWithFiles(), filepath.Join(root, ".flowlint", "examples"))
	require.Len(t, got, 1, "structural inference should identify the nested book")
	assert.Equal(t, "book_title", got[0].Actual)
}

func TestComponentSourceDrift(t *testing.T) {
	source := `export function BookCard({ book }: BookCardProps) {
  return <span>{book.book_title}</span>
}
`
	root := writeFiles(t, map[string]string{
		"src/components/books/BookCard.tsx": source,
	})
	validator := NewValidator(testRegistry(t), filecache.New(root))

	got := validator.Validate(mapWithFiles("src/components/books/BookCard.tsx"), filepath.Join(root, "absent"))
	require.Len(t, got, 1)
	assert.Equal(t, "title", got[0].Expected)
	assert.Equal(t, "book_title", got[0].Actual)
}

func TestLiteralAndCommentOccurrencesAreProse(t *testing.T) {
	source := `export function BookCard() {
  // the old api used book_title: string here
  const label = "book_title: legacy name"
  return null
}
`
	root := writeFiles(t, map[string]string{
		"src/components/books/BookCard.tsx": source,
	})
	validator := NewValidator(testRegistry(t), filecache.New(root))

	got := validator.Validate(mapWithFiles("src/components/books/BookCard.tsx"), filepath.Join(root, "absent"))
	assert.Empty(t, got)
}

func TestCommentMentionDoesNotMaskLaterCodeUse(t *testing.T) {
	source := `// legacy: item.book_title was the old field
export function BookCard({ book }: BookCardProps) {
  return <span>{book.book_title}</span>
}
`
	root := writeFiles(t, map[string]string{
		"src/components/books/BookCard.tsx": source,
	})
	validator := NewValidator(testRegistry(t), filecache.New(root))

	got := validator.Validate(mapWithFiles("src/components/books/BookCard.tsx"), filepath.Join(root, "absent"))
	require.Len(t, got, 1, "the comment hit is prose, the member access is not")
	assert.Equal(t, "title", got[0].Expected)
	assert.Equal(t, "book_title", got[0].Actual)
	assert.Contains(t, got[0].Message, "(line 3)")
}

func TestUIContextAllowList(t *testing.T) {
	assert.True(t, AllowedInUIContext("title", `<title>{book.title}</title>`))
	assert.True(t, AllowedInUIContext("name", `className={styles.name}`))
	assert.False(t, AllowedInUIContext("title", `const t = book.title`))
	assert.False(t, AllowedInUIContext("publisher", `aria-label`), "unknown fields have no allow-list")
}

func TestTypeDeclarationDrift(t *testing.T) {
	source := `export interface BookData {
  book_title: string
  author: string
  id: string
}
`
	root := writeFiles(t, map[string]string{
		"src/types/book.ts": source,
	})
	validator := NewValidator(testRegistry(t), filecache.New(root))

	got := validator.Validate(mapWithFiles("src/types/book.ts"), filepath.Join(root, "absent"))
	require.Len(t, got, 1)
	assert.Equal(t, "title", got[0].Expected)
	assert.Equal(t, "src/types/book.ts", got[0].File)
}

func TestEmptyRegistryProducesNothing(t *testing.T) {
	root := writeFiles(t, map[string]string{
		".flowlint/examples/books.json": `{"book_title": "Dune"}`,
	})
	validator := NewValidator(Registry{}, filecache.New(root))
	assert.Empty(t, validator.Validate(mapWithFiles(), filepath.Join(root, ".flowlint", "examples")))
}
