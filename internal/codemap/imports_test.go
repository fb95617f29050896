package codemap

import (
	"reflect"
	"testing"
)

func TestResolveImport(t *testing.T) {
	m := &Map{Files: map[string]*FileRecord{
		"src/hooks/useBooks.ts":   {},
		"src/lib/db/index.ts":     {},
		"src/components/Card.tsx": {},
	}}

	cases := []struct {
		from      string
		specifier string
		want      []string
	}{
		{"src/app/page.tsx", "@/hooks/useBooks", []string{"src/hooks/useBooks.ts"}},
		{"src/hooks/useBooks.ts", "../lib/db", []string{"src/lib/db/index.ts"}},
		{"src/app/page.tsx", "./missing", nil},
		{"src/app/page.tsx", "react", nil},
		{"src/app/page.tsx", "@/components/Card", []string{"src/components/Card.tsx"}},
	}
	for _, tc := range cases {
		got := m.ResolveImport(tc.from, tc.specifier)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ResolveImport(%q, %q) = %v, want %v", tc.from, tc.specifier, got, tc.want)
		}
	}
}
