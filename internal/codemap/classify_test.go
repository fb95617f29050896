package codemap

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Category
	}{
		{"src/hooks/useBooks.ts", CategoryHook},
		{"src/useCart.ts", CategoryHook},
		{"app/api/books/route.ts", CategoryAPI},
		{"pages/api/orders.ts", CategoryAPI},
		{"src/lib/db/queries.ts", CategoryPersistence},
		{"src/models/book.ts", CategoryPersistence},
		{"src/types/book.ts", CategoryTypes},
		{"src/global.d.ts", CategoryTypes},
		{"src/components/BookList.tsx", CategoryComponent},
		{"app/books/page.tsx", CategoryComponent},
		{"src/components/BookForm.tsx", CategoryForm},
		{"src/components/__tests__/BookList.test.tsx", CategoryTest},
		{"src/lib/format.ts", CategoryOther},
	}

	for _, tc := range cases {
		if got := Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestPersistenceFlavored(t *testing.T) {
	flavored := []string{
		"@supabase/supabase-js",
		"@prisma/client",
		"../lib/db",
		"mongoose",
		"drizzle-orm",
	}
	for _, moduleID := range flavored {
		if !PersistenceFlavored(moduleID) {
			t.Errorf("expected %q to be persistence-flavored", moduleID)
		}
	}

	plain := []string{"react", "next/navigation", "../hooks/useBooks", "lodash"}
	for _, moduleID := range plain {
		if PersistenceFlavored(moduleID) {
			t.Errorf("expected %q to be plain", moduleID)
		}
	}
}
