package codemap

import "testing"

func TestRouteForPath(t *testing.T) {
	cases := []struct {
		path  string
		route string
		kind  EntryPointKind
		ok    bool
	}{
		{"app/page.tsx", "/", EntryPage, true},
		{"app/books/page.tsx", "/books", EntryPage, true},
		{"app/(marketing)/about/page.tsx", "/about", EntryPage, true},
		{"app/api/books/route.ts", "/api/books", EntryAPI, true},
		{"src/app/admin/users/page.tsx", "/admin/users", EntryPage, true},
		{"pages/index.tsx", "/", EntryPage, true},
		{"pages/books/[id].tsx", "/books/[id]", EntryPage, true},
		{"pages/api/orders.ts", "/api/orders", EntryAPI, true},
		{"pages/_app.tsx", "", "", false},
		{"src/components/BookList.tsx", "", "", false},
		{"app/books/layout.tsx", "", "", false},
	}

	for _, tc := range cases {
		route, kind, ok := RouteForPath(tc.path)
		if ok != tc.ok || route != tc.route || kind != tc.kind {
			t.Errorf("RouteForPath(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.path, route, kind, ok, tc.route, tc.kind, tc.ok)
		}
	}
}

func TestProtectionIsPathOrCodeBased(t *testing.T) {
	m := buildMap(t, map[string]string{
		// Path signal only: admin segment, no auth idiom in code.
		"app/admin/page.tsx": "export default function Admin() { return null }\n",
		// Code signal only: plain path, auth call in the handler.
		"app/profile/page.tsx": "import { getServerSession } from 'next-auth'\nexport default async function Profile() { const s = await getServerSession(); return null }\n",
		// Neither signal.
		"app/about/page.tsx": "export default function About() { return null }\n",
	})

	if !m.EntryPoints["/admin"].Protected {
		t.Error("expected /admin protected via path segment")
	}
	if !m.EntryPoints["/profile"].Protected {
		t.Error("expected /profile protected via auth idiom")
	}
	if m.EntryPoints["/about"].Protected {
		t.Error("expected /about unprotected")
	}
}
