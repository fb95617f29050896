package dataflow

import "testing"

func TestSingularizePluralize(t *testing.T) {
	cases := []struct{ plural, singular string }{
		{"books", "book"},
		{"categories", "category"},
		{"boxes", "box"},
		{"orders", "order"},
		{"users", "user"},
	}
	for _, tc := range cases {
		if got := Singularize(tc.plural); got != tc.singular {
			t.Errorf("Singularize(%q) = %q, want %q", tc.plural, got, tc.singular)
		}
		if got := Pluralize(tc.singular); got != tc.plural {
			t.Errorf("Pluralize(%q) = %q, want %q", tc.singular, got, tc.plural)
		}
	}
}

func TestTypeNameForTable(t *testing.T) {
	cases := []struct{ table, typeName string }{
		{"books", "Book"},
		{"order_items", "OrderItem"},
		{"categories", "Category"},
	}
	for _, tc := range cases {
		if got := TypeNameForTable(tc.table); got != tc.typeName {
			t.Errorf("TypeNameForTable(%q) = %q, want %q", tc.table, got, tc.typeName)
		}
	}
}

func TestEntityForHookName(t *testing.T) {
	cases := []struct{ hook, entity string }{
		{"useOrders", "orders"},
		{"useBooks", "books"},
		{"useBookMutations", "book"},
		{"use", ""},
	}
	for _, tc := range cases {
		if got := EntityForHookName(tc.hook); got != tc.entity {
			t.Errorf("EntityForHookName(%q) = %q, want %q", tc.hook, got, tc.entity)
		}
	}
}

func TestNormalizeTypeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Book[]", "Book"},
		{"BookData", "Book"},
		{"BookModel", "Book"},
		{"Book", "Book"},
		{"Data", "Data"},
	}
	for _, tc := range cases {
		if got := NormalizeTypeName(tc.in); got != tc.want {
			t.Errorf("NormalizeTypeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
