package dataflow

import "strings"

// Singularize reduces a plural table name to its singular entity form.
// English irregulars beyond the common suffix shapes are not handled;
// downstream checks treat unknown names as compatible.
func Singularize(name string) string {
	lowered := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lowered, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(lowered, "ses") || strings.HasSuffix(lowered, "xes") ||
		strings.HasSuffix(lowered, "zes") || strings.HasSuffix(lowered, "ches") ||
		strings.HasSuffix(lowered, "shes"):
		return name[:len(name)-2]
	case strings.HasSuffix(lowered, "s") && !strings.HasSuffix(lowered, "ss") && len(name) > 1:
		return name[:len(name)-1]
	default:
		return name
	}
}

// Pluralize is the inverse convention used for hook-name/table checks.
func Pluralize(name string) string {
	lowered := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lowered, "y") && len(name) > 1 && !isVowel(lowered[len(lowered)-2]):
		return name[:len(name)-1] + "ies"
	case strings.HasSuffix(lowered, "s") || strings.HasSuffix(lowered, "x") ||
		strings.HasSuffix(lowered, "z") || strings.HasSuffix(lowered, "ch") ||
		strings.HasSuffix(lowered, "sh"):
		return name + "es"
	default:
		return name + "s"
	}
}

// PascalCase converts snake_case or lowercase identifiers to PascalCase.
func PascalCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// TypeNameForTable is the fallback data-type inference: singularized,
// Pascal-cased table name (books -> Book, order_items -> OrderItem).
func TypeNameForTable(table string) string {
	return PascalCase(Singularize(table))
}

// EntityForHookName derives the implied entity from a use-prefixed hook
// name: useOrders -> orders, useBookList -> books is NOT attempted;
// only the leading noun is taken (useOrders -> orders).
func EntityForHookName(hookName string) string {
	name := strings.TrimPrefix(hookName, "use")
	if name == "" {
		return ""
	}
	// Cut at the second capitalized word: useBookMutations -> Book.
	cut := len(name)
	for i := 1; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' {
			cut = i
			break
		}
	}
	return strings.ToLower(name[:cut])
}

// NormalizeTypeName strips array markers and the common type-name
// suffixes so BookData, Book[] and Book compare equal.
func NormalizeTypeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, "[]")
	for _, suffix := range []string{"Data", "Type", "Model", "Entity"} {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	return name
}

func isVowel(ch byte) bool {
	switch ch {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
