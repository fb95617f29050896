package contract

import "strings"

// curatedSubstitutions records historical mis-namings seen in real
// trees, keyed by entity. Only entries whose corrected name is a
// required field of the entity's contract ever fire.
var curatedSubstitutions = map[string]map[string]string{
	"book": {
		"book_name": "title",
		"writer":    "author",
		"authors":   "author",
	},
	"user": {
		"user_name":    "name",
		"username":     "name",
		"mail":         "email",
		"emailAddress": "email",
	},
	"order": {
		"order_state": "status",
		"amount":      "total",
	},
	"product": {
		"product_name": "name",
		"cost":         "price",
	},
}

// SubstitutionsFor builds the effective wrong-name -> right-name table
// for one entity: the curated entries plus a derived
// "<entity>_<field>" entry per required field. Entries correcting to a
// name the contract does not require are dropped.
func SubstitutionsFor(entity string, contract Contract) map[string]string {
	table := make(map[string]string)
	for wrong, right := range curatedSubstitutions[entity] {
		if _, ok := contract.RequiredFields[right]; ok {
			table[wrong] = right
		}
	}
	for field := range contract.RequiredFields {
		derived := entity + "_" + field
		if _, ok := contract.RequiredFields[derived]; !ok {
			table[derived] = field
		}
	}
	return table
}

// IsForeignKeyShape reports whether a property name is a cross-entity
// reference. References are always legitimate, whatever they are named.
func IsForeignKeyShape(name string) bool {
	if strings.HasSuffix(name, "_id") || strings.HasSuffix(name, "_ids") {
		return true
	}
	if strings.HasSuffix(name, "Id") || strings.HasSuffix(name, "Ids") {
		return len(name) > 2
	}
	return false
}

// uiContextAllowList maps field names that double as generic UI words
// to context substrings under which they are independently valid.
var uiContextAllowList = map[string][]string{
	"title":       {"<title", "document.title", "pagetitle", "page_title", "metadata", "aria-", "tooltip", "dialogtitle", "section"},
	"name":        {"classname", "displayname", "filename", "aria-", "placeholder", "fieldname", "key={"},
	"label":       {"aria-", "<label", "htmlfor", "form"},
	"description": {"meta", "aria-", "alt="},
	"status":      {"httpstatus", "statuscode", "response.status", "res.status"},
}

// AllowedInUIContext reports whether the occurrence window shows the
// field name being used as a generic UI word rather than entity data.
func AllowedInUIContext(field, window string) bool {
	contexts, ok := uiContextAllowList[field]
	if !ok {
		return false
	}
	lowered := strings.ToLower(window)
	for _, context := range contexts {
		if strings.Contains(lowered, context) {
			return true
		}
	}
	return false
}

// InLiteralOrComment reports whether the occurrence at offset sits in a
// string literal or comment. Line-local heuristic: an odd count of
// quote characters before the occurrence, or a preceding comment
// marker, means prose rather than a code reference.
func InLiteralOrComment(text string, offset int) bool {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	prefix := text[lineStart:offset]

	if strings.Contains(prefix, "//") || strings.Contains(prefix, "/*") || strings.HasPrefix(strings.TrimSpace(prefix), "*") {
		return true
	}
	for _, quote := range []rune{'\'', '"', '`'} {
		if strings.Count(prefix, string(quote))%2 == 1 {
			return true
		}
	}
	return false
}
