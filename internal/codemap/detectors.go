package codemap

import "strings"

// Facts is the partial fact set a single detector contributes. Facts
// merge commutatively (bools OR, lists append), so detector order never
// changes the resulting FileRecord.
type Facts struct {
	HasParse          bool
	HasAuth           bool
	HasTryCatch       bool
	HasLoadingState   bool
	HasErrorState     bool
	HasFormValidation bool
	Mutations         []string
	Invalidates       []string
}

// Detector is a pure predicate over file text. A structured-parser
// backed detector can replace a substring one without touching callers.
type Detector struct {
	Name   string
	Detect func(text string) Facts
}

func containsAny(text string, markers ...string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func markersFound(text string, markers ...string) []string {
	found := make([]string, 0)
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			found = append(found, strings.Trim(marker, ".("))
		}
	}
	return found
}

// DefaultDetectors returns the standard detector battery.
func DefaultDetectors() []Detector {
	return []Detector{
		{
			Name: "schema-parse",
			Detect: func(text string) Facts {
				return Facts{HasParse: containsAny(text,
					".parse(", ".safeParse(", ".parseAsync(", "z.object(", "schema.validate(",
				)}
			},
		},
		{
			Name: "auth-guard",
			Detect: func(text string) Facts {
				return Facts{HasAuth: containsAny(text,
					"getSession(", "getServerSession(", "useSession(", "auth()",
					"withAuth", "requireAuth", "currentUser", "supabase.auth.",
					"middleware", "verifyToken(",
				)}
			},
		},
		{
			Name: "try-catch",
			Detect: func(text string) Facts {
				hasBlock := strings.Contains(text, "try {") || strings.Contains(text, "try{")
				hasCatch := strings.Contains(text, "catch")
				return Facts{HasTryCatch: (hasBlock && hasCatch) || strings.Contains(text, ".catch(")}
			},
		},
		{
			Name: "loading-state",
			Detect: func(text string) Facts {
				return Facts{HasLoadingState: containsAny(text,
					"isLoading", "setLoading", "loading:", "isPending", "isFetching",
				)}
			},
		},
		{
			Name: "error-state",
			Detect: func(text string) Facts {
				return Facts{HasErrorState: containsAny(text,
					"isError", "setError", "onError", "error:", "error }", "error}",
				)}
			},
		},
		{
			Name: "form-validation",
			Detect: func(text string) Facts {
				return Facts{HasFormValidation: containsAny(text,
					"zodResolver", "yupResolver", "validationSchema", "useForm(", ".validate(",
				)}
			},
		},
		{
			Name: "mutations",
			Detect: func(text string) Facts {
				return Facts{Mutations: markersFound(text,
					"useMutation", ".insert(", ".update(", ".delete(", ".upsert(", ".create(",
				)}
			},
		},
		{
			Name: "cache-invalidation",
			Detect: func(text string) Facts {
				return Facts{Invalidates: markersFound(text,
					"invalidateQueries", "revalidatePath", "revalidateTag", "refetch(",
				)}
			},
		},
	}
}

// mergeFacts folds one detector's contribution into the accumulated
// facts. OR/append only, so the fold is order-insensitive.
func mergeFacts(into, from Facts) Facts {
	into.HasParse = into.HasParse || from.HasParse
	into.HasAuth = into.HasAuth || from.HasAuth
	into.HasTryCatch = into.HasTryCatch || from.HasTryCatch
	into.HasLoadingState = into.HasLoadingState || from.HasLoadingState
	into.HasErrorState = into.HasErrorState || from.HasErrorState
	into.HasFormValidation = into.HasFormValidation || from.HasFormValidation
	into.Mutations = append(into.Mutations, from.Mutations...)
	into.Invalidates = append(into.Invalidates, from.Invalidates...)
	return into
}
