package codemap

import "strings"

var branchTokens = []string{
	"if (", "if(", "for (", "for(", "while (", "while(",
	"case ", "catch", "&&", "||", "? ",
}

// computeMetrics derives size/complexity measures by token counting.
// functionCount comes from the parser when available; the token
// estimate is the fallback for files the grammar rejected.
func computeMetrics(text string, functionCount, exportCount, importCount int) Metrics {
	if functionCount == 0 {
		functionCount = strings.Count(text, "function ") + strings.Count(text, "=>")
	}

	return Metrics{
		LOC:                countCodeLines(text),
		FunctionCount:      functionCount,
		ExportCount:        exportCount,
		ImportCount:        importCount,
		CyclomaticEstimate: cyclomaticEstimate(text),
	}
}

// countCodeLines counts lines that are neither blank nor comment-only.
func countCodeLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") ||
			strings.HasPrefix(trimmed, "*") {
			continue
		}
		count++
	}
	return count
}

func cyclomaticEstimate(text string) int {
	estimate := 1
	for _, token := range branchTokens {
		estimate += strings.Count(text, token)
	}
	return estimate
}
