package rules

import "sort"

// Score maps a violation multiset to a 0-100 health score. Pure in the
// multiset: order never matters, and adding a violation never raises
// the score.
func Score(violations []Violation) int {
	score := 100
	for _, v := range violations {
		switch v.Severity {
		case SeverityCritical:
			score -= 10
		case SeverityWarning:
			score -= 5
		case SeverityInfo:
			score -= 2
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// Summary aggregates a violation list for report headers.
type Summary struct {
	Total      int            `json:"total"`
	ByRule     map[string]int `json:"byRule"`
	BySeverity map[string]int `json:"bySeverity"`
	TopIssues  []Violation    `json:"topIssues"`
}

const topIssueCount = 5

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityWarning:  1,
	SeverityInfo:     2,
}

// Summarize builds the aggregate view: counts per rule and severity,
// plus the most severe findings first.
func Summarize(violations []Violation) Summary {
	summary := Summary{
		Total:      len(violations),
		ByRule:     make(map[string]int),
		BySeverity: make(map[string]int),
		TopIssues:  make([]Violation, 0, topIssueCount),
	}
	for _, v := range violations {
		summary.ByRule[v.Rule]++
		summary.BySeverity[string(v.Severity)]++
	}

	ranked := append([]Violation(nil), violations...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return severityRank[ranked[i].Severity] < severityRank[ranked[j].Severity]
	})
	if len(ranked) > topIssueCount {
		ranked = ranked[:topIssueCount]
	}
	summary.TopIssues = append(summary.TopIssues, ranked...)
	return summary
}
