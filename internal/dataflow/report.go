package dataflow

import (
	"fmt"
	"strings"
)

// Report renders the graph as a human-readable summary: node/edge
// counts, critical and warning issues with suggested fixes, and a
// simple node -> node listing per edge.
func Report(g *Graph) string {
	var b strings.Builder

	b.WriteString("DATA FLOW ANALYSIS\n")
	b.WriteString("==================\n\n")

	fmt.Fprintf(&b, "Nodes: %d (", len(g.Nodes))
	kinds := []NodeKind{KindType, KindTable, KindHook, KindComponent, KindAPI}
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", strings.ToLower(string(kind)), len(g.NodesOfKind(kind))))
	}
	b.WriteString(strings.Join(parts, ", "))
	fmt.Fprintf(&b, ")\nEdges: %d\nIssues: %d\n", len(g.Edges), len(g.Issues))

	writeIssueSection(&b, g, "critical", "CRITICAL")
	writeIssueSection(&b, g, "warning", "WARNINGS")

	if len(g.Edges) > 0 {
		b.WriteString("\nGRAPH\n-----\n")
		for _, edge := range g.Edges {
			from, fromOK := g.Nodes[edge.From]
			to, toOK := g.Nodes[edge.To]
			if !fromOK || !toOK {
				continue
			}
			marker := "ok"
			if !edge.IsValid {
				marker = "INVALID"
			}
			fmt.Fprintf(&b, "%s:%s -> %s:%s [%s]\n",
				from.Kind, from.Name, to.Kind, to.Name, marker)
		}
	}

	return b.String()
}

func writeIssueSection(b *strings.Builder, g *Graph, severity, header string) {
	issues := make([]FlowIssue, 0)
	for _, issue := range g.Issues {
		if issue.Severity == severity {
			issues = append(issues, issue)
		}
	}
	if len(issues) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s (%d)\n%s\n", header, len(issues), strings.Repeat("-", len(header)))
	for _, issue := range issues {
		fmt.Fprintf(b, "[%s] %s: %s\n", issue.Kind, issue.File, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(b, "        fix: %s\n", issue.Suggestion)
		}
	}
}
