package dataflow

import (
	"fmt"
	"strings"
)

// Validate applies the four edge checks to a fully built graph and
// records the resulting issues on it. Edges that fail the critical
// checks are marked invalid. Pure over the graph's node/edge sets.
func Validate(g *Graph) {
	issues := make([]FlowIssue, 0)

	for i := range g.Edges {
		edge := &g.Edges[i]
		from, fromOK := g.Nodes[edge.From]
		to, toOK := g.Nodes[edge.To]
		if !fromOK || !toOK {
			continue
		}

		if issue, ok := checkTypeCompatibility(from, to); ok {
			edge.IsValid = false
			issues = append(issues, issue)
		}
		if issue, ok := checkFieldCompatibility(from, to); ok {
			issues = append(issues, issue)
		}
		if issue, ok := checkTableConsistency(from, to); ok {
			edge.IsValid = false
			issues = append(issues, issue)
		}
	}

	for _, hook := range g.NodesOfKind(KindHook) {
		if issue, ok := checkHookNaming(hook); ok {
			issues = append(issues, issue)
		}
	}

	g.Issues = issues
}

// checkTypeCompatibility accepts exact matches, unknown/any on either
// side, array-stripped matches, and normalized-name matches after
// stripping common suffixes. Anything else is a critical mismatch.
func checkTypeCompatibility(from, to *Node) (FlowIssue, bool) {
	fromType := strings.TrimSpace(from.InferredDataType)
	toType := strings.TrimSpace(to.InferredDataType)

	if fromType == "" || toType == "" || fromType == "any" || toType == "any" {
		return FlowIssue{}, false
	}
	if fromType == toType {
		return FlowIssue{}, false
	}
	if strings.TrimSuffix(fromType, "[]") == strings.TrimSuffix(toType, "[]") {
		return FlowIssue{}, false
	}
	if NormalizeTypeName(fromType) == NormalizeTypeName(toType) {
		return FlowIssue{}, false
	}

	return FlowIssue{
		Kind:     IssueTypeMismatch,
		Severity: "critical",
		File:     to.File,
		Line:     to.Line,
		Message: fmt.Sprintf("%s %s consumes %s but %s %s produces %s",
			strings.ToLower(string(to.Kind)), to.Name, toType,
			strings.ToLower(string(from.Kind)), from.Name, fromType),
		Suggestion: fmt.Sprintf("Align the data type: expected %s end to end", fromType),
		Expected:   fromType,
		Actual:     toType,
	}, true
}

// checkFieldCompatibility warns when the consumer touches fields the
// producer does not declare. Non-fatal: field discovery under-extracts
// far more often than type discovery, so this never invalidates edges.
func checkFieldCompatibility(from, to *Node) (FlowIssue, bool) {
	if len(from.Fields) == 0 || len(to.Fields) == 0 {
		return FlowIssue{}, false
	}

	produced := make(map[string]bool, len(from.Fields))
	for _, field := range from.Fields {
		produced[field] = true
	}

	missing := make([]string, 0)
	for _, field := range to.Fields {
		if !produced[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return FlowIssue{}, false
	}

	return FlowIssue{
		Kind:     IssueFieldMismatch,
		Severity: "warning",
		File:     to.File,
		Line:     to.Line,
		Message: fmt.Sprintf("%s %s uses fields not produced by %s %s: %s",
			strings.ToLower(string(to.Kind)), to.Name,
			strings.ToLower(string(from.Kind)), from.Name, strings.Join(missing, ", ")),
		Suggestion: fmt.Sprintf("Check the field list of %s or widen its selection", from.Name),
		Actual:     strings.Join(missing, ", "),
	}, true
}

// checkTableConsistency requires endpoints that both declare a table
// name to agree on it.
func checkTableConsistency(from, to *Node) (FlowIssue, bool) {
	if from.TableName == "" || to.TableName == "" || from.TableName == to.TableName {
		return FlowIssue{}, false
	}

	return FlowIssue{
		Kind:     IssueTableMismatch,
		Severity: "critical",
		File:     to.File,
		Line:     to.Line,
		Message: fmt.Sprintf("%s %s reads table %q but its source %s %s uses %q",
			strings.ToLower(string(to.Kind)), to.Name, to.TableName,
			strings.ToLower(string(from.Kind)), from.Name, from.TableName),
		Suggestion: fmt.Sprintf("Point both at the same table (%q or %q)", from.TableName, to.TableName),
		Expected:   from.TableName,
		Actual:     to.TableName,
	}, true
}

// checkHookNaming flags hooks whose resolved table deviates from the
// entity implied by the hook's own name (useOrders implies orders).
func checkHookNaming(hook *Node) (FlowIssue, bool) {
	if hook.TableName == "" {
		return FlowIssue{}, false
	}
	entity := EntityForHookName(hook.Name)
	if entity == "" {
		return FlowIssue{}, false
	}

	table := strings.ToLower(hook.TableName)
	if table == entity || table == Pluralize(entity) ||
		strings.ToLower(Singularize(table)) == strings.ToLower(Singularize(entity)) {
		return FlowIssue{}, false
	}

	expected := Pluralize(Singularize(entity))
	return FlowIssue{
		Kind:     IssueTableMismatch,
		Severity: "warning",
		File:     hook.File,
		Line:     hook.Line,
		Message: fmt.Sprintf("hook %s implies table %q but resolves to %q",
			hook.Name, expected, hook.TableName),
		Suggestion: fmt.Sprintf("Rename the hook or query %q", expected),
		Expected:   expected,
		Actual:     hook.TableName,
	}, true
}
