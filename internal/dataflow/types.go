// Package dataflow infers a directed graph of typed nodes from project
// source: type/shape declarations, persistence tables, data-fetching
// hooks, UI components, and API route handlers, connected by
// import-based reachability and naming heuristics. Discovery re-reads
// source independently of the codebase map; validation over the edges
// is a separate pass that never sees a partially built graph.
package dataflow

import (
	"fmt"
	"sort"
)

// NodeKind is the provenance class of a graph node.
type NodeKind string

const (
	KindType      NodeKind = "Type"
	KindTable     NodeKind = "Table"
	KindHook      NodeKind = "Hook"
	KindComponent NodeKind = "Component"
	KindAPI       NodeKind = "Api"
)

// Node is a typed unit of data provenance.
type Node struct {
	ID               string   `json:"id"`
	Kind             NodeKind `json:"kind"`
	Name             string   `json:"name"`
	File             string   `json:"file"`
	Line             int      `json:"line,omitempty"`
	InferredDataType string   `json:"inferredDataType,omitempty"`
	TableName        string   `json:"tableName,omitempty"`
	PropsType        string   `json:"propsType,omitempty"`
	Fields           []string `json:"fields"`
	Sources          []string `json:"sources"`
	Consumers        []string `json:"consumers"`
}

// Edge is a directed "data produced at From is consumed at To" link.
type Edge struct {
	From             string `json:"from"`
	To               string `json:"to"`
	InferredDataType string `json:"inferredDataType,omitempty"`
	IsValid          bool   `json:"isValid"`
}

// IssueKind classifies a flow finding.
type IssueKind string

const (
	IssueTypeMismatch  IssueKind = "type-mismatch"
	IssueFieldMismatch IssueKind = "field-mismatch"
	IssueTableMismatch IssueKind = "table-mismatch"
)

// FlowIssue is a severity-tagged finding on an edge.
type FlowIssue struct {
	Kind       IssueKind `json:"kind"`
	Severity   string    `json:"severity"`
	File       string    `json:"file"`
	Line       int       `json:"line,omitempty"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	Expected   string    `json:"expected,omitempty"`
	Actual     string    `json:"actual,omitempty"`
}

// Graph is the complete data-flow model for one run.
type Graph struct {
	Nodes  map[string]*Node `json:"nodes"`
	Edges  []Edge           `json:"edges"`
	Issues []FlowIssue      `json:"issues"`

	edgeSet map[string]bool
}

func NewGraph() *Graph {
	return &Graph{
		Nodes:   make(map[string]*Node),
		Edges:   make([]Edge, 0),
		Issues:  make([]FlowIssue, 0),
		edgeSet: make(map[string]bool),
	}
}

// nodeID derives the stable node identity. Re-running on unchanged
// source yields identical ids.
func nodeID(kind NodeKind, name, file string, line int) string {
	if line > 0 {
		return fmt.Sprintf("%s|%s|%s|%d", kind, name, file, line)
	}
	return fmt.Sprintf("%s|%s|%s", kind, name, file)
}

// add registers a node, returning the existing one when the identity is
// already present (discovery passes may re-encounter a call site).
func (g *Graph) add(node *Node) *Node {
	if existing, ok := g.Nodes[node.ID]; ok {
		existing.Fields = mergeFields(existing.Fields, node.Fields)
		if existing.InferredDataType == "" {
			existing.InferredDataType = node.InferredDataType
		}
		if existing.TableName == "" {
			existing.TableName = node.TableName
		}
		return existing
	}
	if node.Fields == nil {
		node.Fields = make([]string, 0)
	}
	node.Sources = make([]string, 0)
	node.Consumers = make([]string, 0)
	g.Nodes[node.ID] = node
	return node
}

// link records a directed edge from producer to consumer, keeping
// Sources/Consumers symmetric. Linking twice is a no-op, which makes
// the connection pass idempotent.
func (g *Graph) link(from, to *Node) {
	if from == nil || to == nil || from.ID == to.ID {
		return
	}
	key := from.ID + "->" + to.ID
	if g.edgeSet[key] {
		return
	}
	g.edgeSet[key] = true

	g.Edges = append(g.Edges, Edge{
		From:             from.ID,
		To:               to.ID,
		InferredDataType: firstNonEmpty(from.InferredDataType, to.InferredDataType),
		IsValid:          true,
	})
	to.Sources = append(to.Sources, from.ID)
	from.Consumers = append(from.Consumers, to.ID)
}

// NodesOfKind returns nodes of one kind in deterministic order.
func (g *Graph) NodesOfKind(kind NodeKind) []*Node {
	out := make([]*Node, 0)
	for _, node := range g.Nodes {
		if node.Kind == kind {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedNodes returns all nodes ordered by id.
func (g *Graph) SortedNodes() []*Node {
	out := make([]*Node, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		out = append(out, node)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func mergeFields(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, field := range existing {
		seen[field] = true
	}
	for _, field := range extra {
		if !seen[field] {
			seen[field] = true
			existing = append(existing, field)
		}
	}
	return existing
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
