package model

import "fmt"

// Graph is the dependency graph shared by the builder, the augmenter, the
// filters and the analysis engine: nodes keyed by id plus an ordered edge
// sequence.
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
	Edges []Edge           `json:"edges"`
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
	}
}

// AddNode inserts a node or, if a node with the same id already exists,
// merges the incoming observation into it under the upgrade-only rule.
// It returns the node stored in the graph.
func (g *Graph) AddNode(node *Node) *Node {
	if existing, ok := g.Nodes[node.ID]; ok {
		existing.absorb(node)
		return existing
	}
	if node.Type == NodeTypeInternalPackage {
		node.Transient = false
	}
	g.Nodes[node.ID] = node
	return node
}

// AddEdge appends a directed edge. Endpoint existence is checked by
// Validate, not here: the builder creates nodes before edges, and the
// augmenter seeds its dedup set from the current edge list.
func (g *Graph) AddEdge(from, to string) {
	g.Edges = append(g.Edges, Edge{From: from, To: to})
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// Incoming returns the number of edges pointing at each node. Nodes with no
// incoming edge are absent from the returned map.
func (g *Graph) Incoming() map[string]int {
	in := make(map[string]int)
	for _, e := range g.Edges {
		in[e.To]++
	}
	return in
}

// Validate checks the internal consistency contract that must hold before
// the graph is handed to a renderer or the analysis engine: every edge
// references nodes present in the map. A failure here is an implementer
// bug, not a user error.
func (g *Graph) Validate() error {
	for _, e := range g.Edges {
		if !g.HasNode(e.From) {
			return fmt.Errorf("dangling edge: unknown source node %q", e.From)
		}
		if !g.HasNode(e.To) {
			return fmt.Errorf("dangling edge: unknown target node %q", e.To)
		}
	}
	return nil
}
