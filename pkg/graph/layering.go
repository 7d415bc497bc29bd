package graph

import (
	"sort"

	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

// AssignLayers gives every node a non-negative render layer via a single
// shared-queue BFS seeded from all root nodes (nodes with no incoming
// edge) at layer 0. A node reachable by multiple paths keeps the layer of
// whichever traversal reaches it first.
//
// This is a rendering aid only: nodes inside cycles are never reached from
// a root and keep their zero default. Cycle handling belongs to the
// analysis engine.
func AssignLayers(g *model.Graph) {
	children := make(map[string][]string, len(g.Nodes))
	incoming := g.Incoming()
	for _, e := range g.Edges {
		children[e.From] = append(children[e.From], e.To)
	}

	var queue []string
	for id := range g.Nodes {
		if incoming[id] == 0 {
			queue = append(queue, id)
		}
	}
	// Sorted seeds make layers reproducible across runs.
	sort.Strings(queue)

	visited := make(map[string]bool, len(g.Nodes))
	for _, id := range queue {
		g.Nodes[id].Layer = 0
		visited[id] = true
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range children[curr] {
			if visited[child] {
				continue
			}
			visited[child] = true
			g.Nodes[child].Layer = g.Nodes[curr].Layer + 1
			queue = append(queue, child)
		}
	}
}
