package graph

import (
	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

// FilterTransient returns a new graph without transient external-package
// nodes. Projects, targets and internal packages always survive, as do
// non-transient externals; an edge survives only when both endpoints do.
// Applying the filter twice equals applying it once.
func FilterTransient(g *model.Graph) *model.Graph {
	out := model.NewGraph()

	for id, n := range g.Nodes {
		if n.Type == model.NodeTypeExternalPackage && n.Transient {
			continue
		}
		copied := *n
		out.Nodes[id] = &copied
	}

	for _, e := range g.Edges {
		if out.HasNode(e.From) && out.HasNode(e.To) {
			out.AddEdge(e.From, e.To)
		}
	}

	return out
}
