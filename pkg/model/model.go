package model

// NodeType classifies a graph node.
type NodeType string

const (
	NodeTypeProject         NodeType = "project"
	NodeTypeTarget          NodeType = "target"
	NodeTypeInternalPackage NodeType = "internalPackage"
	NodeTypeExternalPackage NodeType = "externalPackage"
)

// typeRank orders node types for the upgrade-only merge. A node may move up
// the order (externalPackage -> internalPackage, project -> internalPackage)
// but never down. Targets sit outside the lattice: target ids never collide
// with package or project ids.
func typeRank(t NodeType) int {
	switch t {
	case NodeTypeExternalPackage:
		return 0
	case NodeTypeProject:
		return 1
	case NodeTypeInternalPackage:
		return 2
	default: // NodeTypeTarget
		return 3
	}
}

// Node represents a vertex in the dependency graph: a project, a build
// target, or a package (internal or external).
type Node struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Type      NodeType `json:"type"`
	Transient bool     `json:"transient"`
	Layer     int      `json:"layer"`
}

// IsInternal reports whether the node belongs to the scanned tree.
func (n *Node) IsInternal() bool {
	return n.Type != NodeTypeExternalPackage
}

// absorb folds an incoming observation of the same node into the existing
// one. This is the single place the upgrade-only invariant lives: type
// follows the higher lattice rank, transient may only flip true -> false.
// Called by Graph.AddNode; never call it with nodes of different ids.
func (n *Node) absorb(incoming *Node) {
	if typeRank(incoming.Type) > typeRank(n.Type) {
		n.Type = incoming.Type
	}
	if !incoming.Transient {
		n.Transient = false
	}
	// Internal packages are never transient: manifest presence alone is
	// evidence of intent.
	if n.Type == NodeTypeInternalPackage {
		n.Transient = false
	}
	if n.Label == "" {
		n.Label = incoming.Label
	}
}

// Edge is a directed connection between two nodes, by id.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}
