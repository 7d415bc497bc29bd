package graph

import (
	"testing"

	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

func TestAssignLayersRootsAtZero(t *testing.T) {
	g := model.NewGraph()
	g.AddNode(&model.Node{ID: "root1", Type: model.NodeTypeProject})
	g.AddNode(&model.Node{ID: "root2", Type: model.NodeTypeProject})
	g.AddNode(&model.Node{ID: "mid", Type: model.NodeTypeExternalPackage})
	g.AddNode(&model.Node{ID: "leaf", Type: model.NodeTypeExternalPackage})
	g.AddEdge("root1", "mid")
	g.AddEdge("root2", "mid")
	g.AddEdge("mid", "leaf")

	AssignLayers(g)

	if g.Nodes["root1"].Layer != 0 || g.Nodes["root2"].Layer != 0 {
		t.Error("nodes with no incoming edge must get layer 0")
	}
	if g.Nodes["mid"].Layer != 1 {
		t.Errorf("mid layer = %d, want 1", g.Nodes["mid"].Layer)
	}
	if g.Nodes["leaf"].Layer != 2 {
		t.Errorf("leaf layer = %d, want 2", g.Nodes["leaf"].Layer)
	}
}

func TestAssignLayersFirstVisitWins(t *testing.T) {
	// diamond with a short and long path to "shared": BFS reaches it at
	// distance 1 first.
	g := model.NewGraph()
	g.AddNode(&model.Node{ID: "root", Type: model.NodeTypeProject})
	g.AddNode(&model.Node{ID: "hop", Type: model.NodeTypeExternalPackage})
	g.AddNode(&model.Node{ID: "shared", Type: model.NodeTypeExternalPackage})
	g.AddEdge("root", "hop")
	g.AddEdge("root", "shared")
	g.AddEdge("hop", "shared")

	AssignLayers(g)

	if g.Nodes["shared"].Layer != 1 {
		t.Errorf("shared layer = %d, want 1 (first visit)", g.Nodes["shared"].Layer)
	}
}

func TestAssignLayersNeverNegativeEvenWithCycles(t *testing.T) {
	g := model.NewGraph()
	g.AddNode(&model.Node{ID: "a", Type: model.NodeTypeExternalPackage})
	g.AddNode(&model.Node{ID: "b", Type: model.NodeTypeExternalPackage})
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	AssignLayers(g)

	for id, n := range g.Nodes {
		if n.Layer < 0 {
			t.Errorf("node %s has negative layer %d", id, n.Layer)
		}
	}
}

func TestAssignLayersEmptyGraph(t *testing.T) {
	g := model.NewGraph()
	AssignLayers(g) // must not panic
}
