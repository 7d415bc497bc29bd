package analysis

import (
	"fmt"
	"testing"

	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

func addPackage(g *model.Graph, id string, transient bool) {
	g.AddNode(&model.Node{ID: id, Label: id, Type: model.NodeTypeExternalPackage, Transient: transient})
}

func scoreFor(t *testing.T, r *Result, id string) NodeScore {
	t.Helper()
	for _, s := range r.HighImpact {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("no score for node %s", id)
	return NodeScore{}
}

// {A,B,C} form a cycle, D depends into it.
func TestAnalyzeCycleCondensation(t *testing.T) {
	g := model.NewGraph()
	for _, id := range []string{"A", "B", "C", "D"} {
		addPackage(g, id, false)
	}
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "A")
	g.AddEdge("D", "A")

	r := Analyze(g, Options{})

	if r.Summary.CycleCount != 1 {
		t.Fatalf("cycle count = %d, want 1", r.Summary.CycleCount)
	}
	if len(r.Cycles) != 1 || len(r.Cycles[0]) != 3 {
		t.Fatalf("cycles = %v, want one cycle of 3", r.Cycles)
	}

	a := scoreFor(t, r, "A")
	if a.CycleSize != 3 {
		t.Errorf("A cycle size = %d, want 3", a.CycleSize)
	}
	// The cycle component is a sink: depth 0, one incoming condensed edge
	// from D's singleton component.
	if a.Depth != 0 {
		t.Errorf("A depth = %d, want 0", a.Depth)
	}
	if a.DirectDependents != 1 || a.TransitiveDependents != 1 {
		t.Errorf("A dependents = %d/%d, want 1/1", a.DirectDependents, a.TransitiveDependents)
	}

	d := scoreFor(t, r, "D")
	if d.Depth != 1 {
		t.Errorf("D depth = %d, want 1", d.Depth)
	}
	if d.TransitiveDependencies != 3 {
		t.Errorf("D transitive dependencies = %d, want 3", d.TransitiveDependencies)
	}
	if d.CycleSize != 1 {
		t.Errorf("D cycle size = %d, want 1", d.CycleSize)
	}
}

func TestAnalyzeSingleGiantCycle(t *testing.T) {
	g := model.NewGraph()
	const n = 6
	for i := 0; i < n; i++ {
		addPackage(g, fmt.Sprintf("n%d", i), false)
	}
	for i := 0; i < n; i++ {
		g.AddEdge(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", (i+1)%n))
	}

	r := Analyze(g, Options{})

	if r.Summary.ComponentCount != 1 {
		t.Fatalf("component count = %d, want 1", r.Summary.ComponentCount)
	}
	s := scoreFor(t, r, "n0")
	if s.Depth != 0 {
		t.Errorf("giant cycle depth = %d, want 0", s.Depth)
	}
	if s.CycleSize != n {
		t.Errorf("cycle size = %d, want %d", s.CycleSize, n)
	}
}

func TestAnalyzeChainScores(t *testing.T) {
	// app -> lib -> base
	g := model.NewGraph()
	g.AddNode(&model.Node{ID: "app", Label: "app", Type: model.NodeTypeProject})
	g.AddNode(&model.Node{ID: "lib", Label: "lib", Type: model.NodeTypeInternalPackage})
	g.AddNode(&model.Node{ID: "base", Label: "base", Type: model.NodeTypeInternalPackage})
	g.AddEdge("app", "lib")
	g.AddEdge("lib", "base")

	r := Analyze(g, Options{})

	base := scoreFor(t, r, "base")
	if base.TransitiveDependents != 2 || base.Depth != 0 {
		t.Errorf("base: dependents=%d depth=%d, want 2/0", base.TransitiveDependents, base.Depth)
	}
	if base.Impact != 2 {
		t.Errorf("base impact = %g, want 2", base.Impact)
	}

	app := scoreFor(t, r, "app")
	if app.Depth != 2 {
		t.Errorf("app depth = %d, want 2", app.Depth)
	}
	if app.Vulnerability != 2 {
		t.Errorf("app vulnerability = %g, want 2", app.Vulnerability)
	}
	// impact = transitiveDependents x (1 + depth x 0.2)
	if app.Impact != 0 {
		t.Errorf("app impact = %g, want 0", app.Impact)
	}

	// base has the most dependents, so it leads the high-impact ordering.
	if r.HighImpact[0].ID != "base" {
		t.Errorf("high-impact leader = %s, want base", r.HighImpact[0].ID)
	}
	if r.MostVulnerable[0].ID != "app" {
		t.Errorf("most-vulnerable leader = %s, want app", r.MostVulnerable[0].ID)
	}
}

func TestAnalyzeImpactMonotonicInDependentsAtFixedDepth(t *testing.T) {
	// Two sinks at depth 0: "popular" with 3 dependents, "niche" with 1.
	g := model.NewGraph()
	for _, id := range []string{"popular", "niche", "u1", "u2", "u3"} {
		addPackage(g, id, false)
	}
	g.AddEdge("u1", "popular")
	g.AddEdge("u2", "popular")
	g.AddEdge("u3", "popular")
	g.AddEdge("u1", "niche")

	r := Analyze(g, Options{})

	popular := scoreFor(t, r, "popular")
	niche := scoreFor(t, r, "niche")
	if popular.Depth != niche.Depth {
		t.Fatalf("fixture broken: depths differ (%d vs %d)", popular.Depth, niche.Depth)
	}
	if popular.Impact <= niche.Impact {
		t.Errorf("impact not monotonic in dependents: %g <= %g", popular.Impact, niche.Impact)
	}
}

func TestAnalyzeFiltersTransientAndExternal(t *testing.T) {
	g := model.NewGraph()
	g.AddNode(&model.Node{ID: "app", Label: "app", Type: model.NodeTypeProject})
	g.AddNode(&model.Node{ID: "kit", Label: "kit", Type: model.NodeTypeInternalPackage})
	addPackage(g, "ext", false)
	addPackage(g, "ghost", true)
	g.AddEdge("app", "kit")
	g.AddEdge("app", "ext")
	g.AddEdge("ext", "ghost")

	r := Analyze(g, Options{})
	if r.Summary.NodeCount != 3 {
		t.Errorf("default node count = %d, want 3 (transient dropped)", r.Summary.NodeCount)
	}

	r = Analyze(g, Options{InternalOnly: true})
	if r.Summary.NodeCount != 2 {
		t.Errorf("internal-only node count = %d, want 2", r.Summary.NodeCount)
	}
}

func TestAnalyzeEmptyGraph(t *testing.T) {
	r := Analyze(model.NewGraph(), Options{})

	if len(r.HighImpact) != 0 || len(r.MostVulnerable) != 0 || len(r.Cycles) != 0 {
		t.Error("expected empty results")
	}
	if r.Summary != (Summary{}) {
		t.Errorf("expected zeroed summary, got %+v", r.Summary)
	}
}

func TestSeverityBuckets(t *testing.T) {
	tests := []struct {
		dependents int
		want       string
	}{
		{25, SeverityCritical},
		{20, SeverityCritical},
		{19, SeverityHigh},
		{10, SeverityHigh},
		{9, SeverityMedium},
		{5, SeverityMedium},
		{4, SeverityLow},
		{0, SeverityLow},
	}
	for _, tt := range tests {
		if got := severityFor(tt.dependents); got != tt.want {
			t.Errorf("severityFor(%d) = %s, want %s", tt.dependents, got, tt.want)
		}
	}
}

func TestAnalyzeDuplicateEdgesCountedOnce(t *testing.T) {
	g := model.NewGraph()
	addPackage(g, "a", false)
	addPackage(g, "b", false)
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	r := Analyze(g, Options{})

	if r.Summary.EdgeCount != 1 {
		t.Errorf("edge count = %d, want 1", r.Summary.EdgeCount)
	}
	b := scoreFor(t, r, "b")
	if b.DirectDependents != 1 {
		t.Errorf("b direct dependents = %d, want 1", b.DirectDependents)
	}
}
