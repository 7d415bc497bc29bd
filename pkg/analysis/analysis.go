// Package analysis scores graph nodes by modularization risk: impact
// (blast radius if the node changes) and vulnerability (exposure to
// upstream change), computed correctly under cycles by condensing
// strongly connected components first.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

// Severity buckets by transitive dependents. Policy constants.
const (
	criticalThreshold = 20
	highThreshold     = 10
	mediumThreshold   = 5
)

const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Options configure an analysis run.
type Options struct {
	// InternalOnly drops external-package nodes before scoring.
	InternalOnly bool
}

// NodeScore is the per-node analysis output. Nodes in the same strongly
// connected component share all aggregate values.
type NodeScore struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Type  model.NodeType `json:"type"`

	DirectDependents       int `json:"directDependents"`
	TransitiveDependents   int `json:"transitiveDependents"`
	DirectDependencies     int `json:"directDependencies"`
	TransitiveDependencies int `json:"transitiveDependencies"`

	Depth     int `json:"depth"`
	CycleSize int `json:"cycleSize"`

	Impact        float64 `json:"impact"`
	Vulnerability float64 `json:"vulnerability"`
	Severity      string  `json:"severity"`
}

// Summary aggregates one analysis run.
type Summary struct {
	NodeCount      int `json:"nodeCount"`
	EdgeCount      int `json:"edgeCount"`
	ComponentCount int `json:"componentCount"`
	CycleCount     int `json:"cycleCount"`
	Critical       int `json:"critical"`
	High           int `json:"high"`
	Medium         int `json:"medium"`
	Low            int `json:"low"`
}

// Result is the full output of one analysis call. Derived per run, never
// persisted on the graph.
type Result struct {
	HighImpact     []NodeScore `json:"highImpact"`     // sorted by impact, descending
	MostVulnerable []NodeScore `json:"mostVulnerable"` // sorted by vulnerability, descending
	Cycles         [][]string  `json:"cycles"`         // node labels per cycle (size > 1)
	Summary        Summary     `json:"summary"`
}

// Analyze computes pinch-point scores for every non-transient node. An
// empty filtered graph yields empty results and zeroed summaries.
func Analyze(g *model.Graph, opts Options) *Result {
	p := newProjection(g, opts)
	result := &Result{Summary: Summary{NodeCount: len(p.ids), EdgeCount: p.edgeCount}}
	if len(p.ids) == 0 {
		return result
	}

	comps := p.condense()
	result.Summary.ComponentCount = len(comps.members)

	scores := comps.score(p)
	for _, members := range comps.members {
		if len(members) > 1 {
			labels := make([]string, 0, len(members))
			for _, idx := range members {
				labels = append(labels, p.nodeAt(idx).Label)
			}
			sort.Strings(labels)
			result.Cycles = append(result.Cycles, labels)
			result.Summary.CycleCount++
		}
	}

	for i := range scores {
		switch {
		case scores[i].Severity == SeverityCritical:
			result.Summary.Critical++
		case scores[i].Severity == SeverityHigh:
			result.Summary.High++
		case scores[i].Severity == SeverityMedium:
			result.Summary.Medium++
		default:
			result.Summary.Low++
		}
	}

	result.HighImpact = make([]NodeScore, len(scores))
	copy(result.HighImpact, scores)
	sort.SliceStable(result.HighImpact, func(i, j int) bool {
		if result.HighImpact[i].Impact != result.HighImpact[j].Impact {
			return result.HighImpact[i].Impact > result.HighImpact[j].Impact
		}
		return result.HighImpact[i].Label < result.HighImpact[j].Label
	})

	result.MostVulnerable = make([]NodeScore, len(scores))
	copy(result.MostVulnerable, scores)
	sort.SliceStable(result.MostVulnerable, func(i, j int) bool {
		if result.MostVulnerable[i].Vulnerability != result.MostVulnerable[j].Vulnerability {
			return result.MostVulnerable[i].Vulnerability > result.MostVulnerable[j].Vulnerability
		}
		return result.MostVulnerable[i].Label < result.MostVulnerable[j].Label
	})

	return result
}

// projection is the filtered subgraph handed to Tarjan: non-transient
// nodes (optionally internal only) indexed by dense int64 ids.
type projection struct {
	graph     *model.Graph
	directed  *simple.DirectedGraph
	ids       map[string]int64
	byIndex   []string
	edgeCount int
}

func newProjection(g *model.Graph, opts Options) *projection {
	p := &projection{
		graph:    g,
		directed: simple.NewDirectedGraph(),
		ids:      make(map[string]int64),
	}

	keep := func(n *model.Node) bool {
		if n.Transient {
			return false
		}
		if opts.InternalOnly && n.Type == model.NodeTypeExternalPackage {
			return false
		}
		return true
	}

	sorted := make([]string, 0, len(g.Nodes))
	for id, n := range g.Nodes {
		if keep(n) {
			sorted = append(sorted, id)
		}
	}
	sort.Strings(sorted)

	for _, id := range sorted {
		idx := int64(len(p.byIndex))
		p.ids[id] = idx
		p.byIndex = append(p.byIndex, id)
		p.directed.AddNode(simple.Node(idx))
	}

	for _, e := range g.Edges {
		from, okF := p.ids[e.From]
		to, okT := p.ids[e.To]
		if !okF || !okT || from == to {
			continue
		}
		if !p.directed.HasEdgeFromTo(from, to) {
			p.directed.SetEdge(p.directed.NewEdge(simple.Node(from), simple.Node(to)))
			p.edgeCount++
		}
	}

	return p
}

func (p *projection) nodeAt(idx int64) *model.Node {
	return p.graph.Nodes[p.byIndex[idx]]
}
