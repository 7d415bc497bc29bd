package analysis

import (
	"github.com/timsearle/swift-dependency-graph/pkg/cycles"
)

// condensation is the acyclic component graph: one vertex per strongly
// connected component, an edge A -> B iff some original edge crosses
// components A != B.
type condensation struct {
	members [][]int64 // component -> original node indices
	compOf  map[int64]int
	out     [][]int // condensed out-neighbors, deduplicated
	in      [][]int // condensed in-neighbors, deduplicated
}

// condense runs Tarjan over the projection and builds the component graph.
// Tarjan emits components sinks-first (reverse topological order), which
// the depth and closure passes rely on.
func (p *projection) condense() *condensation {
	sccs := cycles.NewTarjanSCC(p.directed).FindSCCs()

	c := &condensation{
		members: sccs,
		compOf:  make(map[int64]int, len(p.byIndex)),
		out:     make([][]int, len(sccs)),
		in:      make([][]int, len(sccs)),
	}
	for comp, members := range sccs {
		for _, idx := range members {
			c.compOf[idx] = comp
		}
	}

	type pair struct{ from, to int }
	seen := make(map[pair]bool)
	iter := p.directed.Edges()
	for iter.Next() {
		e := iter.Edge()
		from := c.compOf[e.From().ID()]
		to := c.compOf[e.To().ID()]
		if from == to {
			continue // self-loop inside a component
		}
		key := pair{from, to}
		if seen[key] {
			continue
		}
		seen[key] = true
		c.out[from] = append(c.out[from], to)
		c.in[to] = append(c.in[to], from)
	}

	return c
}

// score computes per-component aggregates and distributes them to the
// original nodes. All passes walk components in Tarjan emission order
// (sinks first) or its reverse, so every neighbor value is already
// memoized when read; no recursion is involved.
func (c *condensation) score(p *projection) []NodeScore {
	n := len(c.members)

	// Depth: 0 for sinks of the condensed graph, else 1 + max over
	// out-neighbors. Well-defined because the condensation is acyclic.
	depth := make([]int, n)
	for comp := 0; comp < n; comp++ {
		for _, out := range c.out[comp] {
			if d := depth[out] + 1; d > depth[comp] {
				depth[comp] = d
			}
		}
	}

	// Downward closure: every component reachable outward.
	down := make([]map[int]bool, n)
	for comp := 0; comp < n; comp++ {
		closure := make(map[int]bool)
		for _, out := range c.out[comp] {
			closure[out] = true
			for reached := range down[out] {
				closure[reached] = true
			}
		}
		down[comp] = closure
	}

	// Upward closure: every component reachable inward. Walked in the
	// reverse order, so predecessors are memoized first.
	up := make([]map[int]bool, n)
	for comp := n - 1; comp >= 0; comp-- {
		closure := make(map[int]bool)
		for _, in := range c.in[comp] {
			closure[in] = true
			for reached := range up[in] {
				closure[reached] = true
			}
		}
		up[comp] = closure
	}

	nodeCount := func(comps []int) int {
		total := 0
		for _, comp := range comps {
			total += len(c.members[comp])
		}
		return total
	}
	closureCount := func(closure map[int]bool) int {
		total := 0
		for comp := range closure {
			total += len(c.members[comp])
		}
		return total
	}

	scores := make([]NodeScore, 0, len(p.byIndex))
	for comp := 0; comp < n; comp++ {
		directDependents := nodeCount(c.in[comp])
		transitiveDependents := closureCount(up[comp])
		directDependencies := nodeCount(c.out[comp])
		transitiveDependencies := closureCount(down[comp])

		impact := float64(transitiveDependents) * (1 + float64(depth[comp])*0.2)
		vulnerability := float64(transitiveDependencies)
		severity := severityFor(transitiveDependents)

		for _, idx := range c.members[comp] {
			node := p.nodeAt(idx)
			scores = append(scores, NodeScore{
				ID:                     node.ID,
				Label:                  node.Label,
				Type:                   node.Type,
				DirectDependents:       directDependents,
				TransitiveDependents:   transitiveDependents,
				DirectDependencies:     directDependencies,
				TransitiveDependencies: transitiveDependencies,
				Depth:                  depth[comp],
				CycleSize:              len(c.members[comp]),
				Impact:                 impact,
				Vulnerability:          vulnerability,
				Severity:               severity,
			})
		}
	}

	return scores
}

func severityFor(transitiveDependents int) string {
	switch {
	case transitiveDependents >= criticalThreshold:
		return SeverityCritical
	case transitiveDependents >= highThreshold:
		return SeverityHigh
	case transitiveDependents >= mediumThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
