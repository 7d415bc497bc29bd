// Package cycles finds strongly connected components in directed graphs.
package cycles

import (
	"gonum.org/v1/gonum/graph"
)

// TarjanSCC finds strongly connected components using an iterative
// formulation of Tarjan's algorithm. The explicit frame stack keeps
// pathological long dependency chains from exhausting the goroutine stack.
type TarjanSCC struct {
	graph   graph.Directed
	index   int
	stack   []int64
	onStack map[int64]bool
	indices map[int64]int
	lowLink map[int64]int
	sccs    [][]int64
}

// NewTarjanSCC creates a new SCC finder over the given graph.
func NewTarjanSCC(g graph.Directed) *TarjanSCC {
	return &TarjanSCC{
		graph:   g,
		onStack: make(map[int64]bool),
		indices: make(map[int64]int),
		lowLink: make(map[int64]int),
	}
}

// FindSCCs returns every strongly connected component, singletons
// included. Each node appears in exactly one component.
func (t *TarjanSCC) FindSCCs() [][]int64 {
	nodes := t.graph.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		if _, visited := t.indices[id]; !visited {
			t.strongConnect(id)
		}
	}
	return t.sccs
}

// frame is one suspended strongConnect invocation.
type frame struct {
	node       int64
	successors []int64
	next       int
}

func (t *TarjanSCC) strongConnect(root int64) {
	frames := []frame{t.push(root)}

	for len(frames) > 0 {
		f := &frames[len(frames)-1]

		advanced := false
		for f.next < len(f.successors) {
			succ := f.successors[f.next]
			f.next++

			if _, visited := t.indices[succ]; !visited {
				frames = append(frames, t.push(succ))
				advanced = true
				break
			}
			if t.onStack[succ] {
				t.lowLink[f.node] = min(t.lowLink[f.node], t.indices[succ])
			}
		}
		if advanced {
			continue
		}

		// All successors handled: pop a component if this is its root,
		// then propagate lowlink to the caller frame.
		if t.lowLink[f.node] == t.indices[f.node] {
			var scc []int64
			for {
				w := t.stack[len(t.stack)-1]
				t.stack = t.stack[:len(t.stack)-1]
				t.onStack[w] = false
				scc = append(scc, w)
				if w == f.node {
					break
				}
			}
			t.sccs = append(t.sccs, scc)
		}

		done := f.node
		frames = frames[:len(frames)-1]
		if len(frames) > 0 {
			parent := &frames[len(frames)-1]
			t.lowLink[parent.node] = min(t.lowLink[parent.node], t.lowLink[done])
		}
	}
}

// push opens a new frame for a node: assigns its index, puts it on the
// component stack and snapshots its successor list.
func (t *TarjanSCC) push(node int64) frame {
	t.indices[node] = t.index
	t.lowLink[node] = t.index
	t.index++
	t.stack = append(t.stack, node)
	t.onStack[node] = true

	var successors []int64
	iter := t.graph.From(node)
	for iter.Next() {
		successors = append(successors, iter.Node().ID())
	}
	return frame{node: node, successors: successors}
}
