package spmtool

import (
	"context"
	"sort"

	"github.com/timsearle/swift-dependency-graph/pkg/facts"
	"github.com/timsearle/swift-dependency-graph/pkg/graph"
	"github.com/timsearle/swift-dependency-graph/pkg/identity"
	"github.com/timsearle/swift-dependency-graph/pkg/logging"
	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

// AugmentOptions configure one augmentation pass.
type AugmentOptions struct {
	// HideTransient limits traversal to direct children: deeper levels
	// would be filtered out anyway, so their invocations are saved.
	HideTransient bool

	// AllRoots queries every discovered local package when no local
	// package is referenced by a project. Defaults on; can be disabled
	// for large monorepos where resolving every package is too slow.
	AllRoots bool

	// StableIDs must match the builder's id mode.
	StableIDs bool
}

// Augmenter enriches package-to-package edges by querying the external
// tool once per distinct local-package root. Results are cached by
// canonicalized root path for the lifetime of the augmenter.
type Augmenter struct {
	exec  Executor
	cache *invocationCache
}

// NewAugmenter creates an augmenter around the given executor.
func NewAugmenter(exec Executor) *Augmenter {
	return &Augmenter{exec: exec, cache: newInvocationCache()}
}

// Augment walks the dependency tree of each candidate root and merges the
// discovered edges into g. A failed invocation yields no edges for that
// root and is not retried; it never aborts the pass. Returns the number
// of edges added.
func (a *Augmenter) Augment(ctx context.Context, g *model.Graph, m *facts.Merged, opts AugmentOptions) int {
	roots := candidateRoots(m, opts)
	if len(roots) == 0 {
		return 0
	}

	w := &treeWalker{
		g:       g,
		merged:  m,
		opts:    opts,
		nodeIDs: indexPackageNodes(g),
		seen:    seedEdgeSet(g),
		covered: make(map[string]bool),
	}

	for _, rec := range roots {
		if w.covered[rec.Name] {
			logging.Debug("root already covered by an earlier tree", "package", rec.Name)
			continue
		}

		tree := a.resolve(ctx, rec.Root)
		if tree == nil {
			continue
		}
		w.walk(tree)
	}

	return w.added
}

// resolve returns the cached dependency tree for a root, invoking the
// tool on a cache miss. A nil return means the invocation failed or its
// output was malformed; the failure itself is cached.
func (a *Augmenter) resolve(ctx context.Context, root string) *DependencyTree {
	key := canonicalRoot(root)
	if tree, ok := a.cache.get(key); ok {
		return tree
	}

	output, err := a.exec.ShowDependencies(ctx, root)
	if err != nil {
		logging.Warn("dependency query failed, skipping root", "root", root, "error", err)
		a.cache.put(key, nil)
		return nil
	}

	tree, err := ParseTree(output)
	if err != nil {
		logging.Warn("dependency query returned malformed output, skipping root", "root", root, "error", err)
		a.cache.put(key, nil)
		return nil
	}

	a.cache.put(key, tree)
	return tree
}

// candidateRoots picks the local packages to query: those referenced by a
// project, or all of them when none is referenced. Likely entry points
// (packages no other candidate depends on) come first, since querying an
// entry point's tree also covers everything reachable from it.
func candidateRoots(m *facts.Merged, opts AugmentOptions) []facts.Record {
	var candidates []facts.Record
	for _, rec := range m.LocalPackages {
		if m.ProjectExplicit[rec.Name] {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		if !opts.AllRoots {
			return nil
		}
		candidates = append(candidates, m.LocalPackages...)
	}

	dependedOn := make(map[string]bool)
	names := make(map[string]bool, len(candidates))
	for _, rec := range candidates {
		names[rec.Name] = true
	}
	for _, rec := range candidates {
		for _, ref := range rec.Dependencies {
			if c := identity.Canonical(ref); names[c] && c != rec.Name {
				dependedOn[c] = true
			}
		}
		for ref := range rec.Explicit {
			if c := identity.Canonical(ref); names[c] && c != rec.Name {
				dependedOn[c] = true
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ei, ej := !dependedOn[candidates[i].Name], !dependedOn[candidates[j].Name]
		if ei != ej {
			return ei // entry points first
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates
}

// treeWalker merges one or more dependency trees into the graph.
type treeWalker struct {
	g       *model.Graph
	merged  *facts.Merged
	opts    AugmentOptions
	nodeIDs map[string]string // canonical identity -> node id
	seen    map[string]bool   // from -> to pairs already present
	covered map[string]bool   // identities represented by a visited tree
	added   int
}

// walk performs an explicit-stack depth-first traversal of one tree.
// Direct children of the root are explicit; anything deeper is transient
// (external destinations only).
func (w *treeWalker) walk(tree *DependencyTree) {
	type item struct {
		node   *DependencyTree
		nodeID string
		depth  int
	}

	rootID := w.ensureNode(tree, false)
	w.covered[identity.Canonical(tree.ref())] = true

	stack := []item{{node: tree, nodeID: rootID, depth: -1}}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		childDepth := curr.depth + 1
		if w.opts.HideTransient && childDepth > 0 {
			continue
		}

		for i := range curr.node.Dependencies {
			child := &curr.node.Dependencies[i]
			childID := w.ensureNode(child, childDepth >= 1)
			w.covered[identity.Canonical(child.ref())] = true
			w.addEdge(curr.nodeID, childID)
			stack = append(stack, item{node: child, nodeID: childID, depth: childDepth})
		}
	}
}

// ensureNode resolves a tree node to a graph node id, creating the node
// if the graph does not have it yet. The upgrade-only merge in AddNode
// keeps an already-explicit or internal node from being demoted.
func (w *treeWalker) ensureNode(t *DependencyTree, transient bool) string {
	ref := t.ref()
	canonical := identity.Canonical(ref)
	if id, ok := w.nodeIDs[canonical]; ok {
		w.g.AddNode(&model.Node{
			ID:        id,
			Label:     identity.Display(ref),
			Type:      packageType(w.merged.IsLocal(canonical)),
			Transient: transient,
		})
		return id
	}

	internal := w.merged.IsLocal(canonical)
	label := identity.Display(ref)
	id := graph.PackageNodeID(w.opts.StableIDs, internal, canonical, label)
	w.g.AddNode(&model.Node{
		ID:        id,
		Label:     label,
		Type:      packageType(internal),
		Transient: transient && !internal,
	})
	w.nodeIDs[canonical] = id
	return id
}

func (w *treeWalker) addEdge(from, to string) {
	key := from + "\x00" + to
	if w.seen[key] {
		return
	}
	w.seen[key] = true
	w.g.AddEdge(from, to)
	w.added++
}

func packageType(internal bool) model.NodeType {
	if internal {
		return model.NodeTypeInternalPackage
	}
	return model.NodeTypeExternalPackage
}

// indexPackageNodes maps canonical identities to existing package node
// ids so augmented edges attach to the builder's nodes regardless of id
// mode or label casing.
func indexPackageNodes(g *model.Graph) map[string]string {
	index := make(map[string]string)
	for id, n := range g.Nodes {
		if n.Type == model.NodeTypeProject {
			index[identity.Canonical(n.Label)] = id
		}
	}
	// Package nodes win over a project node sharing the same identity.
	for id, n := range g.Nodes {
		if n.Type == model.NodeTypeInternalPackage || n.Type == model.NodeTypeExternalPackage {
			index[identity.Canonical(n.Label)] = id
		}
	}
	return index
}

func seedEdgeSet(g *model.Graph) map[string]bool {
	seen := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		seen[e.From+"\x00"+e.To] = true
	}
	return seen
}
