package graph

import (
	"github.com/timsearle/swift-dependency-graph/pkg/facts"
	"github.com/timsearle/swift-dependency-graph/pkg/identity"
	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

// Options configure graph construction.
type Options struct {
	ShowTargets bool // emit one node per declared build target
	StableIDs   bool // typed node ids instead of raw labels
}

// Build classifies merged fact records into a typed graph.
//
// A record is an internal package iff it declares no targets and its own
// canonical name appears in the global explicit-package set; otherwise it
// is a project. Every flat dependency identity becomes a package node
// (internal when a local package is known under that name, external
// otherwise) with an edge from the record's node.
func Build(m *facts.Merged, opts Options) *model.Graph {
	b := &builder{merged: m, opts: opts, g: model.NewGraph()}
	for i := range m.Records {
		b.addRecord(&m.Records[i])
	}
	return b.g
}

type builder struct {
	merged *facts.Merged
	opts   Options
	g      *model.Graph
}

func (b *builder) addRecord(rec *facts.Record) {
	label := rec.Display
	if label == "" {
		label = rec.Name
	}

	internal := len(rec.Targets) == 0 && b.merged.Explicit[rec.Name]

	var ownID string
	if internal {
		ownID = PackageNodeID(b.opts.StableIDs, true, rec.Name, label)
		b.g.AddNode(&model.Node{
			ID:    ownID,
			Label: label,
			Type:  model.NodeTypeInternalPackage,
		})
	} else {
		ownID = ProjectNodeID(b.opts.StableIDs, rec.Root, label)
		b.g.AddNode(&model.Node{
			ID:    ownID,
			Label: label,
			Type:  model.NodeTypeProject,
		})
	}

	if b.opts.ShowTargets {
		b.addTargets(rec, ownID)
	}

	for _, ref := range rec.Dependencies {
		depID := b.addDependency(ref)
		b.g.AddEdge(ownID, depID)
	}
}

// addTargets emits one node per declared target plus target->target and
// target->package edges. All target nodes are created before edges so a
// forward reference to a later sibling still resolves.
func (b *builder) addTargets(rec *facts.Record, ownID string) {
	for _, t := range rec.Targets {
		b.g.AddNode(&model.Node{
			ID:    TargetNodeID(b.opts.StableIDs, ownID, t.Name),
			Label: t.Name,
			Type:  model.NodeTypeTarget,
		})
	}
	for _, t := range rec.Targets {
		tid := TargetNodeID(b.opts.StableIDs, ownID, t.Name)
		for _, dep := range t.TargetDeps {
			depID := TargetNodeID(b.opts.StableIDs, ownID, dep)
			if b.g.HasNode(depID) {
				b.g.AddEdge(tid, depID)
			}
		}
		for _, ref := range t.ProductDeps {
			b.g.AddEdge(tid, b.addDependency(ref))
		}
	}
}

// addDependency ensures a package node exists for a dependency reference
// and returns its id. The destination is transient iff its canonical name
// is outside the global explicit set and it is not a recognized local
// package.
func (b *builder) addDependency(ref string) string {
	canonical := identity.Canonical(ref)
	label := identity.Display(ref)
	internal := b.merged.IsLocal(canonical)

	nodeType := model.NodeTypeExternalPackage
	if internal {
		nodeType = model.NodeTypeInternalPackage
	}

	id := PackageNodeID(b.opts.StableIDs, internal, canonical, label)
	b.g.AddNode(&model.Node{
		ID:        id,
		Label:     label,
		Type:      nodeType,
		Transient: !internal && !b.merged.Explicit[canonical],
	})
	return id
}
