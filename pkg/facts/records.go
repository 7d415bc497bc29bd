package facts

// Target describes one build target declared by a project: its name, the
// package products it depends on, and the sibling targets it depends on.
type Target struct {
	Name        string
	ProductDeps []string // canonical package identities
	TargetDeps  []string // names of other targets in the same record
}

// Record is the per-root summary a source parser produces: one per
// discovered project or package root. Records are immutable once emitted;
// only the merge engine consumes them.
//
// The three sources fill different parts:
//   - lockfile records carry Dependencies (resolved identities)
//   - project-config records carry Explicit and Targets
//   - local-package records carry Explicit (their declared dependencies)
//     and may carry Dependencies when enriched by an external query
type Record struct {
	Name         string          // canonical name
	Display      string          // original-casing label
	Root         string          // root location on disk
	Dependencies []string        // flat resolved dependency identities
	Explicit     map[string]bool // explicitly-declared package identities
	Targets      []Target
	LocalPackage bool // record came from a package manifest in the tree
}

// rootKey identifies a record by (name, root). The merge engine never
// dedupes by name alone: a local package and an unrelated project may share
// a name at different roots.
func (r *Record) rootKey() string {
	return r.Name + "\x00" + r.Root
}
