package facts

// Merged is the canonical view the graph builder and the augmenter work
// from: one record per (name, root), plus the global sets derived during
// the merge.
type Merged struct {
	Records []Record

	// Explicit is the union of every record's explicitly-declared package
	// identities, plus the names of packages that own both a manifest and
	// a lockfile.
	Explicit map[string]bool

	// ProjectExplicit is the subset of Explicit contributed by
	// project-config records. The augmenter uses it to pick which local
	// packages are actually referenced by a project.
	ProjectExplicit map[string]bool

	// LocalNames maps canonical name -> true for every local package in
	// the tree.
	LocalNames map[string]bool

	// LocalPackages holds the local-package records themselves, for the
	// augmenter's candidate-root selection.
	LocalPackages []Record
}

// IsLocal reports whether a canonical identity names a package whose
// manifest lives inside the scanned tree.
func (m *Merged) IsLocal(name string) bool {
	return m.LocalNames[name]
}

// Merge combines the three partially-overlapping source sets into one
// canonical record per root. Lockfile records are authoritative for
// dependency identities, project-config records for explicit packages and
// target structure, local-package records for package existence.
//
// Absence of all sources yields an empty result: "nothing found" is not an
// error.
func Merge(lockfiles, projects, locals []Record) *Merged {
	m := &Merged{
		Explicit:        make(map[string]bool),
		ProjectExplicit: make(map[string]bool),
		LocalNames:      make(map[string]bool),
	}

	projectsByName := make(map[string]*Record, len(projects))
	for i := range projects {
		projectsByName[projects[i].Name] = &projects[i]
	}
	localsByName := make(map[string]*Record, len(locals))
	for i := range locals {
		l := &locals[i]
		localsByName[l.Name] = l
		m.LocalNames[l.Name] = true
		m.LocalPackages = append(m.LocalPackages, *l)
	}

	for _, p := range projects {
		for id := range p.Explicit {
			m.Explicit[id] = true
			m.ProjectExplicit[id] = true
		}
	}
	for _, l := range locals {
		for id := range l.Explicit {
			m.Explicit[id] = true
		}
	}

	emitted := make(map[string]bool)
	joinedProjects := make(map[string]bool)

	// 1. Lockfile records joined with a project-config record and a
	// local-package record sharing the canonical name.
	for _, lf := range lockfiles {
		merged := lf
		merged.Explicit = cloneSet(lf.Explicit)

		if p, ok := projectsByName[lf.Name]; ok {
			merged.Targets = append(merged.Targets, p.Targets...)
			for id := range p.Explicit {
				merged.Explicit[id] = true
			}
			joinedProjects[p.Name] = true
		}

		if l, ok := localsByName[lf.Name]; ok {
			for id := range l.Explicit {
				merged.Explicit[id] = true
			}
			// A package owning both a manifest and a lockfile is a local
			// package, not a plain project: record its own name as
			// explicit so classification cannot miss it.
			merged.Explicit[lf.Name] = true
			m.Explicit[lf.Name] = true
			merged.LocalPackage = true
		}

		m.Records = append(m.Records, merged)
		emitted[merged.rootKey()] = true
	}

	// 2. Project-config records with no lockfile match.
	for _, p := range projects {
		if joinedProjects[p.Name] {
			continue
		}
		if emitted[p.rootKey()] {
			continue
		}
		rec := p
		rec.Explicit = cloneSet(p.Explicit)
		m.Records = append(m.Records, rec)
		emitted[rec.rootKey()] = true
	}

	// 3. Local-package records not already represented by (name, root).
	for _, l := range locals {
		if emitted[l.rootKey()] {
			continue
		}
		rec := l
		rec.Explicit = cloneSet(l.Explicit)
		rec.LocalPackage = true
		m.Records = append(m.Records, rec)
		emitted[rec.rootKey()] = true
	}

	return m
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}
