package facts

import (
	"testing"
)

func TestMergeJoinsAllThreeSources(t *testing.T) {
	lockfiles := []Record{{
		Name:         "app",
		Root:         "/repo",
		Dependencies: []string{"swift-log", "corekit"},
	}}
	projects := []Record{{
		Name:     "app",
		Root:     "/repo",
		Explicit: map[string]bool{"swift-log": true},
		Targets:  []Target{{Name: "App", ProductDeps: []string{"swift-log"}}},
	}}
	locals := []Record{{
		Name:     "app",
		Root:     "/repo",
		Explicit: map[string]bool{"corekit": true},
	}}

	m := Merge(lockfiles, projects, locals)

	if len(m.Records) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(m.Records))
	}
	rec := m.Records[0]
	if len(rec.Targets) != 1 || rec.Targets[0].Name != "App" {
		t.Errorf("targets not attached: %+v", rec.Targets)
	}
	if !rec.Explicit["swift-log"] || !rec.Explicit["corekit"] {
		t.Errorf("explicit sets not unioned: %v", rec.Explicit)
	}
	// A package owning both a manifest and a lockfile must not be
	// misclassified as a plain project later on.
	if !rec.Explicit["app"] || !m.Explicit["app"] {
		t.Error("own name should be marked explicit when a local package matches")
	}
}

func TestMergeProjectOnlyRecordsEmitted(t *testing.T) {
	projects := []Record{{
		Name:     "viewer",
		Root:     "/repo/Viewer",
		Explicit: map[string]bool{"alamofire": true},
	}}

	m := Merge(nil, projects, nil)

	if len(m.Records) != 1 || m.Records[0].Name != "viewer" {
		t.Fatalf("project-only record not emitted: %+v", m.Records)
	}
	if !m.Explicit["alamofire"] || !m.ProjectExplicit["alamofire"] {
		t.Error("project explicit set not propagated")
	}
}

func TestMergeLocalSharingNameAtDifferentRootIsKept(t *testing.T) {
	lockfiles := []Record{{
		Name: "corekit",
		Root: "/repo/App",
	}}
	locals := []Record{{
		Name: "corekit",
		Root: "/repo/Libraries/CoreKit",
	}}

	m := Merge(lockfiles, nil, locals)

	// Same canonical name at a different root: both records survive.
	if len(m.Records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(m.Records), m.Records)
	}
}

func TestMergeLocalAtSameRootNotDuplicated(t *testing.T) {
	lockfiles := []Record{{
		Name: "corekit",
		Root: "/repo/Libraries/CoreKit",
	}}
	locals := []Record{{
		Name: "corekit",
		Root: "/repo/Libraries/CoreKit",
	}}

	m := Merge(lockfiles, nil, locals)

	if len(m.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(m.Records))
	}
	if !m.IsLocal("corekit") {
		t.Error("corekit should be known as a local package")
	}
}

func TestMergeEmptySourcesYieldEmptyResult(t *testing.T) {
	m := Merge(nil, nil, nil)

	if len(m.Records) != 0 {
		t.Errorf("expected no records, got %d", len(m.Records))
	}
	if len(m.Explicit) != 0 || len(m.LocalNames) != 0 {
		t.Error("expected empty derived sets")
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	locals := []Record{{
		Name:     "corekit",
		Root:     "/repo/CoreKit",
		Explicit: map[string]bool{"swift-log": true},
	}}
	lockfiles := []Record{{
		Name: "corekit",
		Root: "/repo/CoreKit",
	}}

	Merge(lockfiles, nil, locals)

	if lockfiles[0].Explicit != nil {
		t.Error("lockfile input record was mutated")
	}
	if len(locals[0].Explicit) != 1 {
		t.Error("local input record was mutated")
	}
}
