package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/timsearle/swift-dependency-graph/pkg/config"
	"github.com/timsearle/swift-dependency-graph/pkg/model"
	"github.com/timsearle/swift-dependency-graph/pkg/spmtool"
)

const appManifest = `// swift-tools-version:5.9
import PackageDescription

let package = Package(
    name: "App",
    dependencies: [
        .package(path: "../Core"),
        .package(url: "https://github.com/Alamofire/Alamofire.git", from: "5.8.0"),
    ]
)
`

const coreManifest = `// swift-tools-version:5.9
import PackageDescription

let package = Package(
    name: "Core",
    dependencies: []
)
`

const lockfile = `{
  "pins" : [
    {
      "identity" : "alamofire",
      "kind" : "remoteSourceControl",
      "location" : "https://github.com/Alamofire/Alamofire.git",
      "state" : { "revision" : "abc", "version" : "5.8.0" }
    }
  ],
  "version" : 2
}`

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig(root string) *config.Config {
	return &config.Config{Root: root, Format: "json"}
}

func TestRunFullPipeline(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Packages/App/Package.swift":    appManifest,
		"Packages/App/Package.resolved": lockfile,
		"Packages/Core/Package.swift":   coreManifest,
	})

	r := New(testConfig(root), &spmtool.MockExecutor{}, nil)
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Empty {
		t.Fatal("result marked empty for a populated tree")
	}
	if result.Stats.Manifests != 2 || result.Stats.Lockfiles != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}

	g := result.Graph
	for _, id := range []string{"App", "Core", "alamofire"} {
		if !g.HasNode(id) {
			t.Errorf("missing node %q; have %v", id, nodeIDs(g))
		}
	}
	// Core is referenced by App's manifest, so it is an internal package.
	if got := g.Nodes["Core"].Type; got != model.NodeTypeInternalPackage {
		t.Errorf("Core type = %q, want internalPackage", got)
	}
	if result.Analysis == nil {
		t.Fatal("analysis missing from result")
	}
	if result.RunID == "" {
		t.Error("run id not assigned")
	}
	if r.Last() != result {
		t.Error("Last() does not return the completed result")
	}
}

func TestRunEmptyTree(t *testing.T) {
	r := New(testConfig(t.TempDir()), &spmtool.MockExecutor{}, nil)
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Empty {
		t.Error("expected empty result for a bare directory")
	}
	if result.Graph != nil {
		t.Error("empty run should carry no graph")
	}
}

func TestRunDropsUnparseableSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Packages/App/Package.swift":       appManifest,
		"Packages/Broken/Package.resolved": "not json at all",
	})

	r := New(testConfig(root), &spmtool.MockExecutor{}, nil)
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.ParseFailures != 1 {
		t.Errorf("parse failures = %d, want 1", result.Stats.ParseFailures)
	}
	if !result.Graph.HasNode("App") {
		t.Error("healthy source lost alongside the broken one")
	}
}

func TestRunHideTransient(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"App/Package.swift":   appManifest,
		"App/Packge.resolved": lockfile, // intentionally misnamed, ignored
	})

	cfg := testConfig(root)
	cfg.HideTransient = true
	r := New(cfg, &spmtool.MockExecutor{}, nil)
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for id, n := range result.Graph.Nodes {
		if n.Transient {
			t.Errorf("transient node %q survived filtering", id)
		}
	}
}

func nodeIDs(g *model.Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	return ids
}
