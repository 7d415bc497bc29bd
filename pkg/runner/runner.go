// Package runner orchestrates the analysis pipeline: scan, parse, merge,
// build, augment, filter, layer. One Runner is shared between the CLI
// entrypoint, the web layer and the file watcher.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/timsearle/swift-dependency-graph/pkg/analysis"
	"github.com/timsearle/swift-dependency-graph/pkg/config"
	"github.com/timsearle/swift-dependency-graph/pkg/facts"
	"github.com/timsearle/swift-dependency-graph/pkg/finder"
	"github.com/timsearle/swift-dependency-graph/pkg/graph"
	"github.com/timsearle/swift-dependency-graph/pkg/logging"
	"github.com/timsearle/swift-dependency-graph/pkg/model"
	"github.com/timsearle/swift-dependency-graph/pkg/pubsub"
	"github.com/timsearle/swift-dependency-graph/pkg/spmtool"
	"github.com/timsearle/swift-dependency-graph/pkg/swiftpkg"
)

// Stats counts what one run consumed and produced.
type Stats struct {
	Lockfiles      int `json:"lockfiles"`
	Projects       int `json:"projects"`
	Manifests      int `json:"manifests"`
	ParseFailures  int `json:"parseFailures"`
	AugmentedEdges int `json:"augmentedEdges"`
}

// Result is the outcome of one pipeline run. Empty means no recognizable
// project facts were found; that is a success with nothing to show, not
// an error.
type Result struct {
	RunID     string            `json:"runId"`
	Empty     bool              `json:"empty"`
	Graph     *model.Graph      `json:"graph,omitempty"`
	Analysis  *analysis.Result  `json:"analysis,omitempty"`
	Discovery *finder.Discovery `json:"-"`
	Stats     Stats             `json:"stats"`
	Duration  time.Duration     `json:"duration"`
}

// Runner executes pipeline runs one at a time. Watch mode and web
// requests may ask for re-runs concurrently; the mutex serializes them.
type Runner struct {
	cfg  *config.Config
	exec spmtool.Executor
	pub  pubsub.Publisher // nil outside web mode

	mu   sync.Mutex
	last *Result
}

// New creates a runner. pub may be nil when no one is listening.
func New(cfg *config.Config, exec spmtool.Executor, pub pubsub.Publisher) *Runner {
	return &Runner{cfg: cfg, exec: exec, pub: pub}
}

// Last returns the most recent completed result, or nil before the first
// run finishes.
func (r *Runner) Last() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

const totalPhases = 5

// Run executes the full pipeline once.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.New().String()
	ctx = logging.WithRequestID(ctx, runID)
	started := time.Now()

	result := &Result{RunID: runID}

	r.publish(runID, "scanning", "scanning for project files", 1)
	logging.InfoContext(ctx, "scanning", "root", r.cfg.Root)
	discovery, err := finder.Scan(r.cfg.Root)
	if err != nil {
		return nil, err
	}
	result.Discovery = discovery

	if discovery.Empty() {
		logging.InfoContext(ctx, "no project facts found", "root", r.cfg.Root)
		result.Empty = true
		result.Duration = time.Since(started)
		r.finish(runID, result)
		return result, nil
	}

	r.publish(runID, "parsing", "parsing sources", 2)
	merged := r.parseAndMerge(ctx, discovery, &result.Stats)

	r.publish(runID, "building", "building dependency graph", 3)
	g := graph.Build(merged, graph.Options{
		ShowTargets: r.cfg.ShowTargets,
		StableIDs:   r.cfg.StableIDs,
	})
	logging.InfoContext(ctx, "graph built", "nodes", len(g.Nodes), "edges", len(g.Edges))

	if r.cfg.Augment.Enabled {
		r.publish(runID, "augmenting", "querying package dependencies", 4)
		augmenter := spmtool.NewAugmenter(r.exec)
		added := augmenter.Augment(ctx, g, merged, spmtool.AugmentOptions{
			HideTransient: r.cfg.HideTransient,
			AllRoots:      r.cfg.Augment.AllRoots,
			StableIDs:     r.cfg.StableIDs,
		})
		result.Stats.AugmentedEdges = added
		logging.InfoContext(ctx, "graph augmented", "edges", added)
	}

	if r.cfg.HideTransient {
		g = graph.FilterTransient(g)
	}
	graph.AssignLayers(g)

	if err := g.Validate(); err != nil {
		// A dangling edge here is a bug in the builder or augmenter, not
		// bad user input.
		logging.ErrorContext(ctx, "graph consistency check failed", "error", err)
		return nil, err
	}

	r.publish(runID, "analyzing", "scoring pinch points", 5)
	result.Graph = g
	result.Analysis = analysis.Analyze(g, analysis.Options{InternalOnly: r.cfg.InternalOnly})
	result.Duration = time.Since(started)

	logging.InfoContext(ctx, "run complete",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"cycles", result.Analysis.Summary.CycleCount,
		"duration", result.Duration)

	r.finish(runID, result)
	return result, nil
}

// parseAndMerge runs every parser over the discovered files. A source
// that fails to parse is dropped; the other sources are unaffected.
func (r *Runner) parseAndMerge(ctx context.Context, d *finder.Discovery, stats *Stats) *facts.Merged {
	var lockfiles, projects, locals []facts.Record

	for _, path := range d.Lockfiles {
		rec, err := swiftpkg.ParseResolved(path)
		if err != nil {
			logging.Warn("dropping unparseable lockfile", "path", path, "error", err)
			stats.ParseFailures++
			continue
		}
		lockfiles = append(lockfiles, *rec)
	}
	for _, path := range d.Projects {
		rec, err := swiftpkg.ParseProject(path)
		if err != nil {
			logging.Warn("dropping unparseable project", "path", path, "error", err)
			stats.ParseFailures++
			continue
		}
		projects = append(projects, *rec)
	}
	for _, path := range d.Manifests {
		rec, err := swiftpkg.ParseManifest(path)
		if err != nil {
			logging.Warn("dropping unparseable manifest", "path", path, "error", err)
			stats.ParseFailures++
			continue
		}
		locals = append(locals, *rec)
	}

	stats.Lockfiles = len(lockfiles)
	stats.Projects = len(projects)
	stats.Manifests = len(locals)
	logging.InfoContext(ctx, "sources parsed",
		"lockfiles", len(lockfiles),
		"projects", len(projects),
		"manifests", len(locals),
		"failures", stats.ParseFailures)

	return facts.Merge(lockfiles, projects, locals)
}

func (r *Runner) finish(runID string, result *Result) {
	r.last = result
	if result.Graph != nil {
		r.publishGraph(result)
	}
	r.publish(runID, "ready", "analysis complete", totalPhases)
}

func (r *Runner) publish(runID, phase, message string, step int) {
	if r.pub == nil {
		return
	}
	_ = r.pub.Publish(pubsub.TopicRunStatus, phase, pubsub.RunStatus{
		RunID:   runID,
		Phase:   phase,
		Message: message,
		Step:    step,
		Total:   totalPhases,
	})
}

func (r *Runner) publishGraph(result *Result) {
	if r.pub == nil {
		return
	}
	_ = r.pub.Publish(pubsub.TopicGraph, "graph", pubsub.GraphStatus{
		NodeCount:  len(result.Graph.Nodes),
		EdgeCount:  len(result.Graph.Edges),
		CycleCount: result.Analysis.Summary.CycleCount,
		Complete:   true,
	})
}
