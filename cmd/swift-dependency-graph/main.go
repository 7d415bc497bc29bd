package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/pflag"

	"github.com/timsearle/swift-dependency-graph/pkg/config"
	"github.com/timsearle/swift-dependency-graph/pkg/export"
	"github.com/timsearle/swift-dependency-graph/pkg/logging"
	"github.com/timsearle/swift-dependency-graph/pkg/output"
	"github.com/timsearle/swift-dependency-graph/pkg/pubsub"
	"github.com/timsearle/swift-dependency-graph/pkg/runner"
	"github.com/timsearle/swift-dependency-graph/pkg/spmtool"
	"github.com/timsearle/swift-dependency-graph/pkg/watcher"
	"github.com/timsearle/swift-dependency-graph/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("swift-dependency-graph", pflag.ExitOnError)
	flags.String("root", ".", "Path to the directory to scan")
	flags.Bool("show-targets", false, "Include build targets as graph nodes")
	flags.Bool("hide-transient", false, "Hide packages nothing declares explicitly")
	flags.Bool("stable-ids", false, "Use typed, collision-free node ids")
	flags.Bool("augment.enabled", true, "Enrich edges via swift package show-dependencies")
	flags.Bool("augment.all-roots", true, "Query every local package root, not just referenced ones")
	flags.Bool("analyze", false, "Print the pinch-point analysis report")
	flags.Bool("internal-only", false, "Restrict analysis to internal packages")
	flags.String("format", "json", "Export format: json or dot")
	flags.StringP("output", "o", "", "Export file path (default stdout)")
	flags.Bool("web", false, "Serve the interactive viewer instead of printing")
	flags.Int("port", 8080, "Web server port")
	flags.Bool("watch", false, "Re-run on source changes (web mode)")
	flags.Bool("open", true, "Open the browser after the server starts")
	flags.CountP("verbose", "v", "Increase log verbosity")
	flags.Bool("log-json", false, "Log as JSON instead of compact text")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.LevelFromVerbosity(cfg.Verbosity), cfg.LogJSON)

	if cfg.WebMode {
		runWeb(cfg)
		return
	}
	runConsole(cfg)
}

func runConsole(cfg *config.Config) {
	r := runner.New(cfg, spmtool.NewExecutor(), nil)
	result, err := r.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if result.Empty {
		output.PrintNothingFound(os.Stdout, cfg.Root)
		return
	}

	if cfg.Analyze {
		output.PrintReport(os.Stdout, cfg.Root, result.Graph, result.Analysis)
		if cfg.Output == "" {
			return
		}
	}

	if err := writeExport(cfg, result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func writeExport(cfg *config.Config, result *runner.Result) error {
	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	doc := export.FromGraph(result.Graph, cfg.StableIDs)
	if cfg.Format == "dot" {
		return doc.WriteDOT(w)
	}
	return doc.WriteJSON(w)
}

func runWeb(cfg *config.Config) {
	publisher := pubsub.NewSSEPublisher()
	r := runner.New(cfg, spmtool.NewExecutor(), publisher)
	server := web.NewServer(r, publisher, cfg.StableIDs)

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	fmt.Printf("Starting web server on %s\n", url)

	ctx := context.Background()
	go func() {
		result, err := r.Run(ctx)
		if err != nil {
			logging.Error("analysis failed", "error", err)
			return
		}
		if cfg.Watch && !result.Empty {
			watchForChanges(ctx, cfg, r, result)
		}
	}()

	if cfg.OpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			openBrowser(url)
		}()
	}

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("web server failed", "error", err)
	}
}

// watchForChanges re-runs the pipeline whenever a manifest, lockfile or
// project file changes. The runner's mutex serializes overlapping
// triggers.
func watchForChanges(ctx context.Context, cfg *config.Config, r *runner.Runner, result *runner.Result) {
	fw, err := watcher.NewFileWatcher(cfg.Root)
	if err != nil {
		logging.Error("file watching unavailable", "error", err)
		return
	}
	if err := fw.Start(ctx, result.Discovery); err != nil {
		logging.Error("file watching failed to start", "error", err)
		return
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	for event := range debouncer.Output() {
		logging.Info("source change detected", "files", len(event.Paths))
		if _, err := r.Run(ctx); err != nil {
			logging.Error("re-analysis failed", "error", err)
		}
	}
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
