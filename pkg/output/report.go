// Package output prints the console analysis report.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/timsearle/swift-dependency-graph/pkg/analysis"
	"github.com/timsearle/swift-dependency-graph/pkg/model"
)

// topN caps the high-impact and most-vulnerable tables.
const topN = 10

// PrintReport prints a formatted analysis report with colors.
func PrintReport(w io.Writer, root string, g *model.Graph, result *analysis.Result) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Fprintln(w, "Swift Dependency Graph - Analysis Report")
	bold.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Root: %s\n", root)
	fmt.Fprintf(w, "Graph: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
	fmt.Fprintf(w, "Analyzed: %d nodes, %d components\n",
		result.Summary.NodeCount, result.Summary.ComponentCount)
	fmt.Fprintln(w)

	sum := result.Summary
	if sum.Critical > 0 {
		red.Fprintf(w, "Critical: %d\n", sum.Critical)
	}
	if sum.High > 0 {
		yellow.Fprintf(w, "High: %d\n", sum.High)
	}
	fmt.Fprintf(w, "Medium: %d  Low: %d\n", sum.Medium, sum.Low)
	fmt.Fprintln(w)

	if len(result.HighImpact) > 0 {
		bold.Fprintln(w, "HIGH IMPACT (most depended upon):")
		for i, score := range result.HighImpact {
			if i == topN {
				break
			}
			line := severityColor(score.Severity)
			line.Fprintf(w, "  %2d. %s", i+1, score.Label)
			fmt.Fprintf(w, "  impact=%.1f dependents=%d depth=%d",
				score.Impact, score.TransitiveDependents, score.Depth)
			if score.CycleSize > 1 {
				yellow.Fprintf(w, "  [cycle of %d]", score.CycleSize)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if len(result.MostVulnerable) > 0 {
		bold.Fprintln(w, "MOST VULNERABLE (largest dependency surface):")
		for i, score := range result.MostVulnerable {
			if i == topN {
				break
			}
			cyan.Fprintf(w, "  %2d. %s", i+1, score.Label)
			fmt.Fprintf(w, "  dependencies=%d\n", score.TransitiveDependencies)
		}
		fmt.Fprintln(w)
	}

	if len(result.Cycles) > 0 {
		red.Fprintf(w, "CYCLES (%d):\n", len(result.Cycles))
		for _, cycle := range result.Cycles {
			fmt.Fprint(w, "  ")
			for i, label := range cycle {
				if i > 0 {
					fmt.Fprint(w, " -> ")
				}
				yellow.Fprint(w, label)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if sum.CycleCount == 0 {
		green.Fprintln(w, "✓ No dependency cycles detected")
	}
}

// PrintNothingFound reports an empty scan. This is an informational
// outcome, not an error.
func PrintNothingFound(w io.Writer, root string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(w, "No Swift packages or Xcode projects found under %s\n", root)
	fmt.Fprintln(w, "Nothing to analyze.")
}

func severityColor(severity string) *color.Color {
	switch severity {
	case analysis.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case analysis.SeverityHigh:
		return color.New(color.FgYellow)
	case analysis.SeverityMedium:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}
