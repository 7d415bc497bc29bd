// Package spmtool invokes the external Swift package-manager tooling and
// enriches the graph with package-to-package edges from its resolved
// dependency trees.
package spmtool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Executor runs the external dependency-query tool for a package root.
type Executor interface {
	// ShowDependencies returns the tool's JSON dependency tree for the
	// package at root. The invocation runs with its working directory set
	// to root and blocks until the tool exits; there is no timeout beyond
	// what the context imposes.
	ShowDependencies(ctx context.Context, root string) ([]byte, error)
}

// DefaultExecutor shells out to `swift package show-dependencies`.
type DefaultExecutor struct{}

// NewExecutor creates the default executor.
func NewExecutor() Executor {
	return &DefaultExecutor{}
}

// ShowDependencies invokes the tool once for the given root.
func (e *DefaultExecutor) ShowDependencies(ctx context.Context, root string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "swift", "package", "show-dependencies", "--format", "json")
	cmd.Dir = root

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("swift package show-dependencies failed in %s: %w\nStderr: %s", root, err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("swift package show-dependencies failed in %s: %w", root, err)
	}

	return output, nil
}
