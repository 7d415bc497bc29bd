package spmtool

import (
	"context"
	"fmt"
)

// MockExecutor is an Executor for tests: canned output per root, with
// invocation recording.
type MockExecutor struct {
	Output map[string][]byte // root -> JSON tree
	Err    map[string]error  // root -> forced failure
	Calls  []string          // roots in invocation order
}

func (m *MockExecutor) ShowDependencies(ctx context.Context, root string) ([]byte, error) {
	m.Calls = append(m.Calls, root)
	if err, ok := m.Err[root]; ok {
		return nil, err
	}
	if out, ok := m.Output[root]; ok {
		return out, nil
	}
	return nil, fmt.Errorf("no mock output for root %s", root)
}
