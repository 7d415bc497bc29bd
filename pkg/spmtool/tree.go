package spmtool

import (
	"encoding/json"
	"fmt"
)

// DependencyTree is the structured output of the dependency-query tool:
// one node per resolved package with its nested children. Only the
// identity and child list are required by the contract; the rest is
// carried for display.
type DependencyTree struct {
	Identity     string           `json:"identity"`
	Name         string           `json:"name"`
	URL          string           `json:"url"`
	Version      string           `json:"version"`
	Path         string           `json:"path"`
	Dependencies []DependencyTree `json:"dependencies"`
}

// ParseTree decodes the tool's JSON output. Malformed output is an error
// the caller treats as "no data".
func ParseTree(data []byte) (*DependencyTree, error) {
	var tree DependencyTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("malformed dependency tree: %w", err)
	}
	return &tree, nil
}

// ref returns the best reference string for identity normalization:
// the URL when present (remote packages), otherwise the path (local
// packages), otherwise the reported name or identity.
func (t *DependencyTree) ref() string {
	switch {
	case t.URL != "":
		return t.URL
	case t.Path != "":
		return t.Path
	case t.Name != "":
		return t.Name
	default:
		return t.Identity
	}
}
