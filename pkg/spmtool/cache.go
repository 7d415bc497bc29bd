package spmtool

import (
	"path/filepath"
)

// invocationCache remembers the outcome of one tool invocation per
// canonical root for the lifetime of a run. Failures are cached too: a
// failed root is never retried within the run. The augmenter owns the
// cache and invokes strictly sequentially, so no locking is needed.
type invocationCache struct {
	entries map[string]*DependencyTree // nil value = invocation failed
}

func newInvocationCache() *invocationCache {
	return &invocationCache{entries: make(map[string]*DependencyTree)}
}

func (c *invocationCache) get(root string) (*DependencyTree, bool) {
	tree, ok := c.entries[root]
	return tree, ok
}

func (c *invocationCache) put(root string, tree *DependencyTree) {
	c.entries[root] = tree
}

// canonicalRoot resolves symlinks and relative segments so two spellings
// of the same directory share a cache entry.
func canonicalRoot(root string) string {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		resolved = root
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return filepath.Clean(resolved)
	}
	return abs
}
