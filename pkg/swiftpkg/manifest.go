package swiftpkg

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/timsearle/swift-dependency-graph/pkg/facts"
	"github.com/timsearle/swift-dependency-graph/pkg/identity"
)

var (
	manifestNameRe = regexp.MustCompile(`name:\s*"([^"]+)"`)
	packageURLRe   = regexp.MustCompile(`\.package\s*\([^)]*?url:\s*"([^"]+)"`)
	packagePathRe  = regexp.MustCompile(`\.package\s*\([^)]*?path:\s*"([^"]+)"`)
)

// ParseManifest parses a Package.swift manifest into a local-package
// record. Only the declared package name and the .package(url:)/.package(path:)
// dependency declarations are extracted; the manifest is not evaluated.
func ParseManifest(path string) (*facts.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)

	nm := manifestNameRe.FindStringSubmatch(text)
	if nm == nil {
		return nil, fmt.Errorf("parse %s: no package name declared", path)
	}
	display := nm[1]

	explicit := map[string]bool{}
	for _, m := range packageURLRe.FindAllStringSubmatch(text, -1) {
		explicit[identity.Canonical(m[1])] = true
	}
	for _, m := range packagePathRe.FindAllStringSubmatch(text, -1) {
		explicit[identity.Canonical(m[1])] = true
	}

	return &facts.Record{
		Name:         identity.Canonical(display),
		Display:      display,
		Root:         filepath.Dir(path),
		Explicit:     explicit,
		LocalPackage: true,
	}, nil
}
