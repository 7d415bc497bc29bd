// Package swiftpkg parses Swift package sources into fact records: the
// Package.resolved lockfile, the pbxproj project file, and the
// Package.swift manifest. Each parser returns a complete record or an
// error, never a partial record.
package swiftpkg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/timsearle/swift-dependency-graph/pkg/facts"
	"github.com/timsearle/swift-dependency-graph/pkg/identity"
)

// resolvedFile covers both lockfile layouts: version 1 nests the pins
// under "object", version 2 and later hold them at the top level.
type resolvedFile struct {
	Version int `json:"version"`
	Object  *struct {
		Pins []resolvedPin `json:"pins"`
	} `json:"object"`
	Pins []resolvedPin `json:"pins"`
}

type resolvedPin struct {
	// v1 fields
	Package       string `json:"package"`
	RepositoryURL string `json:"repositoryURL"`
	// v2 fields
	Identity string `json:"identity"`
	Location string `json:"location"`
}

func (p *resolvedPin) identity() string {
	if p.Identity != "" {
		return identity.Canonical(p.Identity)
	}
	if p.RepositoryURL != "" {
		return identity.Canonical(p.RepositoryURL)
	}
	return identity.Canonical(p.Package)
}

// ParseResolved parses a Package.resolved lockfile into a record carrying
// the resolved dependency identities. The record is named after the
// enclosing project or package root.
func ParseResolved(path string) (*facts.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file resolvedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	pins := file.Pins
	if file.Object != nil {
		pins = file.Object.Pins
	}

	var deps []string
	for _, pin := range pins {
		if id := pin.identity(); id != "" {
			deps = append(deps, id)
		}
	}

	display, root := lockfileOwner(path)
	return &facts.Record{
		Name:         identity.Canonical(display),
		Display:      display,
		Root:         root,
		Dependencies: deps,
	}, nil
}

// lockfileOwner determines the project or package a lockfile belongs to.
// An Xcode-managed lockfile lives under App.xcodeproj/...; it belongs to
// App and the root is the directory holding the .xcodeproj bundle. A
// SwiftPM lockfile sits next to its Package.swift and belongs to the
// package that manifest declares; the directory name is only a fallback.
func lockfileOwner(path string) (display, root string) {
	dir := filepath.Dir(path)
	for probe := dir; ; {
		base := filepath.Base(probe)
		if strings.HasSuffix(base, ".xcodeproj") {
			return strings.TrimSuffix(base, ".xcodeproj"), filepath.Dir(probe)
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
	}

	if data, err := os.ReadFile(filepath.Join(dir, "Package.swift")); err == nil {
		if nm := manifestNameRe.FindSubmatch(data); nm != nil {
			return string(nm[1]), dir
		}
	}
	return filepath.Base(dir), dir
}
