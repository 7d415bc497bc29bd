// Package finder discovers the manifest, lockfile and project files that
// the fact parsers consume.
package finder

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Discovery lists the recognized source files under a scan root.
type Discovery struct {
	Lockfiles []string // Package.resolved
	Projects  []string // project.pbxproj
	Manifests []string // Package.swift
}

// Empty reports whether no recognizable project facts were found.
func (d *Discovery) Empty() bool {
	return len(d.Lockfiles) == 0 && len(d.Projects) == 0 && len(d.Manifests) == 0
}

// skipDirs are directories that only ever contain derived or vendored
// content. Resolved checkouts under .build must be skipped in particular:
// their manifests would masquerade as local packages.
var skipDirs = map[string]bool{
	".git":        true,
	".build":      true,
	"DerivedData": true,
	"Pods":        true,
	"checkouts":   true,
}

// Scan walks the tree rooted at root and collects lockfiles, project
// files and package manifests.
func Scan(root string) (*Discovery, error) {
	d := &Discovery{}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		if entry.IsDir() {
			if skipDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		switch entry.Name() {
		case "Package.resolved":
			d.Lockfiles = append(d.Lockfiles, path)
		case "Package.swift":
			d.Manifests = append(d.Manifests, path)
		case "project.pbxproj":
			if strings.Contains(path, ".xcodeproj") {
				d.Projects = append(d.Projects, path)
			}
		}
		return nil
	})

	return d, err
}
