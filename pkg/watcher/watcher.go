// Package watcher monitors the scanned tree for manifest, lockfile and
// project file changes and triggers pipeline re-runs in web mode.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/timsearle/swift-dependency-graph/pkg/finder"
	"github.com/timsearle/swift-dependency-graph/pkg/logging"
)

// ChangeKind classifies what kind of source file changed.
type ChangeKind int

const (
	ChangeManifest ChangeKind = iota // Package.swift
	ChangeLockfile                   // Package.resolved
	ChangeProject                    // project.pbxproj
)

// ChangeEvent is a batch of related file changes.
type ChangeEvent struct {
	Kind      ChangeKind
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches the directories that hold discovered source files.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan ChangeEvent
}

// NewFileWatcher creates a watcher for the given scan root.
func NewFileWatcher(root string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		watcher: w,
		root:    root,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start registers the directories holding the discovered files and begins
// forwarding change events. fsnotify watches directories, not files, so a
// lockfile rewritten by SwiftPM (delete + create) is still observed.
func (fw *FileWatcher) Start(ctx context.Context, discovery *finder.Discovery) error {
	dirs := make(map[string]bool)
	for _, group := range [][]string{discovery.Manifests, discovery.Lockfiles, discovery.Projects} {
		for _, path := range group {
			dirs[filepath.Dir(path)] = true
		}
	}
	if len(dirs) == 0 {
		dirs[fw.root] = true
	}

	for dir := range dirs {
		if err := fw.watcher.Add(dir); err != nil {
			logging.Warn("failed to watch directory", "path", dir, "error", err)
		}
	}
	logging.Info("watching for source changes", "directories", len(dirs))

	go fw.processEvents(ctx)
	return nil
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = fw.watcher.Close()
			close(fw.events)
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if kind, relevant := classify(event.Name); relevant {
				fw.events <- ChangeEvent{
					Kind:      kind,
					Paths:     []string{event.Name},
					Timestamp: time.Now(),
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

func classify(path string) (ChangeKind, bool) {
	switch filepath.Base(path) {
	case "Package.swift":
		return ChangeManifest, true
	case "Package.resolved":
		return ChangeLockfile, true
	case "project.pbxproj":
		if strings.Contains(path, ".xcodeproj") {
			return ChangeProject, true
		}
	}
	return 0, false
}

// Events returns the channel of raw change events. Feed it through a
// Debouncer before triggering re-runs.
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop closes the underlying watcher.
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}
