// Package watcher re-triggers analysis when watched source files or
// the rule configuration change.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/skoglund/feature-scan/pkg/config"
	"github.com/skoglund/feature-scan/pkg/logging"
	"github.com/skoglund/feature-scan/pkg/scanner"
)

// ChangeType represents the type of file change detected
type ChangeType int

const (
	ChangeTypeSource     ChangeType = iota // a scanned source file changed
	ChangeTypeRuleConfig                   // the rule/config file changed
)

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a source tree for changes relevant to analysis.
type FileWatcher struct {
	watcher    *fsnotify.Watcher
	root       string
	excluded   map[string]bool
	extensions map[string]bool
	events     chan ChangeEvent
}

// NewFileWatcher creates a watcher over root. nil excludes/extensions
// fall back to the scanner defaults, so the watcher tracks exactly
// what a scan would pick up.
func NewFileWatcher(root string, excludes, extensions []string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if excludes == nil {
		excludes = scanner.DefaultExcludes()
	}
	excluded := make(map[string]bool, len(excludes))
	for _, name := range excludes {
		excluded[name] = true
	}

	if extensions == nil {
		extensions = scanner.DefaultExtensions()
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[strings.ToLower(ext)] = true
	}

	return &FileWatcher{
		watcher:    w,
		root:       root,
		excluded:   excluded,
		extensions: allowed,
		events:     make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for file changes
func (fw *FileWatcher) Start(ctx context.Context) error {
	if err := fw.watchTree(); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.root, err)
	}

	logging.Info("started watching source tree", "path", fw.root)
	go fw.processEvents(ctx)
	return nil
}

// watchTree registers every non-excluded directory under the root.
// fsnotify watches are per-directory, not recursive.
func (fw *FileWatcher) watchTree() error {
	count := 0
	err := filepath.Walk(fw.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip entries we cannot stat
		}
		if !info.IsDir() {
			return nil
		}
		if path != fw.root && fw.excluded[info.Name()] {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			logging.Warn("failed to watch directory", "path", path, "error", err)
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	logging.Info("monitoring directories", "count", count)
	return nil
}

// processEvents batches raw notifications by type so one save burst
// becomes one event.
func (fw *FileWatcher) processEvents(ctx context.Context) {
	var sourceFiles []string
	var configFiles []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(configFiles) > 0 {
			fw.events <- ChangeEvent{
				Type:      ChangeTypeRuleConfig,
				Paths:     configFiles,
				Timestamp: time.Now(),
			}
			configFiles = nil
		}
		if len(sourceFiles) > 0 {
			fw.events <- ChangeEvent{
				Type:      ChangeTypeSource,
				Paths:     sourceFiles,
				Timestamp: time.Now(),
			}
			sourceFiles = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			fw.watcher.Close()
			close(fw.events)
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				close(fw.events)
				return
			}

			// Directories created mid-watch join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !fw.excluded[info.Name()] {
					if err := fw.watcher.Add(event.Name); err != nil {
						logging.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			name := filepath.Base(event.Name)
			switch {
			case name == config.DefaultFile:
				configFiles = append(configFiles, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			case fw.extensions[strings.ToLower(filepath.Ext(name))]:
				sourceFiles = append(sourceFiles, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			}

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				close(fw.events)
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the file watcher. The events channel closes once the
// processing loop drains.
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}
