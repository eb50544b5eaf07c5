package trellis

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the Engine's cache whenever anything under the
// workspace changes, so the next Analyze reruns the pipeline. It blocks
// until ctx is done. onChange, when non-nil, is called after each
// invalidation (debouncing is the caller's concern).
//
// fsnotify watches are non-recursive, so every non-excluded directory is
// registered up front. Directories created after Watch starts are picked up
// when a create event for them arrives.
func (e *Engine) Watch(ctx context.Context, onChange func(fsnotify.Event)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("trellis: create watcher: %w", err)
	}
	defer w.Close()

	if err := e.addWatchDirs(w, e.root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// New directories need their own watch.
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					_ = e.addWatchDirs(w, ev.Name)
				}
			}
			e.cache.Invalidate()
			e.log.Debugf("trellis: invalidated cache on %s %s", ev.Op, ev.Name)
			if onChange != nil {
				onChange(ev)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.log.Warnf("trellis: watch error: %v", err)
		}
	}
}

// addWatchDirs registers root and every non-excluded subdirectory.
func (e *Engine) addWatchDirs(w *fsnotify.Watcher, root string) error {
	excluded := func(name string) bool {
		if skipDirs[name] {
			return true
		}
		for _, x := range e.excludes {
			if name == x {
				return true
			}
		}
		return false
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || excluded(name)) {
			return filepath.SkipDir
		}
		if addErr := w.Add(path); addErr != nil {
			e.log.Warnf("trellis: watch %s: %v", path, addErr)
		}
		return nil
	})
}
