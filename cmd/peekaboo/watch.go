package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// levelWatcher signals on changed whenever the level file is written or
// replaced. Signals coalesce: changed holds at most one pending signal.
type levelWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	changed chan struct{}
}

func newLevelWatcher(path string) (*levelWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	// Watch the directory: editors often replace the file with a rename.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &levelWatcher{watcher: w, path: path, changed: make(chan struct{}, 1)}, nil
}

func (lw *levelWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-lw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != lw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case lw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-lw.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("level watcher error", "error", err)
		}
	}
}

func (lw *levelWatcher) Close() error {
	return lw.watcher.Close()
}
