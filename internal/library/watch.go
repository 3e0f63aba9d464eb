package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the granted tree and invokes onChange whenever a file is
// created, removed, renamed or written anywhere under it, so the caller can
// regenerate its abstract list wholesale. Subdirectories present at watch
// start are covered; directories created later are added as their create
// events arrive. Watch blocks until ctx is done and always stops its watcher
// before returning.
func (l *Library) Watch(ctx context.Context, onChange func()) error {
	root := l.Root()
	if root == "" {
		return ErrNoRoot
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				onChange()
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are transient noise; the next event still
			// triggers a rescan.
		}
	}
}
