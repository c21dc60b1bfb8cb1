package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// configWatcher reports writes to a single file. It watches the parent
// directory so editors that replace the file on save are still seen.
type configWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

func newConfigWatcher(path string) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &configWatcher{path: filepath.Clean(path), watcher: w}, nil
}

// run calls onChange after every write to the file until ctx is done.
// Errors from onChange are logged, not returned.
func (cw *configWatcher) run(ctx context.Context, onChange func() error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != cw.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			log.Printf("config %q changed, re-rendering", cw.path)
			if err := onChange(); err != nil {
				log.Printf("re-render failed: %v", err)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config watcher error: %v", err)
		}
	}
}

func (cw *configWatcher) Close() error {
	return cw.watcher.Close()
}
