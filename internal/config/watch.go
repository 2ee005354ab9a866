package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching path. The parent directory is watched, so
// editors that save by renaming a temp file are picked up too.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, watcher: fw}, nil
}

// Run blocks until ctx is done or the watcher is closed. fn receives every
// successfully reloaded config, or the error for a broken file.
func (w *Watcher) Run(ctx context.Context, fn func(SnakeConfig, error)) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fn(w.reload())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fn(SnakeConfig{}, fmt.Errorf("config: watch: %w", err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) reload() (SnakeConfig, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return SnakeConfig{}, fmt.Errorf("config: failed to read %s: %w", w.path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return SnakeConfig{}, fmt.Errorf("config: %s: %w", w.path, err)
	}
	return cfg, nil
}
