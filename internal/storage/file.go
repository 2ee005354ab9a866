package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-snake/internal/game"
)

// FileStore keeps the high-score table in a YAML file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDocument struct {
	HighScores []game.HighScoreEntry `yaml:"highscores"`
}

// NewFileStore prepares a store at path. The file is created on first save.
func NewFileStore(path string) (*FileStore, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if path == "" {
		return nil, errors.New("storage: empty file path")
	}
	return &FileStore{path: path}, nil
}

// Path returns the file location.
func (f *FileStore) Path() string { return f.path }

// Load reads the table. A missing file returns ErrNotFound.
func (f *FileStore) Load(context.Context) ([]game.HighScoreEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", f.path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: cannot parse %s: %w", f.path, err)
	}
	return doc.HighScores, nil
}

// Save rewrites the file in full. The new content is written to a
// temporary file first and renamed over the old one.
func (f *FileStore) Save(_ context.Context, entries []game.HighScoreEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(fileDocument{HighScores: entries})
	if err != nil {
		return fmt.Errorf("storage: cannot encode highscores: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".highscores-*.yaml")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("storage: cannot replace %s: %w", f.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open.
func (f *FileStore) Close() error { return nil }
