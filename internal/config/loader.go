package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search directories.
const FileName = "snake.yaml"

// Load loads the snake configuration.
// Search order: customPath -> ~/.snake/snake.yaml -> ./configs/snake.yaml -> embedded default
//
// Files are merged over the defaults, so they may set only some keys. A
// broken custom path is an error; broken files in the search directories
// are skipped.
func Load(customPath string) (SnakeConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return SnakeConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return SnakeConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range searchPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultSnakeYAML)
	if err != nil {
		return DefaultSnakeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Locate returns the file Load would read, or "" when only the embedded
// default is available. Used to decide what to watch for changes.
func Locate(customPath string) string {
	if customPath != "" {
		return customPath
	}
	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (SnakeConfig, error) {
	cfg := DefaultSnakeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SnakeConfig{}, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return SnakeConfig{}, err
	}
	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get home dir: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func searchPaths() []string {
	var paths []string
	if p := userConfigPath(FileName); p != "" {
		paths = append(paths, p)
	}
	return append(paths, filepath.Join("configs", FileName))
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", filename)
}
