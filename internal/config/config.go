// Package config provides YAML-based configuration loading, difficulty
// presets and hot reload for the snake game.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
)

// SnakeConfig contains all configuration for the snake game.
type SnakeConfig struct {
	Grid   GridConfig   `yaml:"grid"`
	Snake  SnakeStart   `yaml:"snake"`
	Speed  SpeedConfig  `yaml:"speed"`
	Food   FoodConfig   `yaml:"food"`
	Scores ScoresConfig `yaml:"scores"`
}

// GridConfig defines the board size.
type GridConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"` // Pixels per cell in PNG renders
}

// SnakeStart defines where and how the snake starts.
type SnakeStart struct {
	StartX      int    `yaml:"start_x"`
	StartY      int    `yaml:"start_y"`
	StartLength int    `yaml:"start_length"`
	Direction   string `yaml:"direction"`
}

// SpeedConfig defines the tick interval progression, in milliseconds.
type SpeedConfig struct {
	StartMS   int `yaml:"start_ms"`
	FloorMS   int `yaml:"floor_ms"`
	PenaltyMS int `yaml:"penalty_ms"` // Multiplied by the score on every eat
}

// FoodConfig tunes food placement.
type FoodConfig struct {
	MaxAttempts int `yaml:"max_attempts"` // Random draws before scanning free cells
}

// ScoresConfig selects the high-score backend.
type ScoresConfig struct {
	Backend  string `yaml:"backend"` // "sqlite" or "file"
	Path     string `yaml:"path"`
	Capacity int    `yaml:"capacity"`
}

// Backends accepted in ScoresConfig.Backend.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Validate reports the first problem that would keep a session from starting.
func (c SnakeConfig) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("config: grid must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("config: cell_size must be positive, got %d", c.Grid.CellSize)
	}
	if _, err := core.ParseDirection(c.Snake.Direction); err != nil {
		return fmt.Errorf("config: snake.direction: %w", err)
	}
	switch strings.ToLower(c.Scores.Backend) {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("config: unknown scores backend %q", c.Scores.Backend)
	}
	if c.Scores.Capacity <= 0 {
		return fmt.Errorf("config: scores.capacity must be positive, got %d", c.Scores.Capacity)
	}
	if c.Food.MaxAttempts < 0 {
		return fmt.Errorf("config: food.max_attempts must not be negative, got %d", c.Food.MaxAttempts)
	}
	if err := c.SessionConfig().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SessionConfig converts the file representation into game parameters.
// An unparsable direction falls back to right; Validate reports it.
func (c SnakeConfig) SessionConfig() game.SessionConfig {
	dir, err := core.ParseDirection(c.Snake.Direction)
	if err != nil {
		dir = core.DirRight
	}
	return game.SessionConfig{
		GridWidth:      c.Grid.Width,
		GridHeight:     c.Grid.Height,
		Start:          core.Pos(c.Snake.StartX, c.Snake.StartY),
		StartLength:    c.Snake.StartLength,
		StartDirection: dir,
		Difficulty: game.Difficulty{
			Start:   ms(c.Speed.StartMS),
			Floor:   ms(c.Speed.FloorMS),
			Penalty: ms(c.Speed.PenaltyMS),
		},
		MaxFoodAttempts: c.Food.MaxAttempts,
	}
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
