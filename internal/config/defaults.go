package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the built-in configuration: a 20x20 board, a
// length-3 snake at (5,5) heading right and a 400ms start interval that
// drops by 2ms per point of score on every eat, down to 100ms.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: GridConfig{
			Width:    20,
			Height:   20,
			CellSize: 20,
		},
		Snake: SnakeStart{
			StartX:      5,
			StartY:      5,
			StartLength: 3,
			Direction:   "right",
		},
		Speed: SpeedConfig{
			StartMS:   400,
			FloorMS:   100,
			PenaltyMS: 2,
		},
		Food: FoodConfig{
			MaxAttempts: 32,
		},
		Scores: ScoresConfig{
			Backend:  BackendSQLite,
			Path:     "~/.snake/scores.db",
			Capacity: 5,
		},
	}
}
