package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // no speed-up while eating
)

// Presets lists the accepted presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset accepts a preset name, case-insensitively. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// ApplyPreset modifies the speed settings based on a difficulty preset.
// Normal keeps whatever the file says.
func ApplyPreset(cfg *SnakeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.StartMS = 500
		cfg.Speed.FloorMS = 150
	case DifficultyHard:
		cfg.Speed.StartMS = 250
		cfg.Speed.FloorMS = 60
		cfg.Speed.PenaltyMS = 3
	case DifficultyFixed:
		cfg.Speed.PenaltyMS = 0
	}
	if cfg.Speed.FloorMS > cfg.Speed.StartMS {
		cfg.Speed.FloorMS = cfg.Speed.StartMS
	}
}
