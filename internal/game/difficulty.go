package game

import (
	"fmt"
	"time"
)

// Difficulty derives the tick interval from the score.
type Difficulty struct {
	Start   time.Duration // Interval at the start of a session
	Floor   time.Duration // Interval never drops below this
	Penalty time.Duration // Subtracted per point of total score on each eat
}

// DefaultDifficulty returns 400ms start, 100ms floor, 2ms per point.
func DefaultDifficulty() Difficulty {
	return Difficulty{
		Start:   400 * time.Millisecond,
		Floor:   100 * time.Millisecond,
		Penalty: 2 * time.Millisecond,
	}
}

// NextInterval returns the interval after a food item was eaten and the
// score became score. The decrement grows with the total score.
func (d Difficulty) NextInterval(current time.Duration, score int) time.Duration {
	next := current - d.Penalty*time.Duration(score)
	return max(d.Floor, next)
}

// Validate checks that the values describe a usable progression.
func (d Difficulty) Validate() error {
	if d.Floor <= 0 {
		return fmt.Errorf("game: floor interval must be positive, got %s", d.Floor)
	}
	if d.Start < d.Floor {
		return fmt.Errorf("game: start interval %s is below floor %s", d.Start, d.Floor)
	}
	if d.Penalty < 0 {
		return fmt.Errorf("game: penalty must not be negative, got %s", d.Penalty)
	}
	return nil
}
