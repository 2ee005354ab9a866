package game

import "github.com/vovakirdan/tui-snake/internal/core"

// Outcome classifies the snake state after an advance.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAteFood
	OutcomeHitWall
	OutcomeHitSelf
)

// Fatal reports whether the outcome ends the session.
func (o Outcome) Fatal() bool {
	return o == OutcomeHitWall || o == OutcomeHitSelf
}

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeAteFood:
		return "ate_food"
	case OutcomeHitWall:
		return "hit_wall"
	case OutcomeHitSelf:
		return "hit_self"
	default:
		return "unknown"
	}
}

// Classify evaluates a new head position. The first matching rule wins:
// food, then wall, then any non-head segment of body. food may be nil.
func Classify(head core.Position, grid Grid, food *core.Position, body []Segment) Outcome {
	if food != nil && head == *food {
		return OutcomeAteFood
	}
	if !grid.InBounds(head) {
		return OutcomeHitWall
	}
	for _, seg := range body {
		if !seg.IsHead && seg.Pos == head {
			return OutcomeHitSelf
		}
	}
	return OutcomeNone
}
