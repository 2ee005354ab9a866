package game

import (
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Snapshot is a read-only copy of a session for renderers and status views.
type Snapshot struct {
	Tick        uint64         `json:"tick"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Body        []Segment      `json:"body"`
	Food        core.Position  `json:"food"`
	HasFood     bool           `json:"has_food"`
	Score       int            `json:"score"`
	Length      int            `json:"length"`
	Interval    time.Duration  `json:"interval_ns"`
	Phase       Phase          `json:"-"`
	PhaseName   string         `json:"phase"`
	Direction   core.Direction `json:"-"`
	LastOutcome Outcome        `json:"-"`
}

// Snapshot copies the current session state.
func (s *Session) Snapshot() Snapshot {
	food, ok := s.Food()
	return Snapshot{
		Tick:        s.ticks,
		Width:       s.grid.Width(),
		Height:      s.grid.Height(),
		Body:        s.snake.Body(),
		Food:        food,
		HasFood:     ok,
		Score:       s.score,
		Length:      s.snake.Length(),
		Interval:    s.interval,
		Phase:       s.phase,
		PhaseName:   s.phase.String(),
		Direction:   s.snake.Direction(),
		LastOutcome: s.last,
	}
}

// Head returns the head position of the captured body.
func (sn Snapshot) Head() core.Position {
	if len(sn.Body) == 0 {
		return core.Position{}
	}
	return sn.Body[len(sn.Body)-1].Pos
}

// IntervalMS returns the tick interval in whole milliseconds.
func (sn Snapshot) IntervalMS() int64 {
	return sn.Interval.Milliseconds()
}
