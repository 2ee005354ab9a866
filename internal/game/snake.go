package game

import (
	"github.com/vovakirdan/tui-snake/internal/core"
)

// Segment is one body unit of the snake.
type Segment struct {
	Pos    core.Position `json:"pos"`
	IsHead bool          `json:"head"`
}

// Snake is an ordered body, tail first and head last, plus a length target.
// The body may be shorter than the target; growth happens by skipping the
// tail trim on later advances.
type Snake struct {
	body       []Segment
	length     int
	direction  core.Direction
	pending    core.Direction
	hasPending bool
}

// NewSnake creates a one-segment snake at start that will grow to length.
func NewSnake(start core.Position, length int, dir core.Direction) *Snake {
	if length < 1 {
		panic("game: snake length must be at least 1")
	}
	if !dir.Valid() {
		panic("game: invalid start direction")
	}
	return &Snake{
		body:      []Segment{{Pos: start, IsHead: true}},
		length:    length,
		direction: dir,
	}
}

// SetPendingDirection buffers d for the next Advance. A request opposite to
// the current direction is ignored and false is returned. A later valid
// request before the next Advance replaces an earlier one.
func (s *Snake) SetPendingDirection(d core.Direction) bool {
	if !d.Valid() || d.IsOpposite(s.direction) {
		return false
	}
	s.pending = d
	s.hasPending = true
	return true
}

// Advance moves the snake one cell and returns the new head position.
// It applies the buffered direction, appends the new head and trims the
// tail while the body is longer than the length target.
func (s *Snake) Advance() core.Position {
	if len(s.body) == 0 {
		panic("game: advance on empty snake")
	}

	if s.hasPending {
		s.direction = s.pending
		s.hasPending = false
	}

	last := len(s.body) - 1
	next := s.body[last].Pos.Add(s.direction)
	s.body[last].IsHead = false
	s.body = append(s.body, Segment{Pos: next, IsHead: true})

	if over := len(s.body) - s.length; over > 0 {
		s.body = append(s.body[:0], s.body[over:]...)
	}
	return next
}

// Grow raises the length target by one. The effect shows on the next Advance.
func (s *Snake) Grow() {
	s.length++
}

// Head returns the head position.
func (s *Snake) Head() core.Position {
	return s.body[len(s.body)-1].Pos
}

// Body returns a copy of the segments, tail first.
func (s *Snake) Body() []Segment {
	out := make([]Segment, len(s.body))
	copy(out, s.body)
	return out
}

// Len returns the current number of segments.
func (s *Snake) Len() int { return len(s.body) }

// Length returns the length target.
func (s *Snake) Length() int { return s.length }

// Direction returns the direction applied on the last Advance.
func (s *Snake) Direction() core.Direction { return s.direction }

// Occupies reports whether any segment, head included, is at p.
func (s *Snake) Occupies(p core.Position) bool {
	for _, seg := range s.body {
		if seg.Pos == p {
			return true
		}
	}
	return false
}

// OccupiedExcludingHead returns the set of cells covered by the body
// without the head.
func (s *Snake) OccupiedExcludingHead() map[core.Position]struct{} {
	set := make(map[core.Position]struct{}, len(s.body))
	for _, seg := range s.body {
		if !seg.IsHead {
			set[seg.Pos] = struct{}{}
		}
	}
	return set
}

// occupied returns every cell covered by the snake.
func (s *Snake) occupied() map[core.Position]struct{} {
	set := make(map[core.Position]struct{}, len(s.body))
	for _, seg := range s.body {
		set[seg.Pos] = struct{}{}
	}
	return set
}
