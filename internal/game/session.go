package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Phase is the lifecycle state of a Session.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseEnded         // fatal collision
	PhaseWon           // the snake filled the board, no cell left for food
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	case PhaseWon:
		return "won"
	default:
		return "unknown"
	}
}

// SessionConfig holds everything needed to start a session.
type SessionConfig struct {
	GridWidth       int
	GridHeight      int
	Start           core.Position
	StartLength     int
	StartDirection  core.Direction
	Difficulty      Difficulty
	MaxFoodAttempts int
}

// DefaultSessionConfig returns a 20x20 board with a length-3 snake at (5,5)
// moving right.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		GridWidth:       20,
		GridHeight:      20,
		Start:           core.Pos(5, 5),
		StartLength:     3,
		StartDirection:  core.DirRight,
		Difficulty:      DefaultDifficulty(),
		MaxFoodAttempts: DefaultMaxFoodAttempts,
	}
}

// Validate checks the config before a session is built from it.
func (c SessionConfig) Validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("game: invalid grid size %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.GridWidth*c.GridHeight < 2 {
		return fmt.Errorf("game: grid %dx%d has no room for food", c.GridWidth, c.GridHeight)
	}
	if c.Start.X < 0 || c.Start.X >= c.GridWidth || c.Start.Y < 0 || c.Start.Y >= c.GridHeight {
		return fmt.Errorf("game: start %v outside %dx%d grid", c.Start, c.GridWidth, c.GridHeight)
	}
	if c.StartLength < 1 {
		return fmt.Errorf("game: start length must be at least 1, got %d", c.StartLength)
	}
	if !c.StartDirection.Valid() {
		return fmt.Errorf("game: invalid start direction %d", int(c.StartDirection))
	}
	return c.Difficulty.Validate()
}

// TickResult reports what one tick did.
type TickResult struct {
	Outcome Outcome
	Head    core.Position
	Phase   Phase
	Moved   bool
}

// Session is the complete state of one game: board, snake, food, score and
// speed. It is not safe for concurrent use; a single tick loop owns it.
type Session struct {
	grid       Grid
	snake      *Snake
	food       *core.Position
	spawner    *Spawner
	difficulty Difficulty

	score    int
	interval time.Duration
	phase    Phase
	ticks    uint64
	last     Outcome
}

// NewSession starts a new game.
func NewSession(cfg SessionConfig, rng *rand.Rand) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		grid:       NewGrid(cfg.GridWidth, cfg.GridHeight),
		snake:      NewSnake(cfg.Start, cfg.StartLength, cfg.StartDirection),
		spawner:    NewSpawner(rng, cfg.MaxFoodAttempts),
		difficulty: cfg.Difficulty,
		interval:   cfg.Difficulty.Start,
		phase:      PhasePlaying,
	}

	food, err := s.spawner.Place(s.grid, s.snake)
	if err != nil {
		return nil, fmt.Errorf("game: placing first food: %w", err)
	}
	s.food = &food
	return s, nil
}

// SetDirection buffers a direction change for the next tick. Requests are
// ignored once the session is over.
func (s *Session) SetDirection(d core.Direction) bool {
	if s.phase != PhasePlaying {
		return false
	}
	return s.snake.SetPendingDirection(d)
}

// Tick advances the simulation by one step. It does nothing once the
// session has left PhasePlaying.
func (s *Session) Tick() TickResult {
	if s.phase != PhasePlaying {
		return TickResult{Outcome: s.last, Head: s.snake.Head(), Phase: s.phase}
	}

	s.ticks++
	head := s.snake.Advance()
	outcome := Classify(head, s.grid, s.food, s.snake.body)
	s.last = outcome

	switch {
	case outcome == OutcomeAteFood:
		s.snake.Grow()
		s.recordEat()
		s.respawnFood()
	case outcome.Fatal():
		s.phase = PhaseEnded
	}

	return TickResult{Outcome: outcome, Head: head, Phase: s.phase, Moved: true}
}

func (s *Session) recordEat() {
	s.score++
	s.interval = s.difficulty.NextInterval(s.interval, s.score)
}

func (s *Session) respawnFood() {
	s.food = nil
	p, err := s.spawner.Place(s.grid, s.snake)
	if errors.Is(err, ErrNoFreeCell) {
		s.phase = PhaseWon
		return
	}
	s.food = &p
}

// Score returns the number of food items eaten.
func (s *Session) Score() int { return s.score }

// TickInterval returns the delay before the next tick. Tick sources read
// it fresh before scheduling every tick.
func (s *Session) TickInterval() time.Duration { return s.interval }

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase { return s.phase }

// Playing reports whether the session still accepts ticks.
func (s *Session) Playing() bool { return s.phase == PhasePlaying }

// Grid returns the board.
func (s *Session) Grid() Grid { return s.grid }

// Food returns the food cell. ok is false while no food is placed.
func (s *Session) Food() (p core.Position, ok bool) {
	if s.food == nil {
		return core.Position{}, false
	}
	return *s.food, true
}

// Snake exposes the snake for read-only inspection.
func (s *Session) Snake() *Snake { return s.snake }
