package game

import (
	"errors"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// ErrNotAwaitingName is returned by SubmitName outside the name entry stage.
var ErrNotAwaitingName = errors.New("game: not awaiting a high-score name")

// ErrNoLongerQualifies is returned by SubmitName when other sessions sharing
// the ledger pushed the score off the table while the name was entered.
var ErrNoLongerQualifies = errors.New("game: score no longer makes the table")

// MaxNameLength caps player names on the high-score table, in runes.
const MaxNameLength = 16

// DefaultPlayerName is used when a blank name is submitted.
const DefaultPlayerName = "anonymous"

// Stage is where the player is between sessions.
type Stage int

const (
	StagePlaying      Stage = iota
	StageAwaitingName       // session over with a qualifying score
	StageGameOver           // session over, score did not qualify
)

func (s Stage) String() string {
	switch s {
	case StagePlaying:
		return "playing"
	case StageAwaitingName:
		return "awaiting_name"
	case StageGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// LedgerSaver persists the ledger after it changed.
type LedgerSaver func(entries []HighScoreEntry) error

// Flow runs consecutive sessions against a shared ledger:
//
//	Playing -> (fatal) -> AwaitingName -> (name) -> Playing
//	Playing -> (fatal) -> GameOver -> (restart) -> Playing
type Flow struct {
	cfg        SessionConfig
	rng        *rand.Rand
	ledger     *Ledger
	save       LedgerSaver
	now        func() time.Time
	session    *Session
	stage      Stage
	generation uint64
}

// NewFlow starts the first session.
func NewFlow(cfg SessionConfig, ledger *Ledger, rng *rand.Rand) (*Flow, error) {
	f := &Flow{
		cfg:    cfg,
		rng:    rng,
		ledger: ledger,
		now:    time.Now,
	}
	if err := f.Restart(); err != nil {
		return nil, err
	}
	return f, nil
}

// OnLedgerChange registers the function called after a name is inserted.
func (f *Flow) OnLedgerChange(save LedgerSaver) {
	f.save = save
}

// SetConfig replaces the session config. It takes effect on the next Restart.
func (f *Flow) SetConfig(cfg SessionConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.cfg = cfg
	return nil
}

// Config returns the config used for new sessions.
func (f *Flow) Config() SessionConfig { return f.cfg }

// Restart discards the current session and starts a new one. It is allowed
// in every stage, including mid-game.
func (f *Flow) Restart() error {
	s, err := NewSession(f.cfg, f.rng)
	if err != nil {
		return err
	}
	f.session = s
	f.stage = StagePlaying
	f.generation++
	return nil
}

// SetDirection forwards a direction request to the running session.
func (f *Flow) SetDirection(d core.Direction) bool {
	if f.stage != StagePlaying {
		return false
	}
	return f.session.SetDirection(d)
}

// Tick advances the running session and moves to the next stage when it ends.
func (f *Flow) Tick() TickResult {
	if f.stage != StagePlaying {
		return TickResult{Outcome: f.session.last, Head: f.session.snake.Head(), Phase: f.session.phase}
	}
	res := f.session.Tick()
	if res.Phase != PhasePlaying {
		if f.ledger.Qualifies(f.session.Score()) {
			f.stage = StageAwaitingName
		} else {
			f.stage = StageGameOver
		}
	}
	return res
}

// SubmitName records the finished session on the ledger and starts a new
// session. It returns the zero-based rank. A save error is returned after
// the new session has started; the in-memory ledger keeps the entry. If the
// entry fell off the table, nothing is saved and ErrNoLongerQualifies is
// returned with rank -1.
func (f *Flow) SubmitName(name string) (int, error) {
	if f.stage != StageAwaitingName {
		return -1, ErrNotAwaitingName
	}

	rank := f.ledger.Insert(HighScoreEntry{
		PlayerName: NormalizeName(name),
		Score:      f.session.Score(),
		CreatedAt:  f.now(),
	})
	if rank < 0 {
		if err := f.Restart(); err != nil {
			return -1, err
		}
		return -1, ErrNoLongerQualifies
	}

	var saveErr error
	if f.save != nil {
		saveErr = f.save(f.ledger.Entries())
	}
	if err := f.Restart(); err != nil {
		return rank, err
	}
	return rank, saveErr
}

// Session returns the current session.
func (f *Flow) Session() *Session { return f.session }

// Ledger returns the shared ledger.
func (f *Flow) Ledger() *Ledger { return f.ledger }

// Stage returns the current stage.
func (f *Flow) Stage() Stage { return f.stage }

// Generation increments on every Restart. Tick sources tag scheduled ticks
// with it so that ticks scheduled for a replaced session are dropped.
func (f *Flow) Generation() uint64 { return f.generation }

// NormalizeName trims whitespace, caps the length and substitutes
// DefaultPlayerName for blank input.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPlayerName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}
