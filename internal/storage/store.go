// Package storage persists the high-score table. Two backends exist: a
// SQLite database using the pure-Go modernc.org/sqlite driver, and a YAML
// file that is rewritten in full on every save.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/game"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("storage: no saved high scores")

// LedgerStore loads and saves the complete high-score table.
type LedgerStore interface {
	Load(ctx context.Context) ([]game.HighScoreEntry, error)
	Save(ctx context.Context, entries []game.HighScoreEntry) error
	Close() error
}

// GameRecord describes one finished session.
type GameRecord struct {
	Score    int
	Length   int
	Ticks    uint64
	Outcome  string
	Duration time.Duration
	EndedAt  time.Time
}

// GameStats contains aggregated statistics over finished sessions.
type GameStats struct {
	GamesCount int       `json:"games"`
	HighScore  int       `json:"high_score"`
	AvgScore   float64   `json:"avg_score"`
	TotalScore int64     `json:"total_score"`
	LastPlayed time.Time `json:"last_played,omitzero"`
}

// GameRecorder is implemented by stores that keep a history of sessions.
type GameRecorder interface {
	RecordGame(ctx context.Context, rec GameRecord) error
	Stats(ctx context.Context) (GameStats, error)
}

// Open returns the store for the named backend ("sqlite" or "file").
func Open(backend, path string) (LedgerStore, error) {
	switch strings.ToLower(backend) {
	case "", "sqlite":
		return OpenSQLite(path)
	case "file", "yaml":
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}

// LoadLedger builds a ledger from the store. Missing or unreadable data
// yields an empty ledger; the problem is logged and play continues.
func LoadLedger(ctx context.Context, store LedgerStore, capacity int, logger *log.Logger) *game.Ledger {
	ledger := game.NewLedger(capacity)
	entries, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Debug("no saved high scores")
	case err != nil:
		logger.Warn("high scores unreadable, starting empty", "err", err)
	default:
		ledger.Replace(entries)
		logger.Debug("high scores loaded", "entries", ledger.Len())
	}
	return ledger
}

// Persister writes a shared ledger back to its store. Saves are
// serialized and always write the ledger's current contents, so
// concurrent sessions cannot overwrite a newer table with an older one.
type Persister struct {
	mu     sync.Mutex
	store  LedgerStore
	ledger *game.Ledger
	logger *log.Logger
}

// NewPersister ties ledger to store.
func NewPersister(store LedgerStore, ledger *game.Ledger, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Persister{store: store, ledger: ledger, logger: logger}
}

// Save writes the current ledger. It satisfies game.LedgerSaver.
func (p *Persister) Save([]game.HighScoreEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.store.Save(ctx, p.ledger.Entries()); err != nil {
		p.logger.Error("failed to save high scores", "err", err)
		return err
	}
	return nil
}

// Record stores a finished session when the backend keeps history.
func (p *Persister) Record(rec GameRecord) {
	recorder, ok := p.store.(GameRecorder)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := recorder.RecordGame(ctx, rec); err != nil {
		p.logger.Warn("failed to record game", "err", err)
	}
}

// Ledger returns the shared ledger.
func (p *Persister) Ledger() *game.Ledger { return p.ledger }

// Store returns the underlying store.
func (p *Persister) Store() LedgerStore { return p.store }
