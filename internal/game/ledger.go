package game

import (
	"cmp"
	"slices"
	"sort"
	"sync"
	"time"
)

// DefaultLedgerCapacity is the number of entries kept on the high-score table.
const DefaultLedgerCapacity = 5

// HighScoreEntry is one row of the high-score table.
type HighScoreEntry struct {
	PlayerName string    `json:"player_name" yaml:"player_name"`
	Score      int       `json:"score" yaml:"score"`
	CreatedAt  time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

// Ledger is the high-score table: descending by score, capped at a fixed
// capacity. It is safe for concurrent use; each mutation is applied as a
// single update.
type Ledger struct {
	mu       sync.RWMutex
	entries  []HighScoreEntry
	capacity int
}

// NewLedger creates an empty ledger. A non-positive capacity selects the default.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultLedgerCapacity
	}
	return &Ledger{capacity: capacity}
}

// Qualifies reports whether a finished session with score earns a place.
// A full table requires beating its lowest score strictly.
func (l *Ledger) Qualifies(score int) bool {
	if score <= 0 {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) < l.capacity {
		return true
	}
	return score > l.entries[len(l.entries)-1].Score
}

// Insert places e after every entry with an equal or higher score and
// drops overflow from the bottom. It returns the zero-based rank of e, or
// -1 if e fell off the table.
func (l *Ledger) Insert(e HighScoreEntry) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Score < e.Score
	})
	l.entries = slices.Insert(l.entries, i, e)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	if i >= l.capacity {
		return -1
	}
	return i
}

// Replace swaps the table contents, e.g. after loading from storage.
// Entries without a positive score are dropped; the rest are re-sorted
// (stable) and truncated to capacity.
func (l *Ledger) Replace(entries []HighScoreEntry) {
	sorted := slices.DeleteFunc(slices.Clone(entries), func(e HighScoreEntry) bool {
		return e.Score <= 0
	})
	slices.SortStableFunc(sorted, func(a, b HighScoreEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(sorted) > l.capacity {
		sorted = sorted[:l.capacity]
	}

	l.mu.Lock()
	l.entries = sorted
	l.mu.Unlock()
}

// Clear removes all entries.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// Entries returns a copy of the table, best first.
func (l *Ledger) Entries() []HighScoreEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Min returns the lowest score on the table. ok is false when it is empty.
func (l *Ledger) Min() (score int, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return 0, false
	}
	return l.entries[len(l.entries)-1].Score, true
}

// Best returns the highest score on the table, or 0.
func (l *Ledger) Best() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return 0
	}
	return l.entries[0].Score
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Cap returns the capacity.
func (l *Ledger) Cap() int {
	return l.capacity
}
