package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/game"
)

func testEntries() []game.HighScoreEntry {
	at := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	return []game.HighScoreEntry{
		{PlayerName: "ann", Score: 30, CreatedAt: at},
		{PlayerName: "bob", Score: 20, CreatedAt: at.Add(time.Minute)},
		{PlayerName: "cat", Score: 20},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// backends returns a fresh instance of every store.
func backends(t *testing.T) map[string]LedgerStore {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := OpenSQLite(filepath.Join(dir, "scores.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	file, err := NewFileStore(filepath.Join(dir, "nested", "scores.yaml"))
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	return map[string]LedgerStore{"sqlite": sqlite, "file": file}
}

func assertEntries(t *testing.T, got, want []game.HighScoreEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i].PlayerName != want[i].PlayerName || got[i].Score != want[i].Score {
			t.Errorf("entry %d = %+v, expected %+v", i, got[i], want[i])
		}
		if !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Errorf("entry %d created_at = %v, expected %v", i, got[i].CreatedAt, want[i].CreatedAt)
		}
	}
}

func TestStoreEmptyLoad(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Load(context.Background()); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load() error = %v, expected ErrNotFound", err)
			}
		})
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save(ctx, testEntries()); err != nil {
				t.Fatalf("Save() failed: %v", err)
			}
			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			assertEntries(t, got, testEntries())
		})
	}
}

func TestStoreSaveRewritesInFull(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save(ctx, testEntries()); err != nil {
				t.Fatal(err)
			}
			smaller := testEntries()[:1]
			if err := store.Save(ctx, smaller); err != nil {
				t.Fatal(err)
			}
			got, err := store.Load(ctx)
			if err != nil {
				t.Fatal(err)
			}
			assertEntries(t, got, smaller)
		})
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("sqlite", filepath.Join(dir, "a.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	s.Close()
	if _, err := os.Stat(filepath.Join(dir, "a.db")); err != nil {
		t.Errorf("database file was not created: %v", err)
	}

	if _, err := Open("file", filepath.Join(dir, "b.yaml")); err != nil {
		t.Errorf("Open(file) failed: %v", err)
	}
	if _, err := Open("redis", "x"); err == nil {
		t.Error("unknown backend must fail")
	}
}

func TestLoadLedgerDegradesOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.yaml")
	if err := os.WriteFile(path, []byte("highscores: [this is: not valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	ledger := LoadLedger(context.Background(), store, 5, quietLogger())
	if ledger.Len() != 0 {
		t.Errorf("corrupt file should load as empty, got %d entries", ledger.Len())
	}
}

func TestLoadLedgerSortsAndCaps(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "scores.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	unsorted := []game.HighScoreEntry{
		{PlayerName: "low", Score: 1},
		{PlayerName: "high", Score: 9},
		{PlayerName: "mid", Score: 5},
	}
	if err := store.Save(context.Background(), unsorted); err != nil {
		t.Fatal(err)
	}

	ledger := LoadLedger(context.Background(), store, 2, quietLogger())
	got := ledger.Entries()
	if len(got) != 2 || got[0].PlayerName != "high" || got[1].PlayerName != "mid" {
		t.Errorf("entries = %+v", got)
	}
}

func TestPersisterWritesCurrentLedger(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "scores.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	ledger := game.NewLedger(5)
	p := NewPersister(store, ledger, quietLogger())

	stale := []game.HighScoreEntry{{PlayerName: "old", Score: 1}}
	ledger.Insert(game.HighScoreEntry{PlayerName: "new", Score: 7})
	if err := p.Save(stale); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].PlayerName != "new" {
		t.Errorf("saved %+v, expected the live ledger", got)
	}
}

func TestSQLiteGameStats(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	last := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	records := []GameRecord{
		{Score: 4, Length: 7, Ticks: 90, Outcome: "hit_wall", EndedAt: last.Add(-time.Hour)},
		{Score: 10, Length: 13, Ticks: 300, Outcome: "hit_self", EndedAt: last},
	}
	for _, rec := range records {
		if err := store.RecordGame(ctx, rec); err != nil {
			t.Fatalf("RecordGame() failed: %v", err)
		}
	}

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 10 || stats.TotalScore != 14 || stats.AvgScore != 7 {
		t.Errorf("stats = %+v", stats)
	}
	if !stats.LastPlayed.Equal(last) {
		t.Errorf("last played = %v, expected %v", stats.LastPlayed, last)
	}
}

func TestPersisterRecordSkipsFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "scores.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	p := NewPersister(store, game.NewLedger(5), quietLogger())
	p.Record(GameRecord{Score: 3})

	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Error("recording must not touch the score file")
	}
}
