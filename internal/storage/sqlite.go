package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-snake/internal/game"
)

// SQLiteStore keeps the high-score table and a history of finished
// sessions in a SQLite database.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; SQLite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS highscores (
			rank INTEGER PRIMARY KEY,
			player_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			score INTEGER NOT NULL,
			length INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			ended_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_games_score ON games(score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the stored table ordered by rank.
func (s *SQLiteStore) Load(ctx context.Context) ([]game.HighScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_name, score, created_at FROM highscores ORDER BY rank`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query highscores: %w", err)
	}
	defer rows.Close()

	var entries []game.HighScoreEntry
	for rows.Next() {
		var e game.HighScoreEntry
		var createdAt string
		if err := rows.Scan(&e.PlayerName, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries, nil
}

// Save replaces the whole table in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entries []game.HighScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM highscores`); err != nil {
		return fmt.Errorf("storage: cannot clear highscores: %w", err)
	}
	for i, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO highscores (rank, player_name, score, created_at) VALUES (?, ?, ?, ?)`,
			i, e.PlayerName, e.Score, formatTime(e.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save highscore: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit highscores: %w", err)
	}
	return nil
}

// RecordGame appends a finished session to the history.
func (s *SQLiteStore) RecordGame(ctx context.Context, rec GameRecord) error {
	if rec.EndedAt.IsZero() {
		rec.EndedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (score, length, ticks, outcome, duration_ms, ended_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Score, rec.Length, int64(rec.Ticks), rec.Outcome, rec.Duration.Milliseconds(), formatTime(rec.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record game: %w", err)
	}
	return nil
}

// Stats aggregates the session history.
func (s *SQLiteStore) Stats(ctx context.Context) (GameStats, error) {
	var stats GameStats
	var lastPlayed sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(ended_at)
		 FROM games`,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return GameStats{}, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}
	return stats, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts RFC 3339 and SQLite's CURRENT_TIMESTAMP layout.
func parseTime(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
