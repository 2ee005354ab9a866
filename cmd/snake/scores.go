package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagResetScores bool
	flagScoresTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score table",
	Long: `Display the high-score table and, for the SQLite backend, totals
over every finished game.

Examples:
  snake scores
  snake scores --tui
  snake scores --reset
  snake scores --db ./scores.yaml`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagResetScores, "reset", false, "Clear the high-score table")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse the table interactively")
}

func runScores(_ *cobra.Command, _ []string) {
	logger, err := newLogger(os.Stderr, "snake")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, persister, err := openScores(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ledger := persister.Ledger()

	if flagResetScores {
		ledger.Clear()
		if err := persister.Save(nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error resetting scores: %v\n", err)
			return
		}
		fmt.Println("High scores cleared.")
		return
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(ledger, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	fmt.Println("High Scores - Snake")
	fmt.Println()

	entries := ledger.Entries()
	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "Rank", "Name", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "----", "----", "-----", "----")

	for i, entry := range entries {
		dateStr := "-"
		if !entry.CreatedAt.IsZero() {
			dateStr = entry.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-4d  %-16s  %-6d  %s\n", i+1, entry.PlayerName, entry.Score, dateStr)
	}

	recorder, ok := store.(storage.GameRecorder)
	if !ok {
		return
	}
	stats, err := recorder.Stats(ctx)
	if err != nil {
		logger.Warn("stats unavailable", "err", err)
		return
	}
	fmt.Println()
	fmt.Printf("Games: %d  Best: %d  Average: %.1f\n", stats.GamesCount, stats.HighScore, stats.AvgScore)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("Last played: %s\n", stats.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}
