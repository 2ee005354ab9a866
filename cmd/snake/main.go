// snake is a terminal snake game.
//
// Usage:
//
//	snake play               - Play in this terminal
//	snake scores             - Show the high-score table
//	snake serve              - Start SSH play and the status server
//	snake replay <file>      - Summarize a recorded session
//	snake presets            - List difficulty presets
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.snake, ./configs)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Override the high-score store path
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is a terminal version of the classic game: steer the snake,
eat food to grow and speed up, and avoid the walls and your own tail.

Available commands:
  play     - Play in this terminal
  scores   - View the high-score table
  serve    - Start the SSH server and status page
  replay   - Summarize a recorded session
  presets  - List difficulty presets

Examples:
  snake play
  snake play --difficulty hard
  snake serve --ssh :2222 --http :8080
  snake scores`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the high-score store (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(presetsCmd)
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadConfig resolves the config file and applies the --db override.
// It returns the path that was used, or "" for the built-in defaults.
func loadConfig() (config.SnakeConfig, string, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.SnakeConfig{}, "", err
	}
	if flagDBPath != "" {
		cfg.Scores.Path = flagDBPath
		if ext := filepath.Ext(flagDBPath); ext == ".yaml" || ext == ".yml" {
			cfg.Scores.Backend = config.BackendFile
		}
	}
	return cfg, config.Locate(flagConfig), nil
}

// openScores opens the configured store and loads the shared ledger.
func openScores(ctx context.Context, cfg config.SnakeConfig, logger *log.Logger) (storage.LedgerStore, *storage.Persister, error) {
	store, err := storage.Open(cfg.Scores.Backend, cfg.Scores.Path)
	if err != nil {
		return nil, nil, err
	}
	ledger := storage.LoadLedger(ctx, store, cfg.Scores.Capacity, logger)
	return store, storage.NewPersister(store, ledger, logger), nil
}
