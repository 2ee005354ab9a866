package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/platform/web"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/replay"
)

var (
	flagDifficulty string
	flagRecordDir  string
	flagStatusAddr string
	flagNoWelcome  bool
	flagFit        bool
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in the current terminal.

Controls:
  Arrows/WASD/HJKL - Steer
  P                - Pause
  R                - Restart
  Ctrl+S           - Screenshot (text and PNG)
  Tab              - High scores
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slow start, gentle speed-up
  normal - Values from the config file
  hard   - Fast start, steep speed-up
  fixed  - No speed-up while eating

The config file is watched while playing; edits apply to the next game.

Examples:
  snake play
  snake play --difficulty easy
  snake play --fit
  snake play --record ./replays
  snake play --status-addr :8080`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagRecordDir, "record", "", "Directory for parquet replays of every game")
	playCmd.Flags().StringVar(&flagStatusAddr, "status-addr", "", "Serve the status page on this address while playing")
	playCmd.Flags().BoolVar(&flagNoWelcome, "no-welcome", false, "Skip the welcome screen")
	playCmd.Flags().BoolVar(&flagFit, "fit", false, "Size the board to the terminal instead of the config grid")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.snake/snake.log", "Log file (the game owns the terminal)")
}

func runPlay(cmd *cobra.Command, _ []string) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logFile, err := openLogFile(flagLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "snake")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.Info("config loaded", "path", cfgPath, "difficulty", preset)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Get terminal size early so the first frame fits
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.Options{
		Config:      cfg,
		Logger:      logger,
		Registry:    registry.New(),
		SkipWelcome: flagNoWelcome,
		Difficulty:  preset,
		Fit:         flagFit,
		Runtime: core.RuntimeConfig{
			ScreenW: width,
			ScreenH: height,
			Seed:    flagSeed,
		},
	}

	// The game still works without a store; scores just are not kept.
	store, persister, err := openScores(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores: %v\n", err)
		logger.Warn("playing without saved scores", "err", err)
	} else {
		opts.Persister = persister
		opts.Ledger = persister.Ledger()
	}

	if flagRecordDir != "" {
		opts.Recorder = replay.NewRecorder(flagRecordDir)
	}

	if flagStatusAddr != "" {
		webCfg := web.DefaultConfig()
		webCfg.Address = flagStatusAddr
		srv := web.New(webCfg, opts.Registry, persister, logger.WithPrefix("web"))
		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				logger.Error("status server stopped", "err", err)
			}
		}()
	}

	runErr := tui.Run(ctx, opts, cfgPath)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// openLogFile opens path for appending, creating its directory.
func openLogFile(path string) (*os.File, error) {
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

