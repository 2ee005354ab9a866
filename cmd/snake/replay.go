package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/render"
	"github.com/vovakirdan/tui-snake/internal/replay"
)

var (
	flagReplayFrame int
	flagReplayPNG   string
)

var replayCmd = &cobra.Command{
	Use:   "replay <file.parquet>",
	Short: "Summarize a recorded session",
	Long: `Read a replay written by 'snake play --record' and print its summary
followed by one board. By default the final board is shown.

Examples:
  snake replay ./replays/snake_ab12_1700000000.parquet
  snake replay game.parquet --frame 10
  snake replay game.parquet --png final.png`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&flagReplayFrame, "frame", -1, "Frame index to show (-1 = last)")
	replayCmd.Flags().StringVar(&flagReplayPNG, "png", "", "Also render the shown board to this PNG file")
}

func runReplay(_ *cobra.Command, args []string) {
	frames, err := replay.ReadParquet(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading replay: %v\n", err)
		os.Exit(1)
	}
	if len(frames) == 0 {
		fmt.Println("Replay has no frames.")
		return
	}

	sum := replay.Summarize(frames)
	fmt.Printf("Session:   %s\n", sum.SessionID)
	fmt.Printf("Frames:    %d (%d ticks)\n", sum.Frames, sum.Ticks)
	fmt.Printf("Score:     %d\n", sum.FinalScore)
	fmt.Printf("Length:    %d\n", sum.FinalLength)
	fmt.Printf("Result:    %s (%s)\n", sum.Phase, sum.Outcome)
	fmt.Printf("Top speed: %s per tick\n", sum.MinInterval)
	fmt.Println()

	idx := flagReplayFrame
	if idx < 0 || idx >= len(frames) {
		idx = len(frames) - 1
	}
	snap := frames[idx].Snapshot()

	cols, rows := tui.BoardSize(snap.Width, snap.Height)
	screen := core.NewScreen(cols, rows)
	tui.DrawBoard(screen, snap, sum.FinalScore)
	fmt.Printf("Frame %d:\n", idx)
	fmt.Println(screen.String())

	if flagReplayPNG != "" {
		if err := render.SavePNG(flagReplayPNG, snap, render.Options{HUD: true}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PNG: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Board saved to %s\n", flagReplayPNG)
	}
}
