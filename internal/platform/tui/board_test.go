package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
)

func boardSnapshot() game.Snapshot {
	return game.Snapshot{
		Width:  4,
		Height: 3,
		Body: []game.Segment{
			{Pos: core.Pos(0, 1)},
			{Pos: core.Pos(1, 1), IsHead: true},
		},
		Food:     core.Pos(3, 2),
		HasFood:  true,
		Score:    7,
		Interval: 388_000_000,
	}
}

func TestDrawBoard(t *testing.T) {
	cols, rows := BoardSize(4, 3)
	if cols != 10 || rows != 6 {
		t.Fatalf("BoardSize() = %dx%d, expected 10x6", cols, rows)
	}
	screen := core.NewScreen(cols, rows)

	if !DrawBoard(screen, boardSnapshot(), 9) {
		t.Fatal("DrawBoard() reported a small screen")
	}

	want := []string{
		"Score: 7 ",
		"┌────────┐",
		"│        │",
		"│▓▓██    │",
		"│      ()│",
		"└────────┘",
	}
	for y, line := range want {
		if got := screen.Row(y); !strings.HasPrefix(got, line) {
			t.Errorf("row %d = %q, expected prefix %q", y, got, line)
		}
	}
	if c := screen.GetCell(3, 3); c.Color != core.ColorHead {
		t.Errorf("head color = %v", c.Color)
	}
	if c := screen.GetCell(1, 3); c.Color != core.ColorBody {
		t.Errorf("body color = %v", c.Color)
	}
}

func TestDrawBoardHUDShowsBest(t *testing.T) {
	screen := core.NewScreen(60, 10)
	DrawBoard(screen, boardSnapshot(), 9)

	var found bool
	for y := range screen.Height() {
		if strings.Contains(screen.Row(y), "Score: 7  Speed: 388ms  Best: 9") {
			found = true
		}
	}
	if !found {
		t.Errorf("HUD missing:\n%s", screen.String())
	}
}

func TestDrawBoardTooSmall(t *testing.T) {
	screen := core.NewScreen(40, 3)
	if DrawBoard(screen, boardSnapshot(), 0) {
		t.Fatal("expected DrawBoard() to refuse a 3-row screen")
	}
	if !strings.Contains(screen.String(), "Terminal too small") {
		t.Error("missing size hint")
	}
}

func TestFitGrid(t *testing.T) {
	cfg := config.DefaultSnakeConfig()

	fitted, ok := FitGrid(cfg, 20, 12)
	if !ok {
		t.Fatal("FitGrid() should fit a 20x12 terminal")
	}
	if fitted.Grid.Width != 9 || fitted.Grid.Height != 7 {
		t.Errorf("grid = %dx%d, expected 9x7", fitted.Grid.Width, fitted.Grid.Height)
	}
	if fitted.Snake.StartX != 5 || fitted.Snake.StartY != 5 {
		t.Errorf("start = (%d,%d), expected (5,5)", fitted.Snake.StartX, fitted.Snake.StartY)
	}
	if err := fitted.Validate(); err != nil {
		t.Errorf("fitted config invalid: %v", err)
	}

	small, ok := FitGrid(cfg, 14, 8)
	if !ok {
		t.Fatal("FitGrid() should fit a 14x8 terminal")
	}
	if small.Snake.StartX != small.Grid.Width-1 || small.Snake.StartY != small.Grid.Height-1 {
		t.Errorf("start (%d,%d) not pulled inside %dx%d", small.Snake.StartX, small.Snake.StartY, small.Grid.Width, small.Grid.Height)
	}

	if _, ok := FitGrid(cfg, 5, 4); ok {
		t.Error("FitGrid() must refuse a tiny terminal")
	}
}
