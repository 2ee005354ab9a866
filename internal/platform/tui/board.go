package tui

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
)

// Each board cell is drawn two columns wide so cells look square.
const cellCols = 2

const hudRows = 1

var (
	headGlyph  = []rune("██")
	bodyGlyph  = []rune("▓▓")
	foodGlyph  = []rune("()")
	emptyGlyph = []rune("  ")
)

// BoardSize returns the screen area needed to draw a w x h board with its
// border and HUD line.
func BoardSize(w, h int) (cols, rows int) {
	return w*cellCols + 2, h + 2 + hudRows
}

// FitGrid sizes the board in cfg to fill a screenW x screenH terminal,
// leaving room for the border, HUD and footer. The start cell is pulled
// inside the new board. ok is false when not even a 2x2 board fits.
func FitGrid(cfg config.SnakeConfig, screenW, screenH int) (fitted config.SnakeConfig, ok bool) {
	areaW := screenW - 2
	areaH := screenH - 2 - hudRows - footerRows
	if areaW < 2*cellCols || areaH < 2 {
		return cfg, false
	}
	// Rows are counted in columns so one cell is cellCols x cellCols.
	grid := game.GridFromArea(areaW, areaH*cellCols, cellCols)
	cfg.Grid.Width, cfg.Grid.Height = grid.Width(), grid.Height()
	cfg.Snake.StartX = min(cfg.Snake.StartX, grid.Width()-1)
	cfg.Snake.StartY = min(cfg.Snake.StartY, grid.Height()-1)
	return cfg, true
}

// DrawBoard draws snap centered on dst: a border, the snake, the food and
// a HUD line with score, interval and best score. It reports false when
// dst is too small, after drawing a hint instead.
func DrawBoard(dst *core.Screen, snap game.Snapshot, best int) bool {
	cols, rows := BoardSize(snap.Width, snap.Height)
	if dst.Width() < cols || dst.Height() < rows {
		msg := fmt.Sprintf("Terminal too small: need %dx%d", cols, rows)
		dst.DrawTextCentered(dst.Height()/2, msg)
		return false
	}

	ox := (dst.Width() - cols) / 2
	oy := (dst.Height() - rows) / 2

	hud := fmt.Sprintf("Score: %d  Speed: %dms  Best: %d", snap.Score, snap.IntervalMS(), max(best, snap.Score))
	dst.DrawTextColored(ox, oy, hud, core.ColorHUD)

	frame := core.NewRect(ox, oy+hudRows, cols, snap.Height+2)
	dst.DrawBox(frame, core.ColorFrame)

	cellAt := func(p core.Position) (int, int) {
		return ox + 1 + p.X*cellCols, oy + hudRows + 1 + p.Y
	}
	put := func(p core.Position, glyph []rune, c core.Color) {
		x, y := cellAt(p)
		for i, r := range glyph {
			dst.SetColored(x+i, y, r, c)
		}
	}

	for y := range snap.Height {
		for x := range snap.Width {
			put(core.Pos(x, y), emptyGlyph, core.ColorDefault)
		}
	}
	if snap.HasFood {
		put(snap.Food, foodGlyph, core.ColorFood)
	}
	for _, seg := range snap.Body {
		if seg.Pos.X < 0 || seg.Pos.X >= snap.Width || seg.Pos.Y < 0 || seg.Pos.Y >= snap.Height {
			continue // head that left the board on a wall hit
		}
		if seg.IsHead {
			put(seg.Pos, headGlyph, core.ColorHead)
		} else {
			put(seg.Pos, bodyGlyph, core.ColorBody)
		}
	}
	return true
}

// DrawBanner writes lines centered over the board area, one per row,
// starting at the vertical middle of dst.
func DrawBanner(dst *core.Screen, lines ...string) {
	y := dst.Height()/2 - len(lines)/2
	for i, line := range lines {
		padded := " " + line + " "
		x := (dst.Width() - len([]rune(padded))) / 2
		dst.DrawTextColored(x, y+i, padded, core.ColorBanner)
	}
}
