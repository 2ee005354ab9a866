// Package render draws session snapshots as PNG images: a checkerboard
// board, a red body with a violet head and yellow food.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/tui-snake/internal/game"
)

// DefaultCellSize is the edge length of one board cell in pixels.
const DefaultCellSize = 20

// Palette colors.
var (
	ColorLight = color.RGBA{100, 149, 237, 255} // cornflower blue
	ColorDark  = color.RGBA{0, 128, 0, 255}     // green
	ColorBody  = color.RGBA{220, 20, 20, 255}
	ColorHead  = color.RGBA{238, 130, 238, 255} // violet
	ColorFood  = color.RGBA{255, 215, 0, 255}
)

// Options tune an image.
type Options struct {
	CellSize int  // Pixels per cell; DefaultCellSize if zero
	HUD      bool // Draw score and interval below the board
}

const hudHeight = 18

// Image draws the snapshot.
func Image(snap game.Snapshot, opts Options) image.Image {
	return draw(snap, opts).Image()
}

// PNG encodes the snapshot to w.
func PNG(w io.Writer, snap game.Snapshot, opts Options) error {
	if err := draw(snap, opts).EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// SavePNG writes the snapshot to path, creating parent directories.
func SavePNG(path string, snap game.Snapshot, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("render: create dir: %w", err)
	}
	if err := draw(snap, opts).SavePNG(path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

// Size returns the pixel dimensions of the image for snap.
func Size(snap game.Snapshot, opts Options) (w, h int) {
	cell := cellSize(opts)
	w, h = max(snap.Width, 1)*cell, max(snap.Height, 1)*cell
	if opts.HUD {
		h += hudHeight
	}
	return w, h
}

func cellSize(opts Options) int {
	if opts.CellSize <= 0 {
		return DefaultCellSize
	}
	return opts.CellSize
}

func draw(snap game.Snapshot, opts Options) *gg.Context {
	cell := float64(cellSize(opts))
	w, h := Size(snap, opts)
	dc := gg.NewContext(w, h)

	dc.SetRGB(0, 0, 0)
	dc.Clear()

	for y := range snap.Height {
		for x := range snap.Width {
			if (x+y)%2 == 0 {
				dc.SetColor(ColorLight)
			} else {
				dc.SetColor(ColorDark)
			}
			dc.DrawRectangle(float64(x)*cell, float64(y)*cell, cell, cell)
			dc.Fill()
		}
	}

	if snap.HasFood {
		dc.SetColor(ColorFood)
		dc.DrawEllipse(
			(float64(snap.Food.X)+0.5)*cell,
			(float64(snap.Food.Y)+0.5)*cell,
			cell*0.4, cell*0.4,
		)
		dc.Fill()
	}

	for _, seg := range snap.Body {
		if seg.IsHead {
			dc.SetColor(ColorHead)
		} else {
			dc.SetColor(ColorBody)
		}
		dc.DrawRectangle(float64(seg.Pos.X)*cell+1, float64(seg.Pos.Y)*cell+1, cell-2, cell-2)
		dc.Fill()
	}

	if snap.Phase != game.PhasePlaying {
		boardH := float64(snap.Height) * cell
		dc.SetRGBA(0, 0, 0, 0.6)
		dc.DrawRectangle(0, 0, float64(w), boardH)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		title := "GAME OVER"
		if snap.Phase == game.PhaseWon {
			title = "BOARD CLEARED"
		}
		dc.DrawStringAnchored(title, float64(w)/2, boardH/2, 0.5, 0.5)
	}

	if opts.HUD {
		dc.SetRGB(1, 1, 1)
		hud := fmt.Sprintf("Score: %d  Interval: %dms", snap.Score, snap.IntervalMS())
		dc.DrawStringAnchored(hud, 4, float64(h)-hudHeight/2, 0, 0.5)
	}

	return dc
}
