package render

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
)

func testSnapshot() game.Snapshot {
	return game.Snapshot{
		Width:  6,
		Height: 4,
		Body: []game.Segment{
			{Pos: core.Pos(1, 1)},
			{Pos: core.Pos(2, 1)},
			{Pos: core.Pos(3, 1), IsHead: true},
		},
		Food:     core.Pos(5, 3),
		HasFood:  true,
		Score:    2,
		Interval: 394_000_000,
		Phase:    game.PhasePlaying,
	}
}

func sameColor(c color.Color, want color.RGBA) bool {
	r, g, b, _ := c.RGBA()
	wr, wg, wb, _ := want.RGBA()
	return r == wr && g == wg && b == wb
}

func center(cell, x, y int) (int, int) {
	return x*cell + cell/2, y*cell + cell/2
}

func TestImageColors(t *testing.T) {
	img := Image(testSnapshot(), Options{CellSize: 10})

	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 40 {
		t.Fatalf("bounds = %v, expected 60x40", b)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"light square", 0, 0, ColorLight},
		{"dark square", 1, 0, ColorDark},
		{"body", 1, 1, ColorBody},
		{"head", 3, 1, ColorHead},
		{"food", 5, 3, ColorFood},
	}
	for _, tt := range tests {
		px, py := center(10, tt.x, tt.y)
		if got := img.At(px, py); !sameColor(got, tt.want) {
			t.Errorf("%s at (%d,%d) = %v, expected %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHUDAddsHeight(t *testing.T) {
	w, h := Size(testSnapshot(), Options{HUD: true})
	if w != 6*DefaultCellSize || h != 4*DefaultCellSize+hudHeight {
		t.Errorf("Size() = %dx%d", w, h)
	}
}

func TestPNGDecodes(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, testSnapshot(), Options{HUD: true}); err != nil {
		t.Fatalf("PNG() failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dy() != 4*DefaultCellSize+hudHeight {
		t.Errorf("height = %d", img.Bounds().Dy())
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "board.png")
	snap := testSnapshot()
	snap.Phase = game.PhaseEnded
	if err := SavePNG(path, snap, Options{}); err != nil {
		t.Fatalf("SavePNG() failed: %v", err)
	}
}
