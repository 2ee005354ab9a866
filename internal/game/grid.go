// Package game implements the snake simulation: the board, the snake body,
// food placement, collision classification, speed progression and the
// high-score ledger. It has no knowledge of terminals, files or networks;
// front ends drive it through Session and Flow and read Snapshots back.
package game

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Grid is the playable cell space [0, width) x [0, height).
// It is immutable once created.
type Grid struct {
	bounds core.Rect
}

// NewGrid creates a grid of the given size in cells.
func NewGrid(width, height int) Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("game: invalid grid size %dx%d", width, height))
	}
	return Grid{bounds: core.NewRect(0, 0, width, height)}
}

// GridFromArea derives a grid from a drawable area measured in the same
// unit as cellSize (pixels, terminal columns). Partial cells are dropped.
func GridFromArea(areaW, areaH, cellSize int) Grid {
	if cellSize <= 0 {
		panic(fmt.Sprintf("game: invalid cell size %d", cellSize))
	}
	return NewGrid(areaW/cellSize, areaH/cellSize)
}

// InBounds reports whether p lies on the grid.
func (g Grid) InBounds(p core.Position) bool {
	return g.bounds.Contains(p.X, p.Y)
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.bounds.W }

// Height returns the number of rows.
func (g Grid) Height() int { return g.bounds.H }

// Cells returns the total number of cells.
func (g Grid) Cells() int { return g.bounds.W * g.bounds.H }
