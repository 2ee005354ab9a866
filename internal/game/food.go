package game

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// ErrNoFreeCell is returned when every cell of the grid is covered by the snake.
var ErrNoFreeCell = errors.New("game: no free cell for food")

// DefaultMaxFoodAttempts is how many random draws Place makes before it
// falls back to enumerating free cells.
const DefaultMaxFoodAttempts = 32

// denseThreshold is the occupied fraction above which random draws are
// skipped and free cells are enumerated directly.
const denseThreshold = 0.5

// Spawner picks the cell for the next food item.
type Spawner struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng *rand.Rand, maxAttempts int) *Spawner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxFoodAttempts
	}
	return &Spawner{rng: rng, maxAttempts: maxAttempts}
}

// Place returns a uniformly random cell of grid not covered by snake.
// It returns ErrNoFreeCell when the snake covers the whole grid.
func (sp *Spawner) Place(grid Grid, snake *Snake) (core.Position, error) {
	occupied := snake.occupied()

	taken := 0
	for p := range occupied {
		if grid.InBounds(p) {
			taken++
		}
	}
	free := grid.Cells() - taken
	if free <= 0 {
		return core.Position{}, ErrNoFreeCell
	}

	if float64(taken)/float64(grid.Cells()) <= denseThreshold {
		for range sp.maxAttempts {
			p := core.Pos(sp.rng.Intn(grid.Width()), sp.rng.Intn(grid.Height()))
			if _, hit := occupied[p]; !hit {
				return p, nil
			}
		}
	}

	cells := make([]core.Position, 0, free)
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			p := core.Pos(x, y)
			if _, hit := occupied[p]; !hit {
				cells = append(cells, p)
			}
		}
	}
	return cells[sp.rng.Intn(len(cells))], nil
}
