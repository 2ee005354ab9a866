// Package core provides fundamental types and utilities shared by the
// simulation and the front ends. It contains no external dependencies
// (especially no Bubble Tea) to keep game logic pure and testable.
package core

import "fmt"

// Position is a cell coordinate on the board. Units are cells, not pixels.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns p translated by the unit vector of d.
func (p Position) Add(d Direction) Position {
	dx, dy := d.Unit()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four movement directions.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Unit returns the cell delta for one step in this direction.
// Y grows downwards, matching screen coordinates.
func (d Direction) Unit() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		panic(fmt.Sprintf("core: invalid direction %d", int(d)))
	}
}

// Opposite returns the direction that reverses both axes.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// IsOpposite reports whether d and other point in reverse directions.
func (d Direction) IsOpposite(other Direction) bool {
	return d.Opposite() == other
}

// Valid reports whether d is one of the four defined directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction name to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("core: unknown direction %q", s)
}

// Rect represents an axis-aligned rectangle in cell units.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}
