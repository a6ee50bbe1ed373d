// Package core provides fundamental types and utilities for the bomber
// platform. It contains no external dependencies (especially no Bubble Tea)
// to keep game logic pure and testable.
package core

import "math"

// Vec2 is a position in continuous tile coordinates. Players and bombs move
// in fractions of a tile; the integer part selects the tile they occupy.
type Vec2 struct {
	X, Y float64
}

// V creates a Vec2 from the given coordinates.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the component-wise sum of two vectors.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Tile returns the integer tile coordinates the vector falls into.
func (v Vec2) Tile() Tile {
	return Tile{X: int(v.X), Y: int(v.Y)}
}

// Frac returns the fractional part of each component, in [0, 1).
func (v Vec2) Frac() Vec2 {
	return Vec2{X: v.X - math.Floor(v.X), Y: v.Y - math.Floor(v.Y)}
}

// Tile is an integer cell coordinate on the playing field.
type Tile struct {
	X, Y int
}

// T creates a Tile from the given coordinates.
func T(x, y int) Tile {
	return Tile{X: x, Y: y}
}

// Center returns the continuous position of the tile center.
func (t Tile) Center() Vec2 {
	return Vec2{X: float64(t.X) + 0.5, Y: float64(t.Y) + 0.5}
}

// Offset returns the tile shifted by (dx, dy).
func (t Tile) Offset(dx, dy int) Tile {
	return Tile{X: t.X + dx, Y: t.Y + dy}
}

// ManhattanTo returns the manhattan distance to another tile.
func (t Tile) ManhattanTo(o Tile) int {
	return Abs(t.X-o.X) + Abs(t.Y-o.Y)
}

// Rect represents an axis-aligned rectangle used for screen layout.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
