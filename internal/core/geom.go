// Package core provides the platform-facing types shared by the game and the
// terminal front end: input frames, player identities, runtime settings and
// the character screen buffer. It contains no Bubble Tea code, which keeps
// game logic pure and testable.
package core

// Rect is a screen region in cells. X and Y name the top-left cell; the
// right and bottom edges are exclusive.
type Rect struct {
	X, Y int
	W, H int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the middle cell, rounding toward the bottom right.
func (r Rect) Center() (x, y int) {
	return r.X + r.W/2, r.Y + r.H/2
}
