package core

// Rect is an axis-aligned region in world units
type Rect struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
}

// Contains reports whether (x, y) lies in [X, X+Width) x [Y, Y+Height)
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports a degenerate rectangle
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// CellPos is a grid cell index
type CellPos struct {
	Col, Row int
}

// TaskID identifies a deferred task so it can be cancelled
type TaskID uint64
