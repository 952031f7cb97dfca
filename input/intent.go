package input

import "gonum.org/v1/gonum/spatial/r2"

// PointerAction discriminates pointer events
type PointerAction uint8

const (
	PointerNone PointerAction = iota
	PointerDown               // Primary button pressed
	PointerMove               // Pointer moved with primary button held
	PointerUp                 // Primary button released
)

func (a PointerAction) String() string {
	switch a {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	}
	return "none"
}

// PointerEvent is a discrete pointer event in world units
// Pos is meaningless for PointerUp
type PointerEvent struct {
	Action PointerAction
	Pos    r2.Vec
}
