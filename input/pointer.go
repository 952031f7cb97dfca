package input

import (
	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

// PointerTracker turns tcell mouse reports into pointer events
// tcell reports button state, not edges; the tracker derives press and release from the Button1 edge
type PointerTracker struct {
	unitsPerColumn float64
	unitsPerRow    float64
	held           bool
}

// NewPointerTracker creates a tracker mapping one terminal cell to the given world units
func NewPointerTracker(unitsPerColumn, unitsPerRow float64) *PointerTracker {
	return &PointerTracker{
		unitsPerColumn: unitsPerColumn,
		unitsPerRow:    unitsPerRow,
	}
}

// Translate converts a mouse event; returns false when the event carries no pointer action
// Motion without the primary button held is dropped
func (t *PointerTracker) Translate(ev *tcell.EventMouse) (PointerEvent, bool) {
	x, y := ev.Position()
	pos := t.ToWorld(x, y)
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !t.held:
		t.held = true
		return PointerEvent{Action: PointerDown, Pos: pos}, true
	case pressed:
		return PointerEvent{Action: PointerMove, Pos: pos}, true
	case t.held:
		t.held = false
		return PointerEvent{Action: PointerUp, Pos: pos}, true
	}
	return PointerEvent{}, false
}

// ToWorld maps a terminal cell to the world position of its center
func (t *PointerTracker) ToWorld(x, y int) r2.Vec {
	return r2.Vec{
		X: (float64(x) + 0.5) * t.unitsPerColumn,
		Y: (float64(y) + 0.5) * t.unitsPerRow,
	}
}

// Held reports whether the primary button is currently down
func (t *PointerTracker) Held() bool {
	return t.held
}
