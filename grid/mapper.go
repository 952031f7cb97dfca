package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/core"
)

// Transition records a particle moving into a new cell
// HasFrom is false on the first in-grid entry
type Transition struct {
	From    core.CellPos
	HasFrom bool
	To      core.CellPos
}

// Mapper converts world positions into cell indices using the display bounds
// of the grid; the result depends only on position, bounds and dimensions
type Mapper struct {
	Bounds     core.Rect
	Cols, Rows int
}

// NewMapper creates a mapper for g laid over bounds
func NewMapper(g *Grid, bounds core.Rect) *Mapper {
	return &Mapper{Bounds: bounds, Cols: g.Cols(), Rows: g.Rows()}
}

// Locate returns the cell containing pos, ok is false outside the grid
func (m *Mapper) Locate(pos r2.Vec) (core.CellPos, bool) {
	if m.Bounds.Empty() || m.Cols <= 0 || m.Rows <= 0 {
		return core.CellPos{}, false
	}

	binW := m.Bounds.Width / float64(m.Cols)
	binH := m.Bounds.Height / float64(m.Rows)
	col := math.Floor((pos.X - m.Bounds.X) / binW)
	row := math.Floor((pos.Y - m.Bounds.Y) / binH)

	if math.IsNaN(col) || math.IsNaN(row) {
		return core.CellPos{}, false
	}
	if col < 0 || col >= float64(m.Cols) || row < 0 || row >= float64(m.Rows) {
		return core.CellPos{}, false
	}
	return core.CellPos{Col: int(col), Row: int(row)}, true
}

// Transition reports a cell change for a particle last seen in prev
// Out-of-grid positions and unchanged cells yield no event
func (m *Mapper) Transition(prev core.CellPos, hasPrev bool, pos r2.Vec) (Transition, bool) {
	cell, ok := m.Locate(pos)
	if !ok {
		return Transition{}, false
	}
	if hasPrev && cell == prev {
		return Transition{}, false
	}
	return Transition{From: prev, HasFrom: hasPrev, To: cell}, true
}
