// Package grid holds the static pitch/loudness table and the mapping from
// continuous world positions to discrete cells.
package grid

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/shoal/core"
)

// ErrInvalidGrid is returned for non-positive dimensions or an empty palette
var ErrInvalidGrid = errors.New("invalid grid")

// Cell is the sound assigned to one grid position
type Cell struct {
	Pitch      core.Pitch
	LoudnessDb float64
}

// Grid is an immutable Cols x Rows table, indexed [col][row]
type Grid struct {
	cols, rows int
	cells      [][]Cell
}

// New builds the table: pitch cycles the palette along columns, climbing one
// octave every len(palette) columns from baseOctave; loudness ramps linearly
// down the rows from minDb towards 0 dB
func New(cols, rows int, palette []core.PitchClass, baseOctave int, minDb float64) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, cols, rows)
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidGrid)
	}

	step := -minDb / float64(rows)
	cells := make([][]Cell, cols)
	for c := range cells {
		pitch := core.Pitch{
			Class:  palette[c%len(palette)],
			Octave: c/len(palette) + baseOctave,
		}
		cells[c] = make([]Cell, rows)
		for r := range cells[c] {
			cells[c][r] = Cell{
				Pitch:      pitch,
				LoudnessDb: minDb + step*float64(r),
			}
		}
	}

	return &Grid{cols: cols, rows: rows, cells: cells}, nil
}

// Cols returns the horizontal cell count
func (g *Grid) Cols() int { return g.cols }

// Rows returns the vertical cell count
func (g *Grid) Rows() int { return g.rows }

// At returns the cell at pos, ok is false outside the grid
func (g *Grid) At(pos core.CellPos) (Cell, bool) {
	if !g.InBounds(pos) {
		return Cell{}, false
	}
	return g.cells[pos.Col][pos.Row], true
}

// InBounds reports whether pos lies in [0,Cols) x [0,Rows)
func (g *Grid) InBounds(pos core.CellPos) bool {
	return pos.Col >= 0 && pos.Col < g.cols && pos.Row >= 0 && pos.Row < g.rows
}
