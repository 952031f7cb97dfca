package grid

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/core"
)

var testPalette = []core.PitchClass{core.PitchC, core.PitchD, core.PitchG, core.PitchASharp}

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := New(12, 12, testPalette, 3, -30)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestGridPitchLayout(t *testing.T) {
	g := newTestGrid(t)

	want := []string{"C3", "D3", "G3", "A#3", "C4", "D4", "G4", "A#4", "C5", "D5", "G5", "A#5"}
	for col, name := range want {
		for _, row := range []int{0, 11} {
			cell, ok := g.At(core.CellPos{Col: col, Row: row})
			if !ok {
				t.Fatalf("At(%d,%d) out of bounds", col, row)
			}
			if cell.Pitch.Name() != name {
				t.Errorf("col %d row %d pitch = %s, want %s", col, row, cell.Pitch.Name(), name)
			}
		}
	}
}

func TestGridLoudnessRamp(t *testing.T) {
	g := newTestGrid(t)

	for row := 0; row < 12; row++ {
		cell, _ := g.At(core.CellPos{Col: 5, Row: row})
		want := -30 + 2.5*float64(row)
		if math.Abs(cell.LoudnessDb-want) > 1e-9 {
			t.Errorf("row %d loudness = %f, want %f", row, cell.LoudnessDb, want)
		}
	}
}

func TestGridOutOfBounds(t *testing.T) {
	g := newTestGrid(t)
	for _, pos := range []core.CellPos{{Col: -1, Row: 0}, {Col: 0, Row: -1}, {Col: 12, Row: 0}, {Col: 0, Row: 12}} {
		if _, ok := g.At(pos); ok {
			t.Errorf("At(%v) should be out of bounds", pos)
		}
	}
}

func TestGridInvalid(t *testing.T) {
	if _, err := New(0, 12, testPalette, 3, -30); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("zero cols: err = %v", err)
	}
	if _, err := New(12, 12, nil, 3, -30); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("empty palette: err = %v", err)
	}
}

func TestMapperLocateBinEdges(t *testing.T) {
	g := newTestGrid(t)
	m := NewMapper(g, core.Rect{X: 40, Y: 20, Width: 120, Height: 240})

	tests := []struct {
		pos  r2.Vec
		want core.CellPos
		ok   bool
	}{
		{r2.Vec{X: 40, Y: 20}, core.CellPos{Col: 0, Row: 0}, true},
		{r2.Vec{X: 49.999, Y: 39.999}, core.CellPos{Col: 0, Row: 0}, true},
		{r2.Vec{X: 50, Y: 40}, core.CellPos{Col: 1, Row: 1}, true}, // exactly on bin edge
		{r2.Vec{X: 70, Y: 100}, core.CellPos{Col: 3, Row: 4}, true},
		{r2.Vec{X: 159.9, Y: 259.9}, core.CellPos{Col: 11, Row: 11}, true},
		{r2.Vec{X: 160, Y: 100}, core.CellPos{}, false}, // right edge exclusive
		{r2.Vec{X: 100, Y: 260}, core.CellPos{}, false},
		{r2.Vec{X: 39.9, Y: 100}, core.CellPos{}, false},
		{r2.Vec{X: 100, Y: 19.9}, core.CellPos{}, false},
		{r2.Vec{X: math.NaN(), Y: 100}, core.CellPos{}, false},
	}

	for _, tt := range tests {
		got, ok := m.Locate(tt.pos)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Locate(%v) = %v,%v want %v,%v", tt.pos, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMapperLocateDeterministic(t *testing.T) {
	g := newTestGrid(t)
	m := NewMapper(g, core.Rect{Width: 960, Height: 640})

	pos := r2.Vec{X: 333.3, Y: 123.4}
	first, _ := m.Locate(pos)
	for i := 0; i < 100; i++ {
		if got, _ := m.Locate(pos); got != first {
			t.Fatalf("Locate not deterministic: %v vs %v", got, first)
		}
	}
	// floor(333.3 / 80) = 4, floor(123.4 / 53.33) = 2
	if first != (core.CellPos{Col: 4, Row: 2}) {
		t.Errorf("Locate = %v, want {4 2}", first)
	}
}

func TestMapperDegenerateBounds(t *testing.T) {
	g := newTestGrid(t)
	m := NewMapper(g, core.Rect{})
	if _, ok := m.Locate(r2.Vec{}); ok {
		t.Error("empty bounds should locate nothing")
	}
}

func TestMapperTransition(t *testing.T) {
	g := newTestGrid(t)
	m := NewMapper(g, core.Rect{Width: 120, Height: 120})

	// First entry has no origin
	tr, ok := m.Transition(core.CellPos{}, false, r2.Vec{X: 5, Y: 5})
	if !ok || tr.HasFrom || tr.To != (core.CellPos{}) {
		t.Fatalf("first entry = %+v,%v", tr, ok)
	}

	// Same cell: no event
	if _, ok := m.Transition(core.CellPos{}, true, r2.Vec{X: 9, Y: 9}); ok {
		t.Error("staying in a cell must not produce an event")
	}

	// Neighbour cell
	tr, ok = m.Transition(core.CellPos{}, true, r2.Vec{X: 15, Y: 5})
	if !ok || !tr.HasFrom || tr.From != (core.CellPos{}) || tr.To != (core.CellPos{Col: 1}) {
		t.Errorf("move right = %+v,%v", tr, ok)
	}

	// Leaving the grid: silent
	if _, ok := m.Transition(core.CellPos{Col: 1}, true, r2.Vec{X: -5, Y: 5}); ok {
		t.Error("out-of-grid position must not produce an event")
	}
}
