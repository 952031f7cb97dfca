package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/grid"
	"github.com/lixenwraith/shoal/status"
)

func newTestScreen(t *testing.T, reg *status.Registry) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("simulation screen init: %v", err)
	}
	t.Cleanup(sim.Fini)
	// 24 columns over 12 grid columns, 12 field rows plus the status line
	sim.SetSize(24, 13)

	palette := []core.PitchClass{core.PitchC, core.PitchD, core.PitchG, core.PitchASharp}
	g, err := grid.New(12, 12, palette, 3, -30)
	if err != nil {
		t.Fatal(err)
	}
	return NewScreen(sim, g, reg, 8, 16, 60), sim
}

func rowText(s tcell.SimulationScreen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestScreenViewport(t *testing.T) {
	s, _ := newTestScreen(t, nil)
	want := core.Rect{Width: 24 * 8, Height: 12 * 16}
	if got := s.Viewport(); got != want {
		t.Errorf("Viewport = %v, want %v", got, want)
	}
}

func TestScreenDrawsParticles(t *testing.T) {
	s, sim := newTestScreen(t, nil)

	s.SetParticleScreenPosition(0, 20, 40)   // cell (2,2)
	s.SetParticleScreenPosition(3, 100, 150) // cell (12,9)
	s.SetParticleScreenPosition(4, -5, 40)   // off screen
	s.Draw()

	for _, c := range [][2]int{{2, 2}, {12, 9}} {
		if r, _, _, _ := sim.GetContent(c[0], c[1]); r != particleRune {
			t.Errorf("cell %v = %q, want particle", c, r)
		}
	}
	// Unplaced ids 1 and 2 draw nothing at the origin
	if r, _, _, _ := sim.GetContent(0, 0); r == particleRune {
		t.Error("unplaced particle drawn at origin")
	}
}

func TestScreenStatusLine(t *testing.T) {
	reg := status.NewRegistry()
	reg.Strings.Get("input.state").Store("idle")
	reg.Ints.Get("trigger.notes").Store(4)

	s, sim := newTestScreen(t, reg)
	s.SetStatusKeys("input.state", "trigger.notes")
	s.Draw()

	line := rowText(sim, 12, 24)
	if !strings.HasPrefix(line, " state:idle  notes:4") {
		t.Errorf("status line = %q", line)
	}
}

func TestScreenGlowFollowsHighlight(t *testing.T) {
	s, sim := newTestScreen(t, nil)

	s.SetCellActive(3, 4, true)
	if !s.CellActive(3, 4) {
		t.Fatal("cell not marked active")
	}
	for i := 0; i < 60; i++ {
		s.Draw()
	}
	if g := s.Glow(3, 4); g < 0.9 {
		t.Errorf("glow after 1s = %v, want near 1", g)
	}

	// Grid column 3 covers terminal columns 6 and 7
	_, _, style, _ := sim.GetContent(6, 4)
	_, bg, _ := style.Decompose()
	if r, _, _ := bg.RGB(); r < 200 {
		t.Errorf("active cell background red = %d, want glow color", r)
	}

	s.SetCellActive(3, 4, false)
	for i := 0; i < 120; i++ {
		s.Draw()
	}
	if g := s.Glow(3, 4); g > 0.05 {
		t.Errorf("glow after release = %v, want faded", g)
	}
}

func TestScreenIgnoresOutOfRangeCells(t *testing.T) {
	s, _ := newTestScreen(t, nil)

	s.SetCellActive(-1, 0, true)
	s.SetCellActive(12, 0, true)
	s.SetParticleScreenPosition(-1, 0, 0)

	if s.CellActive(-1, 0) || s.CellActive(12, 0) || s.Glow(12, 0) != 0 {
		t.Error("out-of-range cell accepted")
	}
	s.Draw()
}
