// Package trigger reacts to grid transitions: it releases the previous note,
// moves the cell highlight, probabilistically plays the new cell's pitch and
// retunes the shared filter cutoff from the new cell's row.
package trigger

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/shoal/audio"
	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/grid"
	"github.com/lixenwraith/shoal/parameter"
	"github.com/lixenwraith/shoal/swarm"
	"github.com/lixenwraith/shoal/vmath"
)

// Visual receives cell highlight changes
type Visual interface {
	SetCellActive(col, row int, active bool)
}

// HighlightPolicy decides when a cell highlight is switched off
type HighlightPolicy int

const (
	// HighlightLastWriter deactivates the left cell on every exit even if
	// another particle still occupies it
	HighlightLastWriter HighlightPolicy = iota
	// HighlightOccupancy counts occupants and deactivates only at zero
	HighlightOccupancy
)

// ParseHighlightPolicy maps a config string to a policy, unknown names fall back to last-writer
func ParseHighlightPolicy(name string) HighlightPolicy {
	if name == "occupancy" {
		return HighlightOccupancy
	}
	return HighlightLastWriter
}

// Config holds trigger tuning
type Config struct {
	Probability  float64       // chance a transition plays a note
	NoteDuration time.Duration // attack-release length
	CutoffMin    float64       // Hz at row 0
	CutoffMax    float64       // Hz at row H
	Highlight    HighlightPolicy
}

// DefaultConfig returns the reference tuning
func DefaultConfig() Config {
	return Config{
		Probability:  parameter.TriggerProbability,
		NoteDuration: parameter.NoteDuration,
		CutoffMin:    parameter.CutoffMinHz,
		CutoffMax:    parameter.CutoffMaxHz,
		Highlight:    HighlightLastWriter,
	}
}

// Trigger applies transition side effects; it is owned by the frame goroutine
type Trigger struct {
	config Config
	grid   *grid.Grid
	engine audio.Engine
	visual Visual
	rng    *rand.Rand

	occupancy map[core.CellPos]int
	cutoff    float64

	// Stats
	transitions uint64
	notes       uint64
	releases    uint64
}

// New creates a trigger; visual may be nil
func New(cfg Config, g *grid.Grid, engine audio.Engine, visual Visual, rng *rand.Rand) *Trigger {
	return &Trigger{
		config:    cfg,
		grid:      g,
		engine:    engine,
		visual:    visual,
		rng:       rng,
		occupancy: make(map[core.CellPos]int),
		cutoff:    cfg.CutoffMax,
	}
}

// Handle applies one transition for p and updates its cell and note state
func (t *Trigger) Handle(p *swarm.Particle, tr grid.Transition) {
	cell, ok := t.grid.At(tr.To)
	if !ok {
		return
	}
	t.transitions++

	// Release before any new attack so no voice is left sustaining
	if p.Sounding {
		t.engine.TriggerRelease(p.Note)
		p.Sounding = false
		t.releases++
	}

	if tr.HasFrom {
		t.leave(tr.From)
	}
	t.enter(tr.To)
	p.Cell = tr.To
	p.InGrid = true

	if t.rng.Float64() < t.config.Probability {
		t.engine.TriggerAttackRelease(cell.Pitch, t.config.NoteDuration, 0, t.rng.Float64())
		p.Note = cell.Pitch
		p.Sounding = true
		t.notes++
	}

	t.cutoff = vmath.Lerp(t.config.CutoffMin, t.config.CutoffMax, float64(tr.To.Row)/float64(t.grid.Rows()))
	t.engine.SetFilterCutoff(t.cutoff)
}

func (t *Trigger) leave(pos core.CellPos) {
	if t.config.Highlight == HighlightOccupancy {
		if n := t.occupancy[pos]; n > 1 {
			t.occupancy[pos] = n - 1
			return
		}
		delete(t.occupancy, pos)
	}
	t.setActive(pos, false)
}

func (t *Trigger) enter(pos core.CellPos) {
	if t.config.Highlight == HighlightOccupancy {
		t.occupancy[pos]++
	}
	t.setActive(pos, true)
}

func (t *Trigger) setActive(pos core.CellPos, active bool) {
	if t.visual != nil {
		t.visual.SetCellActive(pos.Col, pos.Row, active)
	}
}

// Cutoff returns the last cutoff sent to the engine
func (t *Trigger) Cutoff() float64 {
	return t.cutoff
}

// Stats returns transition, note and release counts
func (t *Trigger) Stats() (transitions, notes, releases uint64) {
	return t.transitions, t.notes, t.releases
}
