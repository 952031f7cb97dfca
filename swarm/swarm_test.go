package swarm

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/core"
)

func TestModeTransitions(t *testing.T) {
	m := Autonomous()
	if m.IsSteering() {
		t.Fatal("initial mode should be autonomous")
	}

	target := r2.Vec{X: 10, Y: 20}
	m = m.Apply(Aim(target))
	if !m.IsSteering() || m.Target != target {
		t.Fatalf("after Aim: %+v", m)
	}

	// Aim while steering moves the target
	moved := r2.Vec{X: 30, Y: 40}
	m = m.Apply(Aim(moved))
	if m.Target != moved {
		t.Errorf("re-aim target = %v, want %v", m.Target, moved)
	}

	m = m.Apply(Release())
	if m.IsSteering() {
		t.Error("after Release mode should be autonomous")
	}

	// Release is idempotent
	if m.Apply(Release()).IsSteering() {
		t.Error("double release should stay autonomous")
	}
}

func TestNewStoreWithinViewport(t *testing.T) {
	viewport := core.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	s := NewStore(50, viewport, rand.New(rand.NewSource(1)))

	if s.Len() != 50 {
		t.Fatalf("Len = %d, want 50", s.Len())
	}

	s.Each(func(p *Particle) {
		if !viewport.Contains(p.Pos.X, p.Pos.Y) {
			t.Errorf("particle %d at %v outside viewport", p.ID, p.Pos)
		}
		if p.Vel.X < -1 || p.Vel.X >= 1 || p.Vel.Y < -1 || p.Vel.Y >= 1 {
			t.Errorf("particle %d velocity %v outside [-1,1)", p.ID, p.Vel)
		}
		if p.Mode.IsSteering() || p.InGrid || p.Sounding {
			t.Errorf("particle %d not in initial state: %+v", p.ID, p)
		}
	})
}

func TestStoreTargets(t *testing.T) {
	s := NewStore(10, core.Rect{Width: 100, Height: 100}, rand.New(rand.NewSource(2)))

	s.SetTargets(r2.Vec{X: 50, Y: 50})
	if got := s.SteeringCount(); got != 10 {
		t.Errorf("SteeringCount after SetTargets = %d, want 10", got)
	}

	s.ClearTargets()
	if got := s.SteeringCount(); got != 0 {
		t.Errorf("SteeringCount after ClearTargets = %d, want 0", got)
	}
}

func TestStoreGetAndPositions(t *testing.T) {
	s := NewStoreFrom([]Particle{
		{Pos: r2.Vec{X: 1, Y: 2}},
		{Pos: r2.Vec{X: 3, Y: 4}},
	})

	if p := s.Get(1); p == nil || p.ID != 1 {
		t.Fatalf("Get(1) = %+v", p)
	}
	if s.Get(2) != nil || s.Get(-1) != nil {
		t.Error("Get out of range should be nil")
	}

	pos := s.Positions(nil)
	if len(pos) != 2 || pos[1] != (r2.Vec{X: 3, Y: 4}) {
		t.Errorf("Positions = %v", pos)
	}

	s.Get(0).Sounding = true
	if s.SoundingCount() != 1 {
		t.Errorf("SoundingCount = %d, want 1", s.SoundingCount())
	}
}
