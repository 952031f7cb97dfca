// Package swarm owns the fixed set of particles and their per-particle
// transient state: kinematics, steering mode, last grid cell and sounding note.
package swarm

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/core"
)

// Particle is a single moving point
// Note is meaningful only while Sounding; Cell only while InGrid
type Particle struct {
	ID   int
	Pos  r2.Vec
	Vel  r2.Vec
	Mode Mode

	Cell   core.CellPos
	InGrid bool

	Note     core.Pitch
	Sounding bool
}

// Store is the particle set, created once and never resized
type Store struct {
	particles []Particle
}

// NewStore creates n particles uniformly placed in viewport with velocity in [-1, 1) per axis
func NewStore(n int, viewport core.Rect, rng *rand.Rand) *Store {
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = Particle{
			ID: i,
			Pos: r2.Vec{
				X: viewport.X + rng.Float64()*viewport.Width,
				Y: viewport.Y + rng.Float64()*viewport.Height,
			},
			Vel: r2.Vec{
				X: (rng.Float64() - 0.5) * 2,
				Y: (rng.Float64() - 0.5) * 2,
			},
			Mode: Autonomous(),
		}
	}
	return &Store{particles: ps}
}

// NewStoreFrom wraps an explicit particle set, IDs are reassigned by index
func NewStoreFrom(ps []Particle) *Store {
	for i := range ps {
		ps[i].ID = i
	}
	return &Store{particles: ps}
}

// Len returns the particle count
func (s *Store) Len() int {
	return len(s.particles)
}

// Get returns a pointer to particle id, nil if out of range
func (s *Store) Get(id int) *Particle {
	if id < 0 || id >= len(s.particles) {
		return nil
	}
	return &s.particles[id]
}

// Each calls fn for every particle in ID order
func (s *Store) Each(fn func(p *Particle)) {
	for i := range s.particles {
		fn(&s.particles[i])
	}
}

// Positions copies current positions into dst, reusing its capacity
func (s *Store) Positions(dst []r2.Vec) []r2.Vec {
	dst = dst[:0]
	for i := range s.particles {
		dst = append(dst, s.particles[i].Pos)
	}
	return dst
}

// Apply feeds the same mode command to every particle
func (s *Store) Apply(c Command) {
	for i := range s.particles {
		s.particles[i].Mode = s.particles[i].Mode.Apply(c)
	}
}

// SetTargets steers every particle towards target
func (s *Store) SetTargets(target r2.Vec) {
	s.Apply(Aim(target))
}

// ClearTargets returns every particle to autonomous motion
func (s *Store) ClearTargets() {
	s.Apply(Release())
}

// SteeringCount returns how many particles currently have a target
func (s *Store) SteeringCount() int {
	n := 0
	for i := range s.particles {
		if s.particles[i].Mode.IsSteering() {
			n++
		}
	}
	return n
}

// SoundingCount returns how many particles hold an active note
func (s *Store) SoundingCount() int {
	n := 0
	for i := range s.particles {
		if s.particles[i].Sounding {
			n++
		}
	}
	return n
}
