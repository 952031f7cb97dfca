// Package physics advances particle velocity and position once per frame.
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/swarm"
	"github.com/lixenwraith/shoal/vmath"
)

// SpeedFactor eases the pull as distance falls below radius: 1 when far, 0 at the target
func SpeedFactor(distance, radius float64) float64 {
	if radius <= 0 {
		return 1
	}
	return 1 - math.Max(0, (radius-distance)/radius)
}

// Steer accumulates the pull towards target and clamps to the schooling limit
func Steer(p *swarm.Particle, target r2.Vec, params Params) {
	disp := r2.Sub(target, p.Pos)
	factor := SpeedFactor(r2.Norm(disp), params.DecelerationRadius)
	ApplyImpulse(p, r2.Scale(params.CursorGain*factor, disp))
	LimitSpeed(p, params.SchoolingSpeedLimit)
}

// Jitter adds sin(v) * gain per axis; a bounded perturbation continuous in v
func Jitter(p *swarm.Particle, gain float64) {
	ApplyImpulse(p, r2.Vec{
		X: math.Sin(p.Vel.X) * gain,
		Y: math.Sin(p.Vel.Y) * gain,
	})
}

// Attract pulls towards anchor only beyond the threshold distance
func Attract(p *swarm.Particle, anchor r2.Vec, params Params) {
	disp := r2.Sub(anchor, p.Pos)
	if r2.Norm(disp) > params.AnchorThreshold {
		ApplyImpulse(p, r2.Scale(params.AnchorGain, disp))
	}
}

// RepelEdges pushes away from any viewport edge closer than the margin
func RepelEdges(p *swarm.Particle, viewport core.Rect, params Params) {
	var dv r2.Vec
	if p.Pos.X < viewport.X+params.EdgeMargin {
		dv.X += params.EdgePush
	}
	if p.Pos.Y < viewport.Y+params.EdgeMargin {
		dv.Y += params.EdgePush
	}
	if p.Pos.X > viewport.X+viewport.Width-params.EdgeMargin {
		dv.X -= params.EdgePush
	}
	if p.Pos.Y > viewport.Y+viewport.Height-params.EdgeMargin {
		dv.Y -= params.EdgePush
	}
	ApplyImpulse(p, dv)
}

// Separate subtracts a fraction of the offset to every neighbour within the radius
// neighbours[self] is skipped; pass self < 0 when p is not part of the slice
func Separate(p *swarm.Particle, self int, neighbours []r2.Vec, params Params) {
	var dv r2.Vec
	for i, other := range neighbours {
		if i == self {
			continue
		}
		if vmath.Distance(p.Pos, other) < params.SeparationRadius {
			dv = r2.Sub(dv, r2.Scale(params.SeparationGain, r2.Sub(other, p.Pos)))
		}
	}
	ApplyImpulse(p, dv)
}

// Shoal runs the autonomous force chain then clamps to the shoaling limit
func Shoal(p *swarm.Particle, self int, neighbours []r2.Vec, anchor r2.Vec, viewport core.Rect, params Params) {
	Jitter(p, params.JitterGain)
	Attract(p, anchor, params)
	RepelEdges(p, viewport, params)
	Separate(p, self, neighbours, params)
	LimitSpeed(p, params.ShoalingSpeedLimit)
}

// Move advances one particle by one frame according to its mode
func Move(p *swarm.Particle, self int, neighbours []r2.Vec, anchor r2.Vec, viewport core.Rect, params Params) {
	switch p.Mode.Kind {
	case swarm.ModeSteering:
		Steer(p, p.Mode.Target, params)
	default:
		Shoal(p, self, neighbours, anchor, viewport, params)
	}
	Integrate(p)
}

// Stepper runs the synchronous per-frame pass over a store
// Neighbour positions come from a snapshot taken before any particle moves
type Stepper struct {
	Params   Params
	snapshot []r2.Vec
}

// NewStepper creates a stepper with the given tuning
func NewStepper(params Params) *Stepper {
	return &Stepper{Params: params}
}

// Step moves every particle once
func (s *Stepper) Step(store *swarm.Store, anchor r2.Vec, viewport core.Rect) {
	s.snapshot = store.Positions(s.snapshot)
	store.Each(func(p *swarm.Particle) {
		Move(p, p.ID, s.snapshot, anchor, viewport, s.Params)
	})
}

// Speed returns |v|
func Speed(p *swarm.Particle) float64 {
	return r2.Norm(p.Vel)
}
