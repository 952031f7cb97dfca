package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/swarm"
	"github.com/lixenwraith/shoal/vmath"
)

// Integrate performs explicit Euler position update: p = p + v
func Integrate(p *swarm.Particle) {
	p.Pos = r2.Add(p.Pos, p.Vel)
}

// ApplyImpulse adds velocity delta
func ApplyImpulse(p *swarm.Particle, dv r2.Vec) {
	p.Vel = r2.Add(p.Vel, dv)
}

// LimitSpeed rescales velocity to limit when faster, zero velocity is left alone
func LimitSpeed(p *swarm.Particle, limit float64) {
	p.Vel = vmath.ClampMagnitude(p.Vel, limit)
}
