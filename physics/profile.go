package physics

import "github.com/lixenwraith/shoal/parameter"

// Params holds every gain and limit of the motion model, in world units per frame
type Params struct {
	// Steering
	DecelerationRadius  float64
	CursorGain          float64
	SchoolingSpeedLimit float64

	// Autonomous
	JitterGain         float64
	AnchorThreshold    float64
	AnchorGain         float64
	EdgeMargin         float64
	EdgePush           float64
	SeparationRadius   float64
	SeparationGain     float64
	ShoalingSpeedLimit float64
}

// FromConfig converts the motion section of the runtime config
func FromConfig(c parameter.MotionConfig) Params {
	return Params{
		DecelerationRadius:  c.DecelerationRadius,
		CursorGain:          c.CursorGain,
		SchoolingSpeedLimit: c.SchoolingSpeedLimit,
		JitterGain:          c.JitterGain,
		AnchorThreshold:     c.AnchorThreshold,
		AnchorGain:          c.AnchorGain,
		EdgeMargin:          c.EdgeMargin,
		EdgePush:            c.EdgePush,
		SeparationRadius:    c.SeparationRadius,
		SeparationGain:      c.SeparationGain,
		ShoalingSpeedLimit:  c.ShoalingSpeedLimit,
	}
}

// DefaultParams returns the reference tuning
func DefaultParams() Params {
	return Params{
		DecelerationRadius:  parameter.DecelerationRadius,
		CursorGain:          parameter.CursorGain,
		SchoolingSpeedLimit: parameter.SchoolingSpeedLimit,

		JitterGain:         parameter.JitterGain,
		AnchorThreshold:    parameter.AnchorThreshold,
		AnchorGain:         parameter.AnchorGain,
		EdgeMargin:         parameter.EdgeMargin,
		EdgePush:           parameter.EdgePush,
		SeparationRadius:   parameter.SeparationRadius,
		SeparationGain:     parameter.SeparationGain,
		ShoalingSpeedLimit: parameter.ShoalingSpeedLimit,
	}
}
