package parameter

import "time"

// Swarm
const (
	ParticleCount = 10
)

// Grid
const (
	GridCols          = 12
	GridRows          = 12
	GridBaseOctave    = 3
	GridMinLoudnessDb = -30.0
)

// GridPalette is the pitch-class cycle along columns
var GridPalette = []string{"C", "D", "G", "A#"}

// Steering mode
const (
	DecelerationRadius  = 20.0
	CursorGain          = 1.0
	SchoolingSpeedLimit = 10.0
)

// Autonomous mode
const (
	JitterGain         = 0.05
	AnchorThreshold    = 200.0
	AnchorGain         = 0.001 * ShoalingGain
	ShoalingGain       = 0.2
	EdgeMargin         = 50.0
	EdgePush           = 0.1
	SeparationRadius   = 50.0
	SeparationGain     = 0.01
	ShoalingSpeedLimit = 2.0
)

// Trigger
const (
	TriggerProbability = 0.3
	NoteDuration       = 500 * time.Millisecond // quarter note at 120 BPM
	CutoffMinHz        = 200.0
	CutoffMaxHz        = 10200.0
)

// Interaction
const (
	ReleaseDelay = 500 * time.Millisecond
)

// Audio
const (
	ReverbDecay = time.Second
	ReverbWet   = 0.3
)

// Display
const (
	FrameInterval  = 16 * time.Millisecond
	UnitsPerColumn = 8.0
	UnitsPerRow    = 16.0
)
