package audio

import (
	"errors"
	"time"

	"github.com/lixenwraith/shoal/core"
)

// Engine is the polyphonic sound engine driven by the trigger logic
// All methods are fire-and-forget; none block on audio output
type Engine interface {
	// Start opens the output device; callers gate it behind the first user gesture
	Start() error
	// TriggerAttackRelease plays pitch for duration after offset at velocity in [0,1]
	TriggerAttackRelease(p core.Pitch, duration, offset time.Duration, velocity float64)
	// TriggerRelease stops a sounding pitch, no-op if it is not sounding
	TriggerRelease(p core.Pitch)
	// SetFilterCutoff sets the shared low-pass cutoff in Hz
	SetFilterCutoff(hz float64)
	// Close stops output and releases the device
	Close()
}

// Sentinel errors
var (
	ErrNoAudioDevice = errors.New("no audio output device")
	ErrInvalidConfig = errors.New("invalid audio config")
)
