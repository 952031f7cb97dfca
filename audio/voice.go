package audio

import (
	"github.com/lixenwraith/shoal/core"
)

// envState tracks envelope phase
type envState int

const (
	envIdle envState = iota
	envPending // waiting out the start offset
	envAttack
	envSustain
	envRelease
)

// voice is one pulse oscillator with a linear attack/release envelope
// Accessed only with Synth.mu held
type voice struct {
	pitch    core.Pitch
	freq     float64
	velocity float64
	phase    float64 // oscillator phase 0-1
	width    float64 // pulse duty cycle

	state    envState
	level    float64
	pos      int // samples into current phase
	delay    int // samples before attack starts
	hold     int // samples of attack+sustain before automatic release
	attack   int
	release  int
	relStart float64 // level when release began

	started uint64 // trigger order, for voice stealing
}

// trigger starts the voice; hold is the note duration in samples
func (v *voice) trigger(p core.Pitch, velocity float64, delay, hold, attack, release int, width float64, order uint64) {
	v.pitch = p
	v.freq = p.Freq()
	v.velocity = velocity
	v.phase = 0
	v.width = width
	v.delay = delay
	v.hold = hold
	v.attack = attack
	v.release = release
	v.level = 0
	v.pos = 0
	v.started = order
	if delay > 0 {
		v.state = envPending
	} else {
		v.state = envAttack
	}
}

// noteOff moves a sounding voice into release
// A voice still waiting on its start offset is dropped
func (v *voice) noteOff() {
	switch v.state {
	case envPending:
		v.reset()
	case envAttack, envSustain:
		v.state = envRelease
		v.relStart = v.level
		v.pos = 0
	}
}

// sounding reports whether the voice holds its note (not yet releasing)
func (v *voice) sounding() bool {
	return v.state == envPending || v.state == envAttack || v.state == envSustain
}

func (v *voice) active() bool {
	return v.state != envIdle
}

func (v *voice) reset() {
	v.state = envIdle
	v.level = 0
	v.pos = 0
}

// sample renders one mono sample at sampleRate
func (v *voice) sample(sampleRate float64) float64 {
	if v.state == envIdle {
		return 0
	}
	if v.state == envPending {
		if v.delay > 0 {
			v.delay--
			return 0
		}
		v.state = envAttack
		v.pos = 0
	}

	// Zero-mean pulse so the low-pass does not pass a DC offset
	raw := -v.width
	if v.phase < v.width {
		raw = 1.0 - v.width
	}
	v.phase += v.freq / sampleRate
	if v.phase >= 1.0 {
		v.phase -= 1.0
	}

	env := v.processEnvelope()
	return raw * env * v.velocity
}

func (v *voice) processEnvelope() float64 {
	switch v.state {
	case envAttack:
		if v.attack > 0 {
			v.level = float64(v.pos) / float64(v.attack)
		} else {
			v.level = 1.0
		}
		v.pos++
		v.hold--
		if v.pos >= v.attack {
			v.state = envSustain
		}
		if v.hold <= 0 {
			v.noteOff()
		}

	case envSustain:
		v.level = 1.0
		v.hold--
		if v.hold <= 0 {
			v.noteOff()
		}

	case envRelease:
		if v.release > 0 {
			t := float64(v.pos) / float64(v.release)
			v.level = v.relStart * (1.0 - t)
		} else {
			v.level = 0
		}
		v.pos++
		if v.pos >= v.release || v.level <= 0.001 {
			v.reset()
		}
	}

	return v.level
}
