package audio

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// SynthConfig tunes the polyphonic synth
type SynthConfig struct {
	Enabled      bool
	SampleRate   int
	BufferSize   time.Duration
	MasterVolume float64 // 0.0-1.0
	Voices       int     // polyphony, oldest voice is stolen when exhausted
	Attack       time.Duration
	Release      time.Duration
	PulseWidth   float64       // duty cycle of the pulse oscillator, 0-1 exclusive
	VoiceGain    float64       // per-voice headroom
	ReverbDecay  time.Duration // tail length to -60 dB
	ReverbWet    float64       // 0 bypasses the reverb
}

// DefaultSynthConfig returns a short-envelope pulse synth
func DefaultSynthConfig() *SynthConfig {
	return &SynthConfig{
		Enabled:      true,
		SampleRate:   44100,
		BufferSize:   100 * time.Millisecond,
		MasterVolume: 0.5,
		Voices:       16,
		Attack:       10 * time.Millisecond,
		Release:      10 * time.Millisecond,
		PulseWidth:   0.2,
		VoiceGain:    0.2,
		ReverbDecay:  time.Second,
		ReverbWet:    0.3,
	}
}

// ApplyEnv overrides fields from SHOAL_* audio environment variables
func (c *SynthConfig) ApplyEnv() {
	if enabled := os.Getenv("SHOAL_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			c.Enabled = val
		}
	}

	// Master volume 0-100 converted to 0.0-1.0
	if volume := os.Getenv("SHOAL_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			c.MasterVolume = clamp01(float64(val) / 100.0)
		}
	}

	if sampleRate := os.Getenv("SHOAL_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			c.SampleRate = val
		}
	}

	if wet := os.Getenv("SHOAL_REVERB_WET"); wet != "" {
		if val, err := strconv.ParseFloat(wet, 64); err == nil {
			c.ReverbWet = clamp01(val)
		}
	}

	if voices := os.Getenv("SHOAL_VOICES"); voices != "" {
		if val, err := strconv.Atoi(voices); err == nil && val > 0 {
			c.Voices = val
		}
	}
}

// Validate rejects settings the synth cannot run with
func (c *SynthConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.Voices <= 0 {
		return fmt.Errorf("%w: voices %d", ErrInvalidConfig, c.Voices)
	}
	if c.PulseWidth <= 0 || c.PulseWidth >= 1 {
		return fmt.Errorf("%w: pulse width %v", ErrInvalidConfig, c.PulseWidth)
	}
	if c.ReverbWet < 0 || c.ReverbWet > 1 {
		return fmt.Errorf("%w: reverb wet %v", ErrInvalidConfig, c.ReverbWet)
	}
	if c.ReverbDecay < 0 {
		return fmt.Errorf("%w: reverb decay %v", ErrInvalidConfig, c.ReverbDecay)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer size %v", ErrInvalidConfig, c.BufferSize)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
