package audio

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/status"
)

// Synth is a polyphonic pulse synth behind a shared low-pass filter
// Start routes it through a reverb into the master volume
// It implements both Engine and beep.Streamer; the speaker goroutine pulls
// samples while the frame loop mutates voices, so all voice state is under mu
type Synth struct {
	config *SynthConfig
	rate   beep.SampleRate
	mixer  *beep.Mixer

	mu     sync.Mutex
	voices []voice
	filter lowPass
	order  uint64

	started atomic.Bool
	silent  atomic.Bool

	// Written from the speaker goroutine once per buffer, nil until AttachStatus
	statVoices atomic.Pointer[atomic.Int64]
	statStolen atomic.Pointer[atomic.Int64]

	// Stats
	triggered atomic.Uint64
	released  atomic.Uint64
	stolen    atomic.Uint64
}

// NewSynth creates a synth, output is not opened until Start
func NewSynth(cfg ...*SynthConfig) (*Synth, error) {
	config := DefaultSynthConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		config = cfg[0]
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Synth{
		config: config,
		rate:   beep.SampleRate(config.SampleRate),
		mixer:  &beep.Mixer{},
		voices: make([]voice, config.Voices),
	}
	s.filter.setCutoff(maxCutoffHz, float64(config.SampleRate))
	return s, nil
}

// Start initializes the speaker and begins playback, repeated calls are no-ops
// A device failure leaves the synth running silently and is reported once
func (s *Synth) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	if !s.config.Enabled {
		s.silent.Store(true)
		return nil
	}

	if err := speaker.Init(s.rate, s.rate.N(s.config.BufferSize)); err != nil {
		s.silent.Store(true)
		return fmt.Errorf("%w: %v", ErrNoAudioDevice, err)
	}

	wet := newReverb(s, s.rate, s.config.ReverbDecay, s.config.ReverbWet)
	s.mixer.Add(newVolume(wet, s.config.MasterVolume))
	speaker.Play(s.mixer)
	log.Printf("audio: speaker started at %d Hz, %d voices", s.config.SampleRate, s.config.Voices)
	return nil
}

// Close stops playback
func (s *Synth) Close() {
	if !s.started.Load() || s.silent.Load() {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.silent.Store(true)
}

// Started reports whether Start has been called
func (s *Synth) Started() bool {
	return s.started.Load()
}

// Silent reports whether output is disabled or the device failed
func (s *Synth) Silent() bool {
	return s.silent.Load()
}

// TriggerAttackRelease starts pitch on a free voice, stealing the oldest when all are busy
func (s *Synth) TriggerAttackRelease(p core.Pitch, duration, offset time.Duration, velocity float64) {
	velocity = clamp01(velocity) * s.config.VoiceGain

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.voices {
		if !s.voices[i].active() {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
		for i := range s.voices {
			if s.voices[i].started < s.voices[idx].started {
				idx = i
			}
		}
		s.stolen.Add(1)
	}

	s.order++
	s.voices[idx].trigger(
		p,
		velocity,
		s.rate.N(offset),
		max(1, s.rate.N(duration)),
		s.rate.N(s.config.Attack),
		s.rate.N(s.config.Release),
		s.config.PulseWidth,
		s.order,
	)
	s.triggered.Add(1)
}

// TriggerRelease releases the oldest voice holding pitch, no-op if none is sounding
// Other voices on the same pitch belong to other particles and keep sounding
func (s *Synth) TriggerRelease(p core.Pitch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.voices {
		if !s.voices[i].sounding() || s.voices[i].pitch != p {
			continue
		}
		if idx < 0 || s.voices[i].started < s.voices[idx].started {
			idx = i
		}
	}
	if idx < 0 {
		return
	}
	s.voices[idx].noteOff()
	s.released.Add(1)
}

// SetFilterCutoff sets the shared low-pass cutoff, clamped to the audible range
func (s *Synth) SetFilterCutoff(hz float64) {
	s.mu.Lock()
	s.filter.setCutoff(hz, float64(s.config.SampleRate))
	s.mu.Unlock()
}

// FilterCutoff returns the effective cutoff in Hz
func (s *Synth) FilterCutoff() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.cutoff
}

// countActive counts voices producing sound or waiting to start, caller holds mu
func (s *Synth) countActive() int {
	n := 0
	for i := range s.voices {
		if s.voices[i].active() {
			n++
		}
	}
	return n
}

// Sounding reports whether any voice holds pitch
func (s *Synth) Sounding(p core.Pitch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.voices {
		if s.voices[i].sounding() && s.voices[i].pitch == p {
			return true
		}
	}
	return false
}

// Status keys published by the synth
const (
	MetricVoices = "audio.voices"
	MetricStolen = "audio.stolen"
)

// AttachStatus publishes the active voice count and stolen voice total
func (s *Synth) AttachStatus(reg *status.Registry) {
	s.statVoices.Store(reg.Ints.Get(MetricVoices))
	s.statStolen.Store(reg.Ints.Get(MetricStolen))
}

// Stream implements beep.Streamer; the synth never drains
func (s *Synth) Stream(samples [][2]float64) (n int, ok bool) {
	sr := float64(s.config.SampleRate)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range samples {
		var mix float64
		for v := range s.voices {
			mix += s.voices[v].sample(sr)
		}
		out := s.filter.process(mix)
		samples[i][0] = out
		samples[i][1] = out
	}

	if stat := s.statVoices.Load(); stat != nil {
		stat.Store(int64(s.countActive()))
	}
	if stat := s.statStolen.Load(); stat != nil {
		stat.Store(int64(s.stolen.Load()))
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (s *Synth) Err() error {
	return nil
}

// GetStats returns triggered, released and stolen voice counts
func (s *Synth) GetStats() (triggered, released, stolen uint64) {
	return s.triggered.Load(), s.released.Load(), s.stolen.Load()
}
