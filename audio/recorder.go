package audio

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/lixenwraith/shoal/core"
)

const (
	recorderChannel    = 0
	recorderTempo      = 120.0
	recorderResolution = smf.MetricTicks(960)
	cutoffController   = 74 // brightness, conventionally mapped to filter cutoff
)

// Clock supplies timestamps for recorded events
type Clock interface {
	Now() time.Time
}

type recordedEvent struct {
	at  time.Time
	seq int // insertion order, keeps same-instant events stable
	msg midi.Message
}

// recordedNote is one attack; end is the scheduled stop, pulled earlier by a release
type recordedNote struct {
	key   uint8
	vel   uint8
	start time.Time
	end   time.Time
	seq   int
}

// Recorder forwards every call to an inner engine and captures it as MIDI
// Note attacks, releases and cutoff changes are written by Save as a
// standard MIDI file so a session can be replayed in any sequencer
type Recorder struct {
	inner Engine
	clock Clock

	cutoffMin, cutoffMax float64

	mu     sync.Mutex
	origin time.Time
	seq    int
	events []recordedEvent // control changes
	notes  []recordedNote
}

// NewRecorder wraps inner; cutoff changes are scaled from [cutoffMin, cutoffMax] to CC 0-127
func NewRecorder(inner Engine, clock Clock, cutoffMin, cutoffMax float64) *Recorder {
	return &Recorder{
		inner:     inner,
		clock:     clock,
		cutoffMin: cutoffMin,
		cutoffMax: cutoffMax,
		origin:    clock.Now(),
	}
}

func (r *Recorder) Start() error {
	return r.inner.Start()
}

func (r *Recorder) Close() {
	r.inner.Close()
}

// TriggerAttackRelease records a note from now+offset lasting duration
func (r *Recorder) TriggerAttackRelease(p core.Pitch, duration, offset time.Duration, velocity float64) {
	r.inner.TriggerAttackRelease(p, duration, offset, velocity)

	key, ok := midiKey(p)
	if !ok {
		return
	}
	vel := uint8(math.Round(clamp01(velocity) * 127))
	if vel == 0 {
		vel = 1 // velocity 0 would read as note-off
	}

	start := r.clock.Now().Add(offset)
	r.mu.Lock()
	r.notes = append(r.notes, recordedNote{key: key, vel: vel, start: start, end: start.Add(duration), seq: r.next()})
	r.mu.Unlock()
}

// TriggerRelease cuts the oldest note on the key that is still playing, matching the synth
func (r *Recorder) TriggerRelease(p core.Pitch) {
	r.inner.TriggerRelease(p)

	key, ok := midiKey(p)
	if !ok {
		return
	}
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notes {
		n := &r.notes[i]
		if n.key == key && !n.start.After(now) && n.end.After(now) {
			n.end = now
			return
		}
	}
}

func (r *Recorder) SetFilterCutoff(hz float64) {
	r.inner.SetFilterCutoff(hz)

	span := r.cutoffMax - r.cutoffMin
	value := 0.0
	if span > 0 {
		value = clamp01((hz - r.cutoffMin) / span)
	}
	r.mu.Lock()
	r.add(r.clock.Now(), midi.ControlChange(recorderChannel, cutoffController, uint8(math.Round(value*127))))
	r.mu.Unlock()
}

// Len returns the number of captured notes and control changes
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes) + len(r.events)
}

// Save writes the capture as a single-track SMF
func (r *Recorder) Save(path string) error {
	r.mu.Lock()
	events := r.timeline()
	origin := r.origin
	r.mu.Unlock()

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("shoal"))
	track.Add(0, smf.MetaTempo(recorderTempo))

	var lastTick uint32
	for _, ev := range events {
		offset := ev.at.Sub(origin)
		if offset < 0 {
			offset = 0
		}
		tick := ticksAt(offset)
		if tick < lastTick {
			tick = lastTick
		}
		track.Add(tick-lastTick, ev.msg)
		lastTick = tick
	}
	track.Close(0)

	file := smf.New()
	file.TimeFormat = recorderResolution
	if err := file.Add(track); err != nil {
		return fmt.Errorf("recorder: add track: %w", err)
	}
	if err := file.WriteFile(path); err != nil {
		return fmt.Errorf("recorder: write %s: %w", path, err)
	}
	return nil
}

// add appends a control event, caller holds mu
func (r *Recorder) add(at time.Time, msg midi.Message) {
	r.events = append(r.events, recordedEvent{at: at, seq: r.next(), msg: msg})
}

func (r *Recorder) next() int {
	r.seq++
	return r.seq
}

// timeline merges notes and control changes in time order, caller holds mu
// Overlapping notes on one key share a single note-off, sent when the last of them ends
func (r *Recorder) timeline() []recordedEvent {
	const (
		edgeControl = iota
		edgeOn
		edgeOff
	)
	type edge struct {
		recordedEvent
		key  uint8
		kind int
	}

	edges := make([]edge, 0, 2*len(r.notes)+len(r.events))
	for _, ev := range r.events {
		edges = append(edges, edge{recordedEvent: ev, kind: edgeControl})
	}
	for _, n := range r.notes {
		edges = append(edges,
			edge{recordedEvent{at: n.start, seq: n.seq, msg: midi.NoteOn(recorderChannel, n.key, n.vel)}, n.key, edgeOn},
			edge{recordedEvent{at: n.end, seq: n.seq, msg: midi.NoteOff(recorderChannel, n.key)}, n.key, edgeOff},
		)
	}

	// Same instant: a note's own on before its off, other note-offs first, then insertion order
	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		if a.seq == b.seq {
			return a.kind == edgeOn
		}
		if (a.kind == edgeOff) != (b.kind == edgeOff) {
			return a.kind == edgeOff
		}
		return a.seq < b.seq
	})

	held := make(map[uint8]int)
	out := make([]recordedEvent, 0, len(edges))
	for _, e := range edges {
		switch e.kind {
		case edgeOn:
			held[e.key]++
		case edgeOff:
			held[e.key]--
			if held[e.key] > 0 {
				continue
			}
		}
		out = append(out, e.recordedEvent)
	}
	return out
}
// ticksAt converts elapsed time to ticks at the fixed tempo and resolution
func ticksAt(d time.Duration) uint32 {
	beats := d.Seconds() * recorderTempo / 60
	return uint32(math.Round(beats * float64(recorderResolution)))
}

func midiKey(p core.Pitch) (uint8, bool) {
	n := p.MIDI()
	if n < 0 || n > 127 {
		return 0, false
	}
	return uint8(n), true
}
