package engine

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/audio"
	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/input"
	"github.com/lixenwraith/shoal/parameter"
	"github.com/lixenwraith/shoal/physics"
	"github.com/lixenwraith/shoal/status"
	"github.com/lixenwraith/shoal/swarm"
)

var testViewport = core.Rect{Width: 960, Height: 640}

// countingEngine records collaborator calls
type countingEngine struct {
	audio.Nop
	starts   int
	attacks  int
	releases int
	cutoffs  int
}

func (e *countingEngine) Start() error {
	e.starts++
	return nil
}

func (e *countingEngine) TriggerAttackRelease(core.Pitch, time.Duration, time.Duration, float64) {
	e.attacks++
}

func (e *countingEngine) TriggerRelease(core.Pitch) { e.releases++ }

func (e *countingEngine) SetFilterCutoff(float64) { e.cutoffs++ }

type recordingDisplay struct {
	positions map[int]r2.Vec
	active    map[core.CellPos]bool
}

func newRecordingDisplay() *recordingDisplay {
	return &recordingDisplay{
		positions: make(map[int]r2.Vec),
		active:    make(map[core.CellPos]bool),
	}
}

func (d *recordingDisplay) SetParticleScreenPosition(id int, x, y float64) {
	d.positions[id] = r2.Vec{X: x, Y: y}
}

func (d *recordingDisplay) SetCellActive(col, row int, active bool) {
	d.active[core.CellPos{Col: col, Row: row}] = active
}

func newTestSimulation(t *testing.T, mutate func(*parameter.Config)) (*Simulation, *MockTimeProvider, *countingEngine) {
	t.Helper()
	cfg := parameter.Default()
	cfg.Seed = 7
	if mutate != nil {
		mutate(cfg)
	}
	clock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	eng := &countingEngine{}
	sim, err := NewSimulation(cfg, testViewport, eng, nil, clock, nil)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return sim, clock, eng
}

// step advances the clock by one frame interval and runs a frame
func step(sim *Simulation, clock *MockTimeProvider) {
	clock.Advance(parameter.FrameInterval)
	sim.Frame()
}

func TestSimulationRejectsInvalidConfig(t *testing.T) {
	cfg := parameter.Default()
	cfg.Grid.Cols = 0
	clock := NewMockTimeProvider(time.Now())
	if _, err := NewSimulation(cfg, testViewport, audio.Nop{}, nil, clock, nil); err == nil {
		t.Error("expected error for zero columns")
	}
}

func TestPressReleaseReturnsToAutonomous(t *testing.T) {
	sim, clock, _ := newTestSimulation(t, nil)
	target := r2.Vec{X: 480, Y: 320}

	sim.HandlePointer(input.PointerEvent{Action: input.PointerDown, Pos: target})
	sim.HandlePointer(input.PointerEvent{Action: input.PointerUp})

	if got := sim.Store().SteeringCount(); got != sim.Store().Len() {
		t.Fatalf("steering after press = %d, want all %d", got, sim.Store().Len())
	}

	clock.Advance(499 * time.Millisecond)
	sim.Frame()
	if got := sim.Store().SteeringCount(); got != sim.Store().Len() {
		t.Errorf("targets cleared early: steering = %d", got)
	}

	clock.Advance(1 * time.Millisecond)
	sim.Frame()
	if got := sim.Store().SteeringCount(); got != 0 {
		t.Errorf("steering = %d 500ms after release, want 0", got)
	}
	sim.Store().Each(func(p *swarm.Particle) {
		if p.Mode.Kind != swarm.ModeAutonomous {
			t.Errorf("particle %d mode = %v", p.ID, p.Mode.Kind)
		}
	})

	// Anchor stays at the last contact point
	if sim.Controller().Anchor() != target {
		t.Errorf("anchor = %v, want %v", sim.Controller().Anchor(), target)
	}
}

func TestRepressKeepsOriginalDeadline(t *testing.T) {
	sim, clock, _ := newTestSimulation(t, nil)

	sim.HandlePointer(input.PointerEvent{Action: input.PointerDown, Pos: r2.Vec{X: 100, Y: 100}})
	sim.HandlePointer(input.PointerEvent{Action: input.PointerUp})

	clock.Advance(250 * time.Millisecond)
	sim.HandlePointer(input.PointerEvent{Action: input.PointerDown, Pos: r2.Vec{X: 200, Y: 200}})

	clock.Advance(250 * time.Millisecond)
	sim.Frame()

	if sim.Store().SteeringCount() != 0 {
		t.Error("pending clear should land at its original deadline while the pointer is held")
	}
	if sim.Controller().State() != input.StateDragging {
		t.Errorf("state = %v, want dragging", sim.Controller().State())
	}
}

func TestRepressCancelsWithCancelOnPress(t *testing.T) {
	sim, clock, _ := newTestSimulation(t, func(c *parameter.Config) {
		c.Input.CancelOnPress = true
	})

	sim.HandlePointer(input.PointerEvent{Action: input.PointerDown, Pos: r2.Vec{X: 100, Y: 100}})
	sim.HandlePointer(input.PointerEvent{Action: input.PointerUp})

	clock.Advance(250 * time.Millisecond)
	sim.HandlePointer(input.PointerEvent{Action: input.PointerDown, Pos: r2.Vec{X: 200, Y: 200}})

	clock.Advance(time.Second)
	sim.Frame()

	if got := sim.Store().SteeringCount(); got != sim.Store().Len() {
		t.Errorf("steering = %d, press should have cancelled the clear", got)
	}
	if sim.Scheduler().Pending() != 0 {
		t.Errorf("pending tasks = %d", sim.Scheduler().Pending())
	}
}

func TestEngineStartsOnFirstPressOnly(t *testing.T) {
	sim, clock, eng := newTestSimulation(t, nil)

	step(sim, clock)
	if eng.starts != 0 {
		t.Fatal("engine started before any press")
	}

	for i := 0; i < 3; i++ {
		sim.HandlePointer(input.PointerEvent{Action: input.PointerDown, Pos: r2.Vec{X: 10, Y: 10}})
		sim.HandlePointer(input.PointerEvent{Action: input.PointerUp})
		step(sim, clock)
	}

	if eng.starts != 1 {
		t.Errorf("engine started %d times, want 1", eng.starts)
	}
}

func TestFramePushesPositionsAndTriggers(t *testing.T) {
	cfg := parameter.Default()
	cfg.Seed = 3
	cfg.Trigger.Probability = 1
	clock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	eng := &countingEngine{}
	display := newRecordingDisplay()
	reg := status.NewRegistry()

	sim, err := NewSimulation(cfg, testViewport, eng, display, clock, reg)
	if err != nil {
		t.Fatal(err)
	}

	step(sim, clock)

	if len(display.positions) != cfg.Particles {
		t.Errorf("positions pushed for %d particles, want %d", len(display.positions), cfg.Particles)
	}
	sim.Store().Each(func(p *swarm.Particle) {
		if display.positions[p.ID] != p.Pos {
			t.Errorf("particle %d display %v, store %v", p.ID, display.positions[p.ID], p.Pos)
		}
	})

	st := sim.Stats()
	if st.Transitions == 0 {
		t.Fatal("no transitions on the first frame")
	}
	if st.Notes != st.Transitions || uint64(eng.attacks) != st.Notes {
		t.Errorf("probability 1: notes=%d transitions=%d attacks=%d", st.Notes, st.Transitions, eng.attacks)
	}
	if uint64(eng.cutoffs) != st.Transitions {
		t.Errorf("cutoff updates = %d, want one per transition", eng.cutoffs)
	}
	if len(display.active) == 0 {
		t.Error("no cell highlighted")
	}

	if got := reg.Ints.Get(MetricFrames).Load(); got != 1 {
		t.Errorf("published frames = %d", got)
	}
	if got := reg.Ints.Get(MetricNotes).Load(); uint64(got) != st.Notes {
		t.Errorf("published notes = %d, stats %d", got, st.Notes)
	}
	if reg.Strings.Get(MetricState).Load() != "idle" {
		t.Errorf("published state = %q", reg.Strings.Get(MetricState).Load())
	}
}

func TestSpeedBoundsHoldAcrossModes(t *testing.T) {
	sim, clock, _ := newTestSimulation(t, nil)
	params := physics.DefaultParams()
	const eps = 1e-9

	check := func(phase string, limit float64) {
		sim.Store().Each(func(p *swarm.Particle) {
			if s := physics.Speed(p); s > limit+eps {
				t.Fatalf("%s: particle %d speed %v exceeds %v", phase, p.ID, s, limit)
			}
		})
	}

	for i := 0; i < 120; i++ {
		step(sim, clock)
		check("autonomous", params.ShoalingSpeedLimit)
	}

	sim.HandlePointer(input.PointerEvent{Action: input.PointerDown, Pos: r2.Vec{X: 900, Y: 600}})
	for i := 0; i < 120; i++ {
		sim.HandlePointer(input.PointerEvent{Action: input.PointerMove, Pos: r2.Vec{X: float64(900 - i*5), Y: 600}})
		step(sim, clock)
		check("steering", params.SchoolingSpeedLimit)
	}
}

func TestSteeringGathersAtTarget(t *testing.T) {
	sim, clock, _ := newTestSimulation(t, nil)
	target := r2.Vec{X: 480, Y: 320}

	sim.HandlePointer(input.PointerEvent{Action: input.PointerDown, Pos: target})
	for i := 0; i < 600; i++ {
		step(sim, clock)
	}

	sim.Store().Each(func(p *swarm.Particle) {
		// Velocity persists between frames, so particles orbit the target rather than settle
		if d := r2.Norm(r2.Sub(p.Pos, target)); d > 60 || math.IsNaN(d) {
			t.Errorf("particle %d strayed %.2f from target", p.ID, d)
		}
	})
}

func TestResizeMovesGridBounds(t *testing.T) {
	sim, _, _ := newTestSimulation(t, nil)

	small := core.Rect{Width: 320, Height: 160}
	sim.Resize(small)

	if sim.Viewport() != small || sim.Mapper().Bounds != small {
		t.Errorf("viewport %v bounds %v", sim.Viewport(), sim.Mapper().Bounds)
	}
	a := sim.Controller().Anchor()
	if !small.Contains(a.X, a.Y) {
		t.Errorf("anchor %v left outside the resized viewport", a)
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{State: input.StateDragging, Steering: 10, Sounding: 2, Transitions: 5, Notes: 3, Cutoff: 4200}
	want := "dragging steer:10 sound:2 trans:5 notes:3 cutoff:4200Hz"
	if got := s.String(); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
