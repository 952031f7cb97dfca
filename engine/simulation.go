package engine

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/audio"
	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/grid"
	"github.com/lixenwraith/shoal/input"
	"github.com/lixenwraith/shoal/parameter"
	"github.com/lixenwraith/shoal/physics"
	"github.com/lixenwraith/shoal/status"
	"github.com/lixenwraith/shoal/swarm"
	"github.com/lixenwraith/shoal/trigger"
)

// Display is the visual collaborator
type Display interface {
	SetParticleScreenPosition(id int, x, y float64)
	SetCellActive(col, row int, active bool)
}

// Status metric keys published every frame
const (
	MetricFrames      = "engine.frames"
	MetricState       = "input.state"
	MetricSteering    = "swarm.steering"
	MetricSounding    = "swarm.sounding"
	MetricTransitions = "trigger.transitions"
	MetricNotes       = "trigger.notes"
	MetricReleases    = "trigger.releases"
	MetricCutoff      = "audio.cutoff"
	MetricPending     = "engine.pending"
)

// Stats is a snapshot of simulation counters
type Stats struct {
	Frames       uint64
	State        input.State
	Steering     int
	Sounding     int
	Transitions  uint64
	Notes        uint64
	Releases     uint64
	Cutoff       float64
	PendingTasks int
}

func (s Stats) String() string {
	return fmt.Sprintf("%s steer:%d sound:%d trans:%d notes:%d cutoff:%.0fHz",
		s.State, s.Steering, s.Sounding, s.Transitions, s.Notes, s.Cutoff)
}

// Simulation owns all mutable state shared between subsystems: particles, anchor,
// filter cutoff and highlight bookkeeping
// Frame and HandlePointer must be called from the same goroutine
type Simulation struct {
	clock    Clock
	grid     *grid.Grid
	mapper   *grid.Mapper
	store    *swarm.Store
	stepper  *physics.Stepper
	trigger  *trigger.Trigger
	ctrl     *input.Controller
	sched    *Scheduler
	display  Display
	viewport core.Rect
	frames   uint64

	// Cached metric pointers, nil without a registry
	statFrames      *atomic.Int64
	statState       *status.AtomicString
	statSteering    *atomic.Int64
	statSounding    *atomic.Int64
	statTransitions *atomic.Int64
	statNotes       *atomic.Int64
	statReleases    *atomic.Int64
	statCutoff      *status.AtomicFloat
	statPending     *atomic.Int64
}

// NewGrid builds the cell table described by cfg
func NewGrid(cfg *parameter.Config) (*grid.Grid, error) {
	palette, err := cfg.PaletteClasses()
	if err != nil {
		return nil, err
	}
	return grid.New(cfg.Grid.Cols, cfg.Grid.Rows, palette, cfg.Grid.BaseOctave, cfg.Grid.MinLoudnessDb)
}

// NewSimulation wires every subsystem from cfg over viewport
// display and reg may be nil
func NewSimulation(cfg *parameter.Config, viewport core.Rect, engine audio.Engine, display Display, clock Clock, reg *status.Registry) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := NewGrid(cfg)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Simulation{
		clock:    clock,
		grid:     g,
		mapper:   grid.NewMapper(g, viewport),
		store:    swarm.NewStore(cfg.Particles, viewport, rng),
		stepper:  physics.NewStepper(physics.FromConfig(cfg.Motion)),
		sched:    NewScheduler(clock),
		display:  display,
		viewport: viewport,
	}

	var visual trigger.Visual
	if display != nil {
		visual = display
	}
	s.trigger = trigger.New(trigger.Config{
		Probability:  cfg.Trigger.Probability,
		NoteDuration: cfg.Trigger.NoteDuration,
		CutoffMin:    cfg.Trigger.CutoffMinHz,
		CutoffMax:    cfg.Trigger.CutoffMaxHz,
		Highlight:    trigger.ParseHighlightPolicy(cfg.Trigger.Highlight),
	}, g, engine, visual, rng)

	policy := input.ClearAtDeadline
	if cfg.Input.CancelOnPress {
		policy = input.CancelOnPress
	}
	s.ctrl = input.NewController(s.store, s.sched, engine, center(viewport), input.ControllerConfig{
		ReleaseDelay: cfg.Input.ReleaseDelay,
		Policy:       policy,
	})

	if reg != nil {
		s.statFrames = reg.Ints.Get(MetricFrames)
		s.statState = reg.Strings.Get(MetricState)
		s.statSteering = reg.Ints.Get(MetricSteering)
		s.statSounding = reg.Ints.Get(MetricSounding)
		s.statTransitions = reg.Ints.Get(MetricTransitions)
		s.statNotes = reg.Ints.Get(MetricNotes)
		s.statReleases = reg.Ints.Get(MetricReleases)
		s.statCutoff = reg.Floats.Get(MetricCutoff)
		s.statPending = reg.Ints.Get(MetricPending)
		s.publish()
	}

	return s, nil
}

// Frame advances the world by one display frame:
// due deferred tasks, one motion pass, then grid reaction per particle
func (s *Simulation) Frame() {
	s.sched.RunDue(s.clock.Now())

	s.stepper.Step(s.store, s.ctrl.Anchor(), s.viewport)

	s.store.Each(func(p *swarm.Particle) {
		if tr, ok := s.mapper.Transition(p.Cell, p.InGrid, p.Pos); ok {
			s.trigger.Handle(p, tr)
		}
		if s.display != nil {
			s.display.SetParticleScreenPosition(p.ID, p.Pos.X, p.Pos.Y)
		}
	})

	s.frames++
	s.publish()
}

// HandlePointer forwards a pointer event to the interaction controller
func (s *Simulation) HandlePointer(ev input.PointerEvent) {
	s.ctrl.Handle(ev)
	s.publish()
}

// Resize moves the viewport and the grid bounds with it
func (s *Simulation) Resize(viewport core.Rect) {
	s.viewport = viewport
	s.mapper.Bounds = viewport
	if !viewport.Contains(s.ctrl.Anchor().X, s.ctrl.Anchor().Y) {
		s.ctrl.SetAnchor(center(viewport))
	}
}

// Stats returns a snapshot of counters
func (s *Simulation) Stats() Stats {
	transitions, notes, releases := s.trigger.Stats()
	return Stats{
		Frames:       s.frames,
		State:        s.ctrl.State(),
		Steering:     s.store.SteeringCount(),
		Sounding:     s.store.SoundingCount(),
		Transitions:  transitions,
		Notes:        notes,
		Releases:     releases,
		Cutoff:       s.trigger.Cutoff(),
		PendingTasks: s.sched.Pending(),
	}
}

func (s *Simulation) publish() {
	if s.statFrames == nil {
		return
	}
	st := s.Stats()
	s.statFrames.Store(int64(st.Frames))
	s.statState.Store(st.State.String())
	s.statSteering.Store(int64(st.Steering))
	s.statSounding.Store(int64(st.Sounding))
	s.statTransitions.Store(int64(st.Transitions))
	s.statNotes.Store(int64(st.Notes))
	s.statReleases.Store(int64(st.Releases))
	s.statCutoff.Set(st.Cutoff)
	s.statPending.Store(int64(st.PendingTasks))
}

// Grid returns the immutable cell table
func (s *Simulation) Grid() *grid.Grid { return s.grid }

// Mapper returns the position-to-cell mapper
func (s *Simulation) Mapper() *grid.Mapper { return s.mapper }

// Store returns the particle set
func (s *Simulation) Store() *swarm.Store { return s.store }

// Controller returns the interaction controller
func (s *Simulation) Controller() *input.Controller { return s.ctrl }

// Scheduler returns the deferred task queue
func (s *Simulation) Scheduler() *Scheduler { return s.sched }

// Viewport returns the current world bounds
func (s *Simulation) Viewport() core.Rect { return s.viewport }

func center(r core.Rect) r2.Vec {
	return r2.Vec{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}
