package input

import (
	"log"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/shoal/core"
)

// Swarm receives steering commands
type Swarm interface {
	SetTargets(target r2.Vec)
	ClearTargets()
}

// Deferrer runs a callback after a delay on the frame goroutine
type Deferrer interface {
	After(d time.Duration, fn func()) core.TaskID
	Cancel(id core.TaskID) bool
}

// Starter is the audio engine start hook
type Starter interface {
	Start() error
}

// ControllerConfig configures release behavior
type ControllerConfig struct {
	ReleaseDelay time.Duration
	Policy       ReleasePolicy
}

// Controller is the interaction state machine
// Translates pointer events into swarm targets and the shared anchor point
// Not safe for concurrent use; driven from the frame goroutine
type Controller struct {
	swarm  Swarm
	sched  Deferrer
	engine Starter
	cfg    ControllerConfig

	state  State
	anchor r2.Vec

	engineStarted bool

	// Most recent scheduled clear; earlier ones may still be queued under ClearAtDeadline
	pending       core.TaskID
	pendingClears int
}

// NewController creates an idle controller with the anchor at the given point
func NewController(swarm Swarm, sched Deferrer, engine Starter, anchor r2.Vec, cfg ControllerConfig) *Controller {
	return &Controller{
		swarm:  swarm,
		sched:  sched,
		engine: engine,
		cfg:    cfg,
		state:  StateIdle,
		anchor: anchor,
	}
}

// Handle dispatches a pointer event
func (c *Controller) Handle(ev PointerEvent) {
	switch ev.Action {
	case PointerDown:
		c.PointerDown(ev.Pos)
	case PointerMove:
		c.PointerMove(ev.Pos)
	case PointerUp:
		c.PointerUp()
	}
}

// PointerDown enters Dragging and aims the swarm at pos
// The first press also starts the audio engine
func (c *Controller) PointerDown(pos r2.Vec) {
	if !c.engineStarted {
		c.engineStarted = true
		if err := c.engine.Start(); err != nil {
			log.Printf("audio start failed, continuing silent: %v", err)
		}
	}

	if c.cfg.Policy == CancelOnPress && c.pendingClears > 0 {
		if c.sched.Cancel(c.pending) {
			c.pendingClears--
		}
	}

	c.state = StateDragging
	c.aim(pos)
}

// PointerMove updates target and anchor while Dragging; ignored when Idle
func (c *Controller) PointerMove(pos r2.Vec) {
	if c.state != StateDragging {
		return
	}
	c.aim(pos)
}

// PointerUp returns to Idle and schedules the target clear
func (c *Controller) PointerUp() {
	if c.state != StateDragging {
		return
	}
	c.state = StateIdle

	c.pending = c.sched.After(c.cfg.ReleaseDelay, c.clearTargets)
	c.pendingClears++
}

func (c *Controller) aim(pos r2.Vec) {
	c.anchor = pos
	c.swarm.SetTargets(pos)
}

func (c *Controller) clearTargets() {
	c.pendingClears--
	c.swarm.ClearTargets()
}

// State returns the current interaction state
func (c *Controller) State() State {
	return c.state
}

// Anchor returns the last point of pointer contact
func (c *Controller) Anchor() r2.Vec {
	return c.anchor
}

// SetAnchor moves the anchor without touching targets, used on resize
func (c *Controller) SetAnchor(pos r2.Vec) {
	c.anchor = pos
}

// EngineStarted reports whether the first press has happened
func (c *Controller) EngineStarted() bool {
	return c.engineStarted
}

// PendingClears returns the number of scheduled target clears
func (c *Controller) PendingClears() int {
	return c.pendingClears
}
