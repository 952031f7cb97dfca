package engine

import (
	"context"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/input"
)

// Frontend draws the world and reports its extent in world units
type Frontend interface {
	Draw()
	Viewport() core.Rect
}

// Loop interleaves terminal events and frame ticks on one goroutine
type Loop struct {
	sim      *Simulation
	frontend Frontend
	tracker  *input.PointerTracker
	interval time.Duration
}

// NewLoop creates a loop ticking every interval
func NewLoop(sim *Simulation, frontend Frontend, tracker *input.PointerTracker, interval time.Duration) *Loop {
	return &Loop{
		sim:      sim,
		frontend: frontend,
		tracker:  tracker,
		interval: interval,
	}
}

// Run processes events and frames until quit, ctx cancellation or events closing
func (l *Loop) Run(ctx context.Context, events <-chan tcell.Event) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok || !l.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			l.sim.Frame()
			l.frontend.Draw()
		}
	}
}

// handleEvent returns false when the event asks to quit
func (l *Loop) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

	case *tcell.EventMouse:
		if pev, ok := l.tracker.Translate(ev); ok {
			l.sim.HandlePointer(pev)
		}

	case *tcell.EventResize:
		vp := l.frontend.Viewport()
		log.Printf("resize: viewport %.0fx%.0f", vp.Width, vp.Height)
		l.sim.Resize(vp)
	}
	return true
}
