package main

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestPollEventsStopsWhenLoopIsGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tcell.Event, 1)
	poll := func() tcell.Event {
		return tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	}

	done := make(chan struct{})
	go func() {
		pollEvents(ctx, poll, events)
		close(done)
	}()

	// Buffer fills and nobody reads; the poller must not hang after cancel
	<-events
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pollEvents blocked on a full channel after cancel")
	}
}

func TestPollEventsClosesOnNil(t *testing.T) {
	events := make(chan tcell.Event, 2)
	sent := 0
	poll := func() tcell.Event {
		if sent == 2 {
			return nil
		}
		sent++
		return tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	}

	pollEvents(context.Background(), poll, events)

	n := 0
	for range events {
		n++
	}
	if n != 2 {
		t.Errorf("received %d events, want 2", n)
	}
}
