package audio

import (
	"time"

	"github.com/lixenwraith/shoal/core"
)

// Nop discards every call, for muted or headless runs
type Nop struct{}

func (Nop) Start() error { return nil }

func (Nop) TriggerAttackRelease(core.Pitch, time.Duration, time.Duration, float64) {}

func (Nop) TriggerRelease(core.Pitch) {}

func (Nop) SetFilterCutoff(float64) {}

func (Nop) Close() {}
