package input

// State is the interaction controller state
type State uint8

const (
	StateIdle     State = iota // No pointer held, swarm runs autonomously
	StateDragging              // Primary button held, swarm steers toward the pointer
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	}
	return "unknown"
}

// ReleasePolicy decides what a new press does to a pending target clear
type ReleasePolicy uint8

const (
	// ClearAtDeadline lets a pending clear fire at its original deadline even if the
	// pointer was pressed again meanwhile
	ClearAtDeadline ReleasePolicy = iota
	// CancelOnPress drops the pending clear when the pointer is pressed again
	CancelOnPress
)

func (p ReleasePolicy) String() string {
	if p == CancelOnPress {
		return "cancel-on-press"
	}
	return "clear-at-deadline"
}
