package swarm

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// ModeKind selects the motion behaviour of a particle
type ModeKind uint8

const (
	ModeAutonomous ModeKind = iota // jitter, anchor pull, edge push, separation
	ModeSteering                   // pull towards Target with deceleration
)

func (k ModeKind) String() string {
	switch k {
	case ModeAutonomous:
		return "autonomous"
	case ModeSteering:
		return "steering"
	}
	return "unknown"
}

// Mode is a two-state tagged value; Target is meaningful only when Kind is ModeSteering
type Mode struct {
	Kind   ModeKind
	Target r2.Vec
}

// Autonomous returns the free-swimming mode
func Autonomous() Mode {
	return Mode{Kind: ModeAutonomous}
}

// Steering returns a mode pulling towards target
func Steering(target r2.Vec) Mode {
	return Mode{Kind: ModeSteering, Target: target}
}

// CommandType identifies a mode transition input
type CommandType uint8

const (
	CommandAim     CommandType = iota // set or move the steering target
	CommandRelease                    // drop the target
)

// Command is an input to Mode.Apply
type Command struct {
	Type   CommandType
	Target r2.Vec
}

// Aim returns a command steering towards target
func Aim(target r2.Vec) Command {
	return Command{Type: CommandAim, Target: target}
}

// Release returns a command dropping the target
func Release() Command {
	return Command{Type: CommandRelease}
}

// Apply is the mode transition function
// Aim enters or stays in Steering with the new target; Release always yields Autonomous
func (m Mode) Apply(c Command) Mode {
	switch c.Type {
	case CommandAim:
		return Steering(c.Target)
	case CommandRelease:
		return Autonomous()
	}
	return m
}

// IsSteering reports whether the particle is under pointer control
func (m Mode) IsSteering() bool {
	return m.Kind == ModeSteering
}
