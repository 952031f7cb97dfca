package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidPitch is returned when a note name cannot be parsed
var ErrInvalidPitch = errors.New("invalid pitch")

// PitchClass is a semitone index within the octave, C = 0
type PitchClass int

const (
	PitchC PitchClass = iota
	PitchCSharp
	PitchD
	PitchDSharp
	PitchE
	PitchF
	PitchFSharp
	PitchG
	PitchGSharp
	PitchA
	PitchASharp
	PitchB
	pitchClassCount
)

var pitchClassNames = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (c PitchClass) String() string {
	if c < 0 || c >= pitchClassCount {
		return "?"
	}
	return pitchClassNames[c]
}

// Pitch identifies a note by class and scientific octave (C4 = middle C)
// Comparable, so it is used directly as the identity for note release
type Pitch struct {
	Class  PitchClass
	Octave int
}

// Name returns the scientific name, e.g. "A#3"
func (p Pitch) Name() string {
	return p.Class.String() + strconv.Itoa(p.Octave)
}

func (p Pitch) String() string {
	return p.Name()
}

// MIDI returns the MIDI note number, C4 = 60
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + int(p.Class)
}

// Freq returns equal-tempered frequency in Hz, A4 = 440
func (p Pitch) Freq() float64 {
	return 440.0 * math.Pow(2, float64(p.MIDI()-69)/12.0)
}

// ParsePitchClass parses a class name like "C", "A#" or "Bb"
// Enharmonics that cross the octave (B#, Cb) wrap within the class range
func ParsePitchClass(name string) (PitchClass, error) {
	class, _, rest, err := parseClass(name)
	if err != nil || rest != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}
	return class, nil
}

// ParsePitch parses names like "C3", "A#4", "Bb2" or "G-1"
func ParsePitch(name string) (Pitch, error) {
	class, octaveShift, rest, err := parseClass(name)
	if err != nil {
		return Pitch{}, err
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}

	return Pitch{Class: class, Octave: octave + octaveShift}, nil
}

// parseClass consumes the letter and optional accidental, returning the
// class, the octave correction for B#/Cb and the unparsed remainder
func parseClass(name string) (PitchClass, int, string, error) {
	if name == "" {
		return 0, 0, "", fmt.Errorf("%w: empty name", ErrInvalidPitch)
	}

	var class PitchClass
	switch name[0] {
	case 'C', 'c':
		class = PitchC
	case 'D', 'd':
		class = PitchD
	case 'E', 'e':
		class = PitchE
	case 'F', 'f':
		class = PitchF
	case 'G', 'g':
		class = PitchG
	case 'A', 'a':
		class = PitchA
	case 'B', 'b':
		class = PitchB
	default:
		return 0, 0, "", fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}

	rest := name[1:]
	if rest != "" {
		switch rest[0] {
		case '#':
			class++
			rest = rest[1:]
		case 'b':
			class--
			rest = rest[1:]
		}
	}

	shift := 0
	if class >= pitchClassCount {
		class -= pitchClassCount
		shift = 1
	} else if class < 0 {
		class += pitchClassCount
		shift = -1
	}
	return class, shift, rest, nil
}

// MustParsePitch is ParsePitch for constant tables, panics on error
func MustParsePitch(name string) Pitch {
	p, err := ParsePitch(name)
	if err != nil {
		panic(err)
	}
	return p
}
