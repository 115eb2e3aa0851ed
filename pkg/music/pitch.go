// Package music provides pitch classes, scale patterns and note-set helpers
package music

import (
	"errors"
	"fmt"
	"strings"
)

// NumPitches is the size of the chromatic alphabet
const NumPitches = 12

// PitchClass is one of the 12 chromatic pitch classes, independent of octave
type PitchClass int

// Pitch classes in canonical order
const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// ErrUnknownPitch is returned when a pitch name cannot be parsed
var ErrUnknownPitch = errors.New("music: unknown pitch")

var pitchNames = [NumPitches]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterIndex = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// Alphabet returns the 12 pitch classes in canonical order
func Alphabet() []PitchClass {
	out := make([]PitchClass, NumPitches)
	for i := range out {
		out[i] = PitchClass(i)
	}
	return out
}

// Valid reports whether p is inside the alphabet
func (p PitchClass) Valid() bool {
	return p >= 0 && p < NumPitches
}

// String returns the sharp spelling of the pitch
func (p PitchClass) String() string {
	if !p.Valid() {
		return fmt.Sprintf("PitchClass(%d)", int(p))
	}
	return pitchNames[p]
}

// Transpose moves p by n semitones, wrapping around the alphabet
func (p PitchClass) Transpose(n int) PitchClass {
	return PitchClass(mod(int(p)+n, NumPitches))
}

// Interval returns the upward distance in semitones from p to q (0-11)
func (p PitchClass) Interval(q PitchClass) int {
	return mod(int(q)-int(p), NumPitches)
}

// MarshalText encodes the pitch by name
func (p PitchClass) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPitch, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a pitch name
func (p *PitchClass) UnmarshalText(text []byte) error {
	parsed, err := ParsePitch(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePitch parses a pitch name such as "A", "c#", "C♯", "Db" or "E♭"
func ParsePitch(name string) (PitchClass, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownPitch)
	}

	base, ok := letterIndex[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
	}

	offset := 0
	for _, r := range s[1:] {
		switch r {
		case '#', '♯':
			offset++
		case 'b', '♭':
			offset--
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
		}
	}

	return PitchClass(mod(base+offset, NumPitches)), nil
}

// ParsePitches parses every name in order, stopping at the first failure
func ParsePitches(names []string) ([]PitchClass, error) {
	out := make([]PitchClass, 0, len(names))
	for i, n := range names {
		p, err := ParsePitch(n)
		if err != nil {
			return nil, fmt.Errorf("pitch %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Names returns the sharp spelling of each pitch
func Names(pitches []PitchClass) []string {
	out := make([]string, len(pitches))
	for i, p := range pitches {
		out[i] = p.String()
	}
	return out
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
