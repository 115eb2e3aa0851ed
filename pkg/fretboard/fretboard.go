// Package fretboard models a tuned stringed instrument as a grid of pitch
// classes and finds low-movement fret positions for note sequences.
//
// A Fretboard is immutable once built. Retune returns a new board and leaves
// the receiver untouched, so one board can be shared by concurrent readers
package fretboard

import (
	"fmt"

	"github.com/james-see/fretpath/pkg/music"
)

// Tuning holds the open-string pitch of each string, string 0 first
type Tuning []music.PitchClass

// ParseTuning parses pitch names into a Tuning
func ParseTuning(names []string) (Tuning, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no strings", ErrInvalidTuning)
	}
	pitches, err := music.ParsePitches(names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTuning, err)
	}
	return Tuning(pitches), nil
}

// String renders the tuning as space-separated pitch names
func (t Tuning) String() string {
	s := ""
	for i, p := range t {
		if i > 0 {
			s += " "
		}
		s += p.String()
	}
	return s
}

// Coordinate addresses one cell of the board. Fret 0 is the open string
type Coordinate struct {
	String int `json:"string"`
	Fret   int `json:"fret"`
}

func (c Coordinate) pair() string {
	return fmt.Sprintf("(%d,%d)", c.String, c.Fret)
}

// Fretboard is a strings × (frets+1) table of pitch classes
type Fretboard struct {
	tuning Tuning
	frets  int
	cells  [][]music.PitchClass
}

// MaxFrets is the largest fret count Build accepts; four octaves past the
// open string
const MaxFrets = 48

// Build creates a fretboard for tuning with frets positions past the open
// string. Cell (s, f) holds tuning[s] raised by f semitones, so each row
// repeats the 12-pitch cycle every 12 frets
func Build(tuning Tuning, frets int) (*Fretboard, error) {
	if len(tuning) == 0 {
		return nil, fmt.Errorf("%w: no strings", ErrInvalidTuning)
	}
	for s, p := range tuning {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: string %d has pitch %d", ErrInvalidTuning, s, int(p))
		}
	}
	if frets < 0 || frets > MaxFrets {
		return nil, fmt.Errorf("%w: got %d, want 0..%d", ErrInvalidFretCount, frets, MaxFrets)
	}

	cells := make([][]music.PitchClass, len(tuning))
	for s, open := range tuning {
		row := make([]music.PitchClass, frets+1)
		for f := range row {
			row[f] = open.Transpose(f)
		}
		cells[s] = row
	}

	return &Fretboard{
		tuning: append(Tuning(nil), tuning...),
		frets:  frets,
		cells:  cells,
	}, nil
}

// BuildFromNames parses names and builds the board
func BuildFromNames(names []string, frets int) (*Fretboard, error) {
	tuning, err := ParseTuning(names)
	if err != nil {
		return nil, err
	}
	return Build(tuning, frets)
}

// Retune returns a new board with the same fret count and a new tuning
func (b *Fretboard) Retune(tuning Tuning) (*Fretboard, error) {
	return Build(tuning, b.frets)
}

// Strings returns the number of strings
func (b *Fretboard) Strings() int { return len(b.cells) }

// Frets returns the number of frets past the open string
func (b *Fretboard) Frets() int { return b.frets }

// Tuning returns a copy of the open-string pitches
func (b *Fretboard) Tuning() Tuning { return append(Tuning(nil), b.tuning...) }

// Contains reports whether c lies on the board
func (b *Fretboard) Contains(c Coordinate) bool {
	return c.String >= 0 && c.String < len(b.cells) && c.Fret >= 0 && c.Fret <= b.frets
}

// At returns the pitch at c, or false when c is off the board
func (b *Fretboard) At(c Coordinate) (music.PitchClass, bool) {
	if !b.Contains(c) {
		return 0, false
	}
	return b.cells[c.String][c.Fret], true
}

// Row returns a copy of the pitches on string s, open string first
func (b *Fretboard) Row(s int) []music.PitchClass {
	if s < 0 || s >= len(b.cells) {
		return nil
	}
	return append([]music.PitchClass(nil), b.cells[s]...)
}

// PositionsOf returns every coordinate holding p in row-major order:
// string ascending, then fret ascending
func (b *Fretboard) PositionsOf(p music.PitchClass) []Coordinate {
	out := []Coordinate{}
	for s, row := range b.cells {
		for f, cell := range row {
			if cell == p {
				out = append(out, Coordinate{String: s, Fret: f})
			}
		}
	}
	return out
}
