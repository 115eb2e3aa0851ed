package fretboard

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/james-see/fretpath/pkg/music"
)

// DefaultSpan is the string reach used when no span is given
const DefaultSpan = 1

// Rand picks a random index in [0, n). *rand.Rand from math/rand/v2
// satisfies it
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// TabOptions controls a TabSequence run
type TabOptions struct {
	Start *Coordinate
	Span  int
	Rand  Rand
}

// Option mutates TabOptions
type Option func(*TabOptions)

// DefaultTabOptions returns span 1, no fixed start and the shared
// auto-seeded generator
func DefaultTabOptions() TabOptions {
	return TabOptions{Span: DefaultSpan, Rand: globalRand{}}
}

// WithStart fixes the first coordinate of the tab
func WithStart(c Coordinate) Option {
	return func(o *TabOptions) {
		start := c
		o.Start = &start
	}
}

// WithSpan sets the maximum string distance between consecutive notes
func WithSpan(span int) Option {
	return func(o *TabOptions) { o.Span = span }
}

// WithRand sets the source used to draw a start when none is fixed
func WithRand(r Rand) Option {
	return func(o *TabOptions) {
		if r != nil {
			o.Rand = r
		}
	}
}

// WithSeed draws the start from a PCG generator seeded with seed
func WithSeed(seed uint64) Option {
	return WithRand(NewRand(seed))
}

// NewRand returns a PCG generator seeded with seed
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// TabSequence places each pitch on the board. The first pitch goes to the
// start coordinate (or a random position of that pitch); every later pitch
// goes to its closest position, by Euclidean distance in (string, fret)
// space, whose string lies within span of the previous one. Ties go to the
// first candidate in row-major order.
//
// An empty pitch list yields an empty tab and no error. Any failure returns
// no partial tab
func (b *Fretboard) TabSequence(pitches []music.PitchClass, opts ...Option) ([]Coordinate, error) {
	if len(pitches) == 0 {
		return []Coordinate{}, nil
	}

	o := DefaultTabOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Span < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSpan, o.Span)
	}

	current, err := b.startPosition(pitches[0], o)
	if err != nil {
		return nil, err
	}

	tab := make([]Coordinate, 0, len(pitches))
	tab = append(tab, current)

	for i, p := range pitches[1:] {
		next, ok := b.closest(p, current, o.Span)
		if !ok {
			return nil, fmt.Errorf("%w: step %d pitch %s from %s within span %d",
				ErrNoReachablePosition, i+1, p, current.pair(), o.Span)
		}
		tab = append(tab, next)
		current = next
	}

	return tab, nil
}

// TabSequence is the function form of (*Fretboard).TabSequence
func TabSequence(b *Fretboard, pitches []music.PitchClass, opts ...Option) ([]Coordinate, error) {
	return b.TabSequence(pitches, opts...)
}

func (b *Fretboard) startPosition(first music.PitchClass, o TabOptions) (Coordinate, error) {
	if o.Start != nil {
		if !b.Contains(*o.Start) {
			return Coordinate{}, fmt.Errorf("%w: %s on %d×%d board",
				ErrStartOutOfBounds, o.Start.pair(), b.Strings(), b.frets+1)
		}
		return *o.Start, nil
	}

	positions := b.PositionsOf(first)
	if len(positions) == 0 {
		return Coordinate{}, fmt.Errorf("%w: %s", ErrPitchNotOnBoard, first)
	}
	return positions[o.Rand.IntN(len(positions))], nil
}

// closest scans candidates in row-major order and keeps the first one with
// the smallest squared distance
func (b *Fretboard) closest(p music.PitchClass, from Coordinate, span int) (Coordinate, bool) {
	best := Coordinate{}
	bestDist := -1
	for _, c := range b.PositionsOf(p) {
		if abs(c.String-from.String) > span {
			continue
		}
		d := squaredDistance(c, from)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

// StartMatches reports whether start holds the first pitch. An empty pitch
// list always matches
func StartMatches(b *Fretboard, pitches []music.PitchClass, start Coordinate) bool {
	if len(pitches) == 0 {
		return true
	}
	p, ok := b.At(start)
	return ok && p == pitches[0]
}

// Distance is the Euclidean distance between two coordinates
func Distance(a, b Coordinate) float64 {
	return math.Sqrt(float64(squaredDistance(a, b)))
}

// Movement sums the distance between consecutive coordinates of a tab
func Movement(tab []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(tab); i++ {
		total += Distance(tab[i-1], tab[i])
	}
	return total
}

func squaredDistance(a, b Coordinate) int {
	ds := a.String - b.String
	df := a.Fret - b.Fret
	return ds*ds + df*df
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
