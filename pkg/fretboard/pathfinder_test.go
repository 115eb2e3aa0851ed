package fretboard_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

func aMajor(t *testing.T) []music.PitchClass {
	t.Helper()
	s, err := music.NewScale("A", "Major")
	require.NoError(t, err)
	return s.Notes
}

func TestTabSequence_AMajorOnBass(t *testing.T) {
	b := mustBuild(t, bassTuning, 15)
	start := fretboard.Coordinate{String: 0, Fret: 5}

	tab, err := b.TabSequence(aMajor(t), fretboard.WithStart(start))
	require.NoError(t, err)

	expected := []fretboard.Coordinate{
		{String: 0, Fret: 5},
		{String: 0, Fret: 7},
		{String: 0, Fret: 9},
		{String: 0, Fret: 10},
		{String: 0, Fret: 12},
		{String: 0, Fret: 14},
		{String: 1, Fret: 11},
	}
	assert.Equal(t, expected, tab)

	for i, c := range tab {
		p, ok := b.At(c)
		require.True(t, ok)
		assert.Equal(t, aMajor(t)[i], p, "step %d", i)
		if i > 0 {
			assert.LessOrEqual(t, abs(c.String-tab[i-1].String), 1)
		}
	}
}

// The open low string holds E, not A; the start is still honoured as given
func TestTabSequence_StartPitchMismatch(t *testing.T) {
	b := mustBuild(t, bassTuning, 15)
	start := fretboard.Coordinate{String: 0, Fret: 0}
	pitches := aMajor(t)

	assert.False(t, fretboard.StartMatches(b, pitches, start))
	assert.True(t, fretboard.StartMatches(b, pitches, fretboard.Coordinate{String: 0, Fret: 5}))
	assert.True(t, fretboard.StartMatches(b, nil, start))

	tab, err := fretboard.TabSequence(b, pitches, fretboard.WithStart(start))
	require.NoError(t, err)
	assert.Len(t, tab, len(pitches))
	assert.Equal(t, start, tab[0])
	for i := 1; i < len(tab); i++ {
		assert.LessOrEqual(t, abs(tab[i].String-tab[i-1].String), 1)
	}
}

func TestTabSequence_Empty(t *testing.T) {
	b := mustBuild(t, bassTuning, 15)
	cases := []struct {
		name string
		opts []fretboard.Option
	}{
		{"defaults", nil},
		{"negative span", []fretboard.Option{fretboard.WithSpan(-3)}},
		{"off-board start", []fretboard.Option{fretboard.WithStart(fretboard.Coordinate{String: 99})}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tab, err := b.TabSequence(nil, tc.opts...)
			require.NoError(t, err)
			assert.NotNil(t, tab)
			assert.Empty(t, tab)
		})
	}
}

func TestTabSequence_Errors(t *testing.T) {
	b := mustBuild(t, bassTuning, 0)
	cases := []struct {
		name    string
		pitches []music.PitchClass
		opts    []fretboard.Option
		err     error
	}{
		{"NegativeSpan", []music.PitchClass{music.E}, []fretboard.Option{fretboard.WithSpan(-1)}, fretboard.ErrInvalidSpan},
		{"StartOffBoard", []music.PitchClass{music.E}, []fretboard.Option{fretboard.WithStart(fretboard.Coordinate{String: 0, Fret: 1})}, fretboard.ErrStartOutOfBounds},
		{"StartNegative", []music.PitchClass{music.E}, []fretboard.Option{fretboard.WithStart(fretboard.Coordinate{String: -1})}, fretboard.ErrStartOutOfBounds},
		{"FirstPitchAbsent", []music.PitchClass{music.C}, nil, fretboard.ErrPitchNotOnBoard},
		{"NextPitchAbsent", []music.PitchClass{music.E, music.C}, []fretboard.Option{fretboard.WithStart(fretboard.Coordinate{})}, fretboard.ErrNoReachablePosition},
		{"OutOfSpan", []music.PitchClass{music.E, music.G}, []fretboard.Option{fretboard.WithStart(fretboard.Coordinate{})}, fretboard.ErrNoReachablePosition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tab, err := b.TabSequence(tc.pitches, tc.opts...)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, tab)
		})
	}
}

func TestTabSequence_SpanWidensReach(t *testing.T) {
	b := mustBuild(t, bassTuning, 0)
	pitches := []music.PitchClass{music.E, music.G}
	start := fretboard.WithStart(fretboard.Coordinate{})

	_, err := b.TabSequence(pitches, start, fretboard.WithSpan(2))
	assert.ErrorIs(t, err, fretboard.ErrNoReachablePosition)

	tab, err := b.TabSequence(pitches, start, fretboard.WithSpan(3))
	require.NoError(t, err)
	assert.Equal(t, fretboard.Coordinate{String: 3, Fret: 0}, tab[1])
}

func TestTabSequence_SpanZeroStaysOnString(t *testing.T) {
	b := mustBuild(t, standardTuning, 22)
	s, err := music.NewScale("E", "minor")
	require.NoError(t, err)

	tab, err := b.TabSequence(s.Notes, fretboard.WithStart(fretboard.Coordinate{String: 2, Fret: 2}), fretboard.WithSpan(0))
	require.NoError(t, err)
	for _, c := range tab {
		assert.Equal(t, 2, c.String)
	}
}

func TestTabSequence_TieBreakRowMajor(t *testing.T) {
	// From F# at fret 6, both C positions on each string are 6 frets away
	single := mustBuild(t, fretboard.Tuning{music.C}, 24)
	tab, err := single.TabSequence([]music.PitchClass{music.FSharp, music.C}, fretboard.WithStart(fretboard.Coordinate{Fret: 6}))
	require.NoError(t, err)
	assert.Equal(t, fretboard.Coordinate{String: 0, Fret: 0}, tab[1])

	double := mustBuild(t, fretboard.Tuning{music.C, music.C}, 12)
	tab, err = double.TabSequence([]music.PitchClass{music.FSharp, music.C}, fretboard.WithStart(fretboard.Coordinate{String: 1, Fret: 6}))
	require.NoError(t, err)
	assert.Equal(t, fretboard.Coordinate{String: 1, Fret: 0}, tab[1])

	// Equal distance on the string below and above: the lower string wins
	triple := mustBuild(t, fretboard.Tuning{music.D, music.C, music.D}, 0)
	tab, err = triple.TabSequence([]music.PitchClass{music.C, music.D}, fretboard.WithStart(fretboard.Coordinate{String: 1}))
	require.NoError(t, err)
	assert.Equal(t, fretboard.Coordinate{String: 0, Fret: 0}, tab[1])
}

func TestTabSequence_RepeatedPitchStaysPut(t *testing.T) {
	b := mustBuild(t, standardTuning, 15)
	start := fretboard.Coordinate{String: 3, Fret: 4}
	tab, err := b.TabSequence([]music.PitchClass{music.B, music.B, music.B}, fretboard.WithStart(start))
	require.NoError(t, err)
	assert.Equal(t, []fretboard.Coordinate{start, start, start}, tab)
}

func TestTabSequence_RandomStart(t *testing.T) {
	b := mustBuild(t, bassTuning, 15)
	pitches := aMajor(t)
	positions := b.PositionsOf(pitches[0])

	for i := range positions {
		tab, err := b.TabSequence(pitches, fretboard.WithRand(fixedRand(i)))
		require.NoError(t, err)
		assert.Equal(t, positions[i], tab[0])
		assert.Len(t, tab, len(pitches))
	}
}

func TestTabSequence_SeedReproducible(t *testing.T) {
	b := mustBuild(t, standardTuning, 22)
	pitches := aMajor(t)

	first, err := b.TabSequence(pitches, fretboard.WithSeed(42))
	require.NoError(t, err)
	second, err := b.TabSequence(pitches, fretboard.WithRand(rand.New(rand.NewPCG(42, 42))))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, b.PositionsOf(pitches[0]), first[0])
}

func TestTabSequence_DefaultRand(t *testing.T) {
	b := mustBuild(t, standardTuning, 22)
	pitches := aMajor(t)

	tab, err := b.TabSequence(pitches, fretboard.WithRand(nil))
	require.NoError(t, err)
	assert.Len(t, tab, len(pitches))
	assert.Contains(t, b.PositionsOf(pitches[0]), tab[0])
}

func TestTabSequence_ClosestCandidate(t *testing.T) {
	b := mustBuild(t, standardTuning, 22)
	pitches := []music.PitchClass{music.A, music.C, music.E, music.G, music.B, music.D}
	tab, err := b.TabSequence(pitches, fretboard.WithStart(fretboard.Coordinate{String: 1, Fret: 0}), fretboard.WithSpan(2))
	require.NoError(t, err)

	for i := 1; i < len(tab); i++ {
		prev := tab[i-1]
		chosen := fretboard.Distance(prev, tab[i])
		for _, c := range b.PositionsOf(pitches[i]) {
			if abs(c.String-prev.String) > 2 {
				continue
			}
			assert.LessOrEqual(t, chosen, fretboard.Distance(prev, c), "step %d candidate %v", i, c)
		}
	}
}

func TestMovement(t *testing.T) {
	tab := []fretboard.Coordinate{{String: 0, Fret: 0}, {String: 0, Fret: 3}, {String: 1, Fret: 3}, {String: 2, Fret: 4}}
	assert.InDelta(t, 3+1+math.Sqrt2, fretboard.Movement(tab), 1e-9)
	assert.Zero(t, fretboard.Movement(nil))
	assert.Zero(t, fretboard.Movement(tab[:1]))
	assert.InDelta(t, 5.0, fretboard.Distance(fretboard.Coordinate{}, fretboard.Coordinate{String: 3, Fret: 4}), 1e-9)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
