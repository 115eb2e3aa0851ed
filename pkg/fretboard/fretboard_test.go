package fretboard_test

import (
	"errors"
	"math"
	"testing"

	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bassTuning     = fretboard.Tuning{music.E, music.A, music.D, music.G}
	standardTuning = fretboard.Tuning{music.E, music.A, music.D, music.G, music.B, music.E}
)

func mustBuild(t *testing.T, tuning fretboard.Tuning, frets int) *fretboard.Fretboard {
	t.Helper()
	b, err := fretboard.Build(tuning, frets)
	require.NoError(t, err)
	return b
}

// TestBuild_Errors verifies that Build rejects bad tunings and fret counts
func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name   string
		tuning fretboard.Tuning
		frets  int
		err    error
	}{
		{"EmptyTuning", fretboard.Tuning{}, 12, fretboard.ErrInvalidTuning},
		{"NilTuning", nil, 12, fretboard.ErrInvalidTuning},
		{"PitchTooHigh", fretboard.Tuning{music.E, 12}, 12, fretboard.ErrInvalidTuning},
		{"NegativePitch", fretboard.Tuning{-1}, 12, fretboard.ErrInvalidTuning},
		{"NegativeFrets", bassTuning, -1, fretboard.ErrInvalidFretCount},
		{"TooManyFrets", bassTuning, fretboard.MaxFrets + 1, fretboard.ErrInvalidFretCount},
		{"HugeFrets", bassTuning, math.MaxInt, fretboard.ErrInvalidFretCount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fretboard.Build(tc.tuning, tc.frets)
			if !errors.Is(err, tc.err) {
				t.Errorf("Build(%v, %d) error = %v; want %v", tc.tuning, tc.frets, err, tc.err)
			}
		})
	}
}

func TestBuild_MaxFrets(t *testing.T) {
	b := mustBuild(t, bassTuning, fretboard.MaxFrets)
	assert.Equal(t, fretboard.MaxFrets, b.Frets())
	p, ok := b.At(fretboard.Coordinate{String: 0, Fret: fretboard.MaxFrets})
	require.True(t, ok)
	assert.Equal(t, music.E, p)
}

func TestBuildFromNames(t *testing.T) {
	b, err := fretboard.BuildFromNames([]string{"E", "A", "D", "G"}, 15)
	require.NoError(t, err)
	assert.Equal(t, bassTuning, b.Tuning())

	_, err = fretboard.BuildFromNames([]string{"E", "Q"}, 15)
	assert.ErrorIs(t, err, fretboard.ErrInvalidTuning)
	assert.ErrorIs(t, err, music.ErrUnknownPitch)

	_, err = fretboard.BuildFromNames(nil, 15)
	assert.ErrorIs(t, err, fretboard.ErrInvalidTuning)
}

func TestBuild_Dimensions(t *testing.T) {
	b := mustBuild(t, bassTuning, 15)
	assert.Equal(t, 4, b.Strings())
	assert.Equal(t, 15, b.Frets())
	for s := 0; s < b.Strings(); s++ {
		assert.Len(t, b.Row(s), 16)
	}
	assert.Nil(t, b.Row(4))
	assert.Nil(t, b.Row(-1))

	zero := mustBuild(t, bassTuning, 0)
	assert.Len(t, zero.Row(0), 1)
}

func TestBuild_OpenStringInvariant(t *testing.T) {
	b := mustBuild(t, standardTuning, 22)
	for s, open := range standardTuning {
		p, ok := b.At(fretboard.Coordinate{String: s, Fret: 0})
		require.True(t, ok)
		assert.Equal(t, open, p, "string %d", s)
	}
}

func TestBuild_Periodicity(t *testing.T) {
	b := mustBuild(t, standardTuning, 30)
	for s := 0; s < b.Strings(); s++ {
		for f := 0; f+12 <= b.Frets(); f++ {
			p1, _ := b.At(fretboard.Coordinate{String: s, Fret: f})
			p2, _ := b.At(fretboard.Coordinate{String: s, Fret: f + 12})
			assert.Equal(t, p1, p2, "string %d fret %d", s, f)
		}
	}
}

func TestBuild_SemitonePerFret(t *testing.T) {
	b := mustBuild(t, bassTuning, 15)
	expected := []string{"E", "F", "F#", "G", "G#", "A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G"}
	assert.Equal(t, expected, music.Names(b.Row(0)))
}

func TestBuild_Idempotent(t *testing.T) {
	a := mustBuild(t, standardTuning, 15)
	b := mustBuild(t, standardTuning, 15)
	assert.Equal(t, a, b)
}

func TestBuild_CopiesTuning(t *testing.T) {
	tuning := fretboard.Tuning{music.E, music.A}
	b := mustBuild(t, tuning, 5)
	tuning[0] = music.C

	p, _ := b.At(fretboard.Coordinate{String: 0, Fret: 0})
	assert.Equal(t, music.E, p)

	got := b.Tuning()
	got[1] = music.C
	assert.Equal(t, fretboard.Tuning{music.E, music.A}, b.Tuning())
}

func TestRetune_LeavesOriginalUntouched(t *testing.T) {
	bass := mustBuild(t, bassTuning, 15)
	dropD, err := bass.Retune(fretboard.Tuning{music.D, music.A, music.D, music.G})
	require.NoError(t, err)

	assert.Equal(t, 15, dropD.Frets())
	p, _ := dropD.At(fretboard.Coordinate{String: 0, Fret: 0})
	assert.Equal(t, music.D, p)

	p, _ = bass.At(fretboard.Coordinate{String: 0, Fret: 0})
	assert.Equal(t, music.E, p)
	assert.Equal(t, bassTuning, bass.Tuning())

	_, err = bass.Retune(nil)
	assert.ErrorIs(t, err, fretboard.ErrInvalidTuning)
}

func TestAt_OutOfBounds(t *testing.T) {
	b := mustBuild(t, bassTuning, 15)
	for _, c := range []fretboard.Coordinate{{String: -1}, {String: 4}, {Fret: -1}, {Fret: 16}} {
		_, ok := b.At(c)
		assert.False(t, ok, "At(%v)", c)
		assert.False(t, b.Contains(c))
	}
	assert.True(t, b.Contains(fretboard.Coordinate{String: 3, Fret: 15}))
}

func TestPositionsOf_StandardE(t *testing.T) {
	b := mustBuild(t, standardTuning, 15)
	positions := b.PositionsOf(music.E)

	assert.GreaterOrEqual(t, len(positions), 6)
	assert.Contains(t, positions, fretboard.Coordinate{String: 0, Fret: 0})
	assert.Contains(t, positions, fretboard.Coordinate{String: 5, Fret: 0})

	strings := map[int]bool{}
	for _, c := range positions {
		strings[c.String] = true
		p, ok := b.At(c)
		require.True(t, ok)
		assert.Equal(t, music.E, p)
	}
	assert.Len(t, strings, 6)
}

func TestPositionsOf_RowMajor(t *testing.T) {
	b := mustBuild(t, bassTuning, 15)
	expected := []fretboard.Coordinate{
		{String: 0, Fret: 5},
		{String: 1, Fret: 0},
		{String: 1, Fret: 12},
		{String: 2, Fret: 7},
		{String: 3, Fret: 2},
		{String: 3, Fret: 14},
	}
	assert.Equal(t, expected, b.PositionsOf(music.A))
}

func TestPositionsOf_EveryPitchPresent(t *testing.T) {
	for _, tuning := range []fretboard.Tuning{bassTuning, standardTuning, {music.C}} {
		b := mustBuild(t, tuning, 11)
		for _, p := range music.Alphabet() {
			assert.NotEmpty(t, b.PositionsOf(p), "tuning %v pitch %s", tuning, p)
		}
	}
}

func TestPositionsOf_ShortBoard(t *testing.T) {
	b := mustBuild(t, fretboard.Tuning{music.E}, 3)
	assert.Empty(t, b.PositionsOf(music.A))
	assert.Equal(t, []fretboard.Coordinate{{String: 0, Fret: 3}}, b.PositionsOf(music.G))
}

func TestParseTuning(t *testing.T) {
	tuning, err := fretboard.ParseTuning([]string{"D", "A", "D", "G"})
	require.NoError(t, err)
	assert.Equal(t, "D A D G", tuning.String())
}
