package music

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePitch(t *testing.T) {
	tests := []struct {
		name     string
		expected PitchClass
	}{
		{"C", C},
		{"c", C},
		{"C#", CSharp},
		{"C♯", CSharp},
		{"Db", CSharp},
		{"D♭", CSharp},
		{"E", E},
		{"F#", FSharp},
		{"Bb", ASharp},
		{"bb", ASharp},
		{"B#", C},
		{"Cb", B},
		{" G# ", GSharp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParsePitch(tt.name)
			if err != nil {
				t.Fatalf("ParsePitch(%q) error = %v", tt.name, err)
			}
			if result != tt.expected {
				t.Errorf("ParsePitch(%q) = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestParsePitch_Invalid(t *testing.T) {
	for _, name := range []string{"", "H", "C$", "1", "ÄA"} {
		_, err := ParsePitch(name)
		if !errors.Is(err, ErrUnknownPitch) {
			t.Errorf("ParsePitch(%q) error = %v, want ErrUnknownPitch", name, err)
		}
	}
}

func TestParsePitches(t *testing.T) {
	pitches, err := ParsePitches([]string{"E", "A", "D", "G"})
	require.NoError(t, err)
	assert.Equal(t, []PitchClass{E, A, D, G}, pitches)

	_, err = ParsePitches([]string{"E", "X"})
	require.ErrorIs(t, err, ErrUnknownPitch)
	assert.Contains(t, err.Error(), "pitch 1")
}

func TestPitchClass_Transpose(t *testing.T) {
	assert.Equal(t, D, C.Transpose(2))
	assert.Equal(t, C, B.Transpose(1))
	assert.Equal(t, B, C.Transpose(-1))
	assert.Equal(t, E, E.Transpose(24))
	assert.Equal(t, A, E.Transpose(17))
}

func TestPitchClass_Interval(t *testing.T) {
	assert.Equal(t, 5, E.Interval(A))
	assert.Equal(t, 7, A.Interval(E))
	assert.Equal(t, 0, G.Interval(G))
	assert.Equal(t, 1, B.Interval(C))
}

func TestPitchClass_String(t *testing.T) {
	assert.Equal(t, "C#", CSharp.String())
	assert.Equal(t, "B", B.String())
	assert.Equal(t, "PitchClass(12)", PitchClass(12).String())
	assert.False(t, PitchClass(-1).Valid())
}

func TestPitchClass_Text(t *testing.T) {
	text, err := FSharp.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "F#", string(text))

	var p PitchClass
	require.NoError(t, p.UnmarshalText([]byte("Gb")))
	assert.Equal(t, FSharp, p)

	_, err = PitchClass(40).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownPitch)
}

func TestAlphabet(t *testing.T) {
	alphabet := Alphabet()
	require.Len(t, alphabet, NumPitches)
	for i, p := range alphabet {
		assert.Equal(t, PitchClass(i), p)
	}
	assert.Equal(t, "A", alphabet[9].String())
}
