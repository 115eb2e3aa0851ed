package converter

import (
	"testing"

	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMIDI_Header(t *testing.T) {
	m := NewMIDIConverter()
	data, err := m.GenerateMIDI([]uint8{40, 45}, []fretboard.Coordinate{{String: 0, Fret: 0}})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 14)
	assert.Equal(t, "MThd", string(data[:4]))
}

func TestGenerateMIDI_Errors(t *testing.T) {
	m := NewMIDIConverter()
	tests := []struct {
		name string
		open []uint8
		tab  []fretboard.Coordinate
	}{
		{"no strings", nil, nil},
		{"string out of range", []uint8{40}, []fretboard.Coordinate{{String: 1}}},
		{"negative fret", []uint8{40}, []fretboard.Coordinate{{Fret: -1}}},
		{"key too high", []uint8{120}, []fretboard.Coordinate{{Fret: 12}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.GenerateMIDI(tt.open, tt.tab)
			assert.Error(t, err)
		})
	}
}

func TestParseMIDI_PitchClasses(t *testing.T) {
	m := NewMIDIConverter()
	tab := []fretboard.Coordinate{{String: 0, Fret: 0}, {String: 1, Fret: 2}, {String: 2, Fret: 14}}
	data, err := m.GenerateMIDI([]uint8{40, 45, 50}, tab)
	require.NoError(t, err)

	pitches, err := m.ParseMIDI(data)
	require.NoError(t, err)
	assert.Equal(t, []music.PitchClass{music.E, music.B, music.E}, pitches)
}

func TestParseMIDI_Invalid(t *testing.T) {
	_, err := NewMIDIConverter().ParseMIDI([]byte("not a midi file"))
	assert.Error(t, err)
}

func TestWriteMIDIFile(t *testing.T) {
	m := NewMIDIConverter()
	path := t.TempDir() + "/out.mid"
	require.NoError(t, m.WriteMIDIFile([]uint8{40}, []fretboard.Coordinate{{Fret: 3}}, path))

	pitches, err := m.ParseMIDIFile(path)
	require.NoError(t, err)
	assert.Equal(t, []music.PitchClass{music.G}, pitches)

	_, err = m.ParseMIDIFile(path + ".missing")
	assert.Error(t, err)
}
