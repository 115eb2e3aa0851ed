package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/music"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDIConverter handles MIDI file parsing and generation
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
	velocity        uint8
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
		tempo:           120.0,
		velocity:        100,
	}
}

// ParseMIDIFile reads a MIDI file and extracts its pitch classes
func (m *MIDIConverter) ParseMIDIFile(filename string) ([]music.PitchClass, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.ParseMIDI(data)
}

// ParseMIDI returns the pitch class of every note-on in the data
func (m *MIDIConverter) ParseMIDI(data []byte) ([]music.PitchClass, error) {
	notes, err := m.ParseNotes(data)
	if err != nil {
		return nil, err
	}
	pitches := make([]music.PitchClass, len(notes))
	for i, n := range notes {
		pitches[i] = music.PitchClass(int(n) % music.NumPitches)
	}
	return pitches, nil
}

// ParseNotes returns the key of every note-on across all tracks, ordered by
// absolute tick and then by key so chords read bottom-up
func (m *MIDIConverter) ParseNotes(data []byte) ([]uint8, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	type noteEvent struct {
		tick int64
		key  uint8
	}

	var events []noteEvent
	for _, track := range s.Tracks {
		var currentTick int64
		for _, ev := range track {
			currentTick += int64(ev.Delta)

			// Note On: 0x9n key velocity; velocity 0 is a note-off
			msg := ev.Message
			if len(msg) >= 3 && msg[0] >= 0x90 && msg[0] <= 0x9F && msg[2] > 0 {
				events = append(events, noteEvent{tick: currentTick, key: msg[1]})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].key < events[j].key
	})

	notes := make([]uint8, len(events))
	for i, ev := range events {
		notes[i] = ev.key
	}
	return notes, nil
}

// GenerateMIDI plays each coordinate as a quarter note on channel 0. The
// key is the open-string note plus the fret.
func (m *MIDIConverter) GenerateMIDI(openNotes []uint8, tab []fretboard.Coordinate) ([]byte, error) {
	if len(openNotes) == 0 {
		return nil, errors.New("no open-string notes")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track

	// Tempo meta event (FF 51 03 tttttt)
	microsecondsPerBeat := uint32(60000000.0 / m.tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))

	// Time signature (4/4)
	track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))

	channel := uint8(0)
	noteLength := uint32(m.ticksPerQuarter)

	for i, c := range tab {
		if c.String < 0 || c.String >= len(openNotes) || c.Fret < 0 {
			return nil, fmt.Errorf("note %d: coordinate (%d,%d) not on instrument", i, c.String, c.Fret)
		}
		key := int(openNotes[c.String]) + c.Fret
		if key > 127 {
			return nil, fmt.Errorf("note %d: key %d out of MIDI range", i, key)
		}

		track.Add(0, midi.NoteOn(channel, uint8(key), m.velocity))
		track.Add(noteLength, midi.NoteOff(channel, uint8(key)))
	}

	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteMIDIFile writes a tab as a MIDI file
func (m *MIDIConverter) WriteMIDIFile(openNotes []uint8, tab []fretboard.Coordinate, filename string) error {
	data, err := m.GenerateMIDI(openNotes, tab)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
