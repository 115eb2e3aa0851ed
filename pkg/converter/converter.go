package converter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/instrument"
	"github.com/james-see/fretpath/pkg/music"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatUnknown Format = "unknown"
)

var (
	// ErrNoInstrument is returned when tabbing without an instrument
	ErrNoInstrument = errors.New("converter: no instrument configured")
	// ErrNoteOutOfRange is returned when a placed note lies above MIDI key 127
	ErrNoteOutOfRange = errors.New("converter: note out of MIDI range")
	// ErrTabMismatch is returned when a tab's tuning does not fit its instrument
	ErrTabMismatch = errors.New("converter: tab does not match instrument")
)

// maxMIDIKey is the highest MIDI note number
const maxMIDIKey = 127

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".txt", ".notes":
		return FormatText
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}

	// Standard MIDI file signature
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}

	return FormatText
}

// ParseText reads pitch names separated by whitespace or commas. Lines
// starting with '#' are comments.
func ParseText(data []byte) ([]music.PitchClass, error) {
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		})...)
	}
	return music.ParsePitches(names)
}

// ParseTab decodes a JSON tab document
func ParseTab(data []byte) (*Tab, error) {
	var tab Tab
	if err := json.Unmarshal(data, &tab); err != nil {
		return nil, fmt.Errorf("failed to parse tab: %w", err)
	}
	return &tab, nil
}

// TabPitches places pitches on the instrument's fretboard
func (c *Converter) TabPitches(pitches []music.PitchClass) (*Tab, error) {
	if c.instrument == nil {
		return nil, ErrNoInstrument
	}

	board, err := fretboard.Build(c.instrument.Tuning(), c.instrument.Frets())
	if err != nil {
		return nil, err
	}

	coords, err := board.TabSequence(pitches, c.options()...)
	if err != nil {
		return nil, err
	}

	return c.newTab(board, coords)
}

func (c *Converter) newTab(board *fretboard.Fretboard, coords []fretboard.Coordinate) (*Tab, error) {
	open := c.instrument.OpenNotes()
	tab := &Tab{
		Instrument: c.instrument.ID(),
		Tuning:     music.Names(board.Tuning()),
		Frets:      board.Frets(),
		Span:       c.span,
		Notes:      make([]TabbedNote, len(coords)),
		Movement:   fretboard.Movement(coords),
	}
	for i, coord := range coords {
		p, _ := board.At(coord)
		key := int(open[coord.String]) + coord.Fret
		if key > maxMIDIKey {
			return nil, fmt.Errorf("%w: note %d at (%d,%d) is key %d",
				ErrNoteOutOfRange, i, coord.String, coord.Fret, key)
		}
		tab.Notes[i] = TabbedNote{
			String: coord.String,
			Fret:   coord.Fret,
			Pitch:  p.String(),
			Note:   uint8(key),
		}
	}
	return tab, nil
}

// instrumentFor returns the instrument a JSON tab was written for: its preset
// id, else its tuning, else the converter's own instrument
func (c *Converter) instrumentFor(tab *Tab) (instrument.Instrument, error) {
	inst := c.instrument
	switch {
	case tab.Instrument != "" && tab.Instrument != instrument.CustomID:
		found, err := instrument.Lookup(tab.Instrument)
		if err != nil {
			return nil, fmt.Errorf("tab instrument: %w", err)
		}
		inst = found
	case len(tab.Tuning) > 0:
		tuning, err := fretboard.ParseTuning(tab.Tuning)
		if err != nil {
			return nil, fmt.Errorf("tab tuning: %w", err)
		}
		if inst, err = instrument.Custom(tuning, tab.Frets); err != nil {
			return nil, fmt.Errorf("tab tuning: %w", err)
		}
	}

	if len(tab.Tuning) == 0 {
		return inst, nil
	}
	tuning, err := fretboard.ParseTuning(tab.Tuning)
	if err != nil {
		return nil, fmt.Errorf("tab tuning: %w", err)
	}
	want := inst.Tuning()
	if len(tuning) != len(want) {
		return nil, fmt.Errorf("%w: tab has %d strings, %s has %d",
			ErrTabMismatch, len(tuning), inst.ID(), len(want))
	}
	for s := range tuning {
		if tuning[s] != want[s] {
			return nil, fmt.Errorf("%w: string %d is %s in the tab, %s on %s",
				ErrTabMismatch, s, tuning[s], want[s], inst.ID())
		}
	}
	return inst, nil
}

// Convert converts data between formats
func (c *Converter) Convert(data []byte, from, to Format) ([]byte, error) {
	if c.instrument == nil {
		return nil, ErrNoInstrument
	}

	midiConv := NewMIDIConverter()

	if from == FormatJSON && to == FormatMIDI {
		tab, err := ParseTab(data)
		if err != nil {
			return nil, err
		}
		inst, err := c.instrumentFor(tab)
		if err != nil {
			return nil, err
		}
		return midiConv.GenerateMIDI(inst.OpenNotes(), tab.Coordinates())
	}

	var pitches []music.PitchClass
	var err error
	switch from {
	case FormatText:
		pitches, err = ParseText(data)
	case FormatMIDI:
		pitches, err = midiConv.ParseMIDI(data)
	default:
		return nil, fmt.Errorf("unsupported conversion: %s to %s", from, to)
	}
	if err != nil {
		return nil, err
	}

	tab, err := c.TabPitches(pitches)
	if err != nil {
		return nil, err
	}

	switch to {
	case FormatJSON:
		return json.MarshalIndent(tab, "", "  ")
	case FormatMIDI:
		return midiConv.GenerateMIDI(c.instrument.OpenNotes(), tab.Coordinates())
	default:
		return nil, fmt.Errorf("unsupported conversion: %s to %s", from, to)
	}
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}

	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	outputData, err := c.Convert(data, inputFormat, outputFormat)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"text -> json",
		"text -> midi",
		"midi -> json",
		"midi -> midi",
		"json -> midi",
	}
}
