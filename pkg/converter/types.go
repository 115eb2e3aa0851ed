// Package converter converts between note files (MIDI, text) and fretboard
// tabs (JSON, MIDI played back through an instrument)
package converter

import (
	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/instrument"
)

// TabbedNote is a single placed note
type TabbedNote struct {
	String int    `json:"string"`
	Fret   int    `json:"fret"`
	Pitch  string `json:"pitch"`
	Note   uint8  `json:"midi"` // absolute MIDI note number
}

// Tab is the document produced for a tabbed note sequence
type Tab struct {
	Instrument string       `json:"instrument"`
	Tuning     []string     `json:"tuning"`
	Frets      int          `json:"frets"`
	Span       int          `json:"span"`
	Notes      []TabbedNote `json:"notes"`
	Movement   float64      `json:"movement"`
}

// Coordinates returns the fretboard coordinates of the tab's notes
func (t *Tab) Coordinates() []fretboard.Coordinate {
	out := make([]fretboard.Coordinate, len(t.Notes))
	for i, n := range t.Notes {
		out[i] = fretboard.Coordinate{String: n.String, Fret: n.Fret}
	}
	return out
}

// Converter tabs note sequences on an instrument
type Converter struct {
	instrument instrument.Instrument
	span       int
	start      *fretboard.Coordinate
	rand       fretboard.Rand
}

// New creates a new Converter for the instrument with span 1
func New(inst instrument.Instrument) *Converter {
	return &Converter{instrument: inst, span: fretboard.DefaultSpan}
}

// GetInstrument returns the current instrument
func (c *Converter) GetInstrument() instrument.Instrument {
	return c.instrument
}

// SetInstrument sets the instrument used for tabbing
func (c *Converter) SetInstrument(inst instrument.Instrument) {
	c.instrument = inst
}

// SetSpan sets the maximum string reach between consecutive notes
func (c *Converter) SetSpan(span int) {
	c.span = span
}

// SetStart fixes the first coordinate; nil draws it at random
func (c *Converter) SetStart(start *fretboard.Coordinate) {
	c.start = start
}

// SetRand sets the source for random starts
func (c *Converter) SetRand(r fretboard.Rand) {
	c.rand = r
}

func (c *Converter) options() []fretboard.Option {
	opts := []fretboard.Option{fretboard.WithSpan(c.span)}
	if c.start != nil {
		opts = append(opts, fretboard.WithStart(*c.start))
	}
	if c.rand != nil {
		opts = append(opts, fretboard.WithRand(c.rand))
	}
	return opts
}
