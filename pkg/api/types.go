package api

import (
	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/instrument"
	"github.com/james-see/fretpath/pkg/music"
)

// boardRequest selects a fretboard either by instrument preset or by an
// explicit tuning. An explicit tuning wins.
type boardRequest struct {
	Instrument string   `json:"instrument"`
	Tuning     []string `json:"tuning"`
	Frets      *int     `json:"frets"`
}

func (r boardRequest) board() (*fretboard.Fretboard, error) {
	if len(r.Tuning) > 0 {
		frets := instrument.CustomFrets
		if r.Frets != nil {
			frets = *r.Frets
		}
		return fretboard.BuildFromNames(r.Tuning, frets)
	}

	inst, err := lookupInstrument(r.Instrument)
	if err != nil {
		return nil, err
	}
	frets := inst.Frets()
	if r.Frets != nil {
		frets = *r.Frets
	}
	return fretboard.Build(inst.Tuning(), frets)
}

// defaultInstrument is used when a request names no instrument
const defaultInstrument = "guitar"

func lookupInstrument(id string) (instrument.Instrument, error) {
	if id == "" {
		id = defaultInstrument
	}
	return instrument.Lookup(id)
}

// sequence is one note list to tab, with its own start, span and seed
type sequence struct {
	Notes []string              `json:"notes"`
	Start *fretboard.Coordinate `json:"start"`
	Span  *int                  `json:"span"`
	Seed  uint64                `json:"seed"`
}

func (q sequence) pitches() ([]music.PitchClass, error) {
	return music.ParsePitches(q.Notes)
}

func (q sequence) span() int {
	if q.Span == nil {
		return fretboard.DefaultSpan
	}
	return *q.Span
}

func (q sequence) options() []fretboard.Option {
	opts := []fretboard.Option{fretboard.WithSpan(q.span())}
	if q.Start != nil {
		opts = append(opts, fretboard.WithStart(*q.Start))
	}
	if q.Seed != 0 {
		opts = append(opts, fretboard.WithSeed(q.Seed))
	}
	return opts
}

type positionsRequest struct {
	boardRequest
	Pitch string `json:"pitch" binding:"required"`
}

type tabRequest struct {
	boardRequest
	sequence
}

type batchRequest struct {
	boardRequest
	Sequences []sequence `json:"sequences" binding:"required"`
}

type midiRequest struct {
	Instrument string `json:"instrument"`
	sequence
}

type sharedRequest struct {
	Collections [][]string `json:"collections" binding:"required"`
	Mode        string     `json:"mode"`
}

type instrumentInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Tuning    []string `json:"tuning"`
	OpenNotes []int    `json:"open_notes"`
	Frets     int      `json:"frets"`
}

type scaleResponse struct {
	Root    string   `json:"root"`
	Pattern string   `json:"pattern"`
	Steps   []int    `json:"steps"`
	Notes   []string `json:"notes"`
}

type sharedResponse struct {
	Notes   []string `json:"notes"`
	Lexical []string `json:"lexical"`
}

type boardResponse struct {
	Tuning  []string   `json:"tuning"`
	Frets   int        `json:"frets"`
	Strings [][]string `json:"strings"`
}

type positionsResponse struct {
	Pitch     string                 `json:"pitch"`
	Positions []fretboard.Coordinate `json:"positions"`
}

type tabStep struct {
	fretboard.Coordinate
	Pitch string `json:"pitch"`
}

type tabResponse struct {
	Tab      []tabStep `json:"tab"`
	Movement float64   `json:"movement"`
}

type batchResponse struct {
	Tabs []tabResponse `json:"tabs"`
}

func newTabResponse(board *fretboard.Fretboard, tab []fretboard.Coordinate) tabResponse {
	steps := make([]tabStep, len(tab))
	for i, c := range tab {
		p, _ := board.At(c)
		steps[i] = tabStep{Coordinate: c, Pitch: p.String()}
	}
	return tabResponse{Tab: steps, Movement: fretboard.Movement(tab)}
}

func toInts(notes []uint8) []int {
	out := make([]int, len(notes))
	for i, n := range notes {
		out[i] = int(n)
	}
	return out
}
