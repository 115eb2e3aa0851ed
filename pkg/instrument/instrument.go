// Package instrument provides preset stringed instruments with their tunings
// and open-string MIDI notes
package instrument

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/music"
)

// ErrUnknownInstrument is returned by Lookup for an unregistered id
var ErrUnknownInstrument = errors.New("instrument: unknown instrument")

// CustomID is the id of instruments built by Custom
const CustomID = "custom"

// CustomFrets is the fret count for a custom tuning when none is given;
// two full cycles of the chromatic alphabet
const CustomFrets = 24

// lowestOpenNote is C2; inferred tunings stack upward from here
const lowestOpenNote = 36

// Instrument describes a tuned stringed instrument
type Instrument interface {
	Name() string
	ID() string
	Tuning() fretboard.Tuning
	OpenNotes() []uint8 // MIDI note of each open string
	Frets() int
}

// Preset is a fixed Instrument definition
type Preset struct {
	id        string
	name      string
	openNotes []uint8
	frets     int
}

// Name returns the display name
func (p *Preset) Name() string { return p.name }

// ID returns the lookup id
func (p *Preset) ID() string { return p.id }

// Frets returns the default fret count
func (p *Preset) Frets() int { return p.frets }

// OpenNotes returns a copy of the open-string MIDI notes
func (p *Preset) OpenNotes() []uint8 { return append([]uint8(nil), p.openNotes...) }

// Tuning derives the open-string pitch classes from the MIDI notes
func (p *Preset) Tuning() fretboard.Tuning {
	t := make(fretboard.Tuning, len(p.openNotes))
	for i, n := range p.openNotes {
		t[i] = music.PitchClass(int(n) % music.NumPitches)
	}
	return t
}

// Board builds the fretboard for this instrument at its default fret count
func Board(inst Instrument) (*fretboard.Fretboard, error) {
	return fretboard.Build(inst.Tuning(), inst.Frets())
}

var presets = []*Preset{
	{id: "guitar", name: "Guitar (standard E)", openNotes: []uint8{40, 45, 50, 55, 59, 64}, frets: 22},
	{id: "drop-d", name: "Guitar (drop D)", openNotes: []uint8{38, 45, 50, 55, 59, 64}, frets: 22},
	{id: "bass", name: "Bass (4-string)", openNotes: []uint8{28, 33, 38, 43}, frets: 20},
	{id: "bass5", name: "Bass (5-string)", openNotes: []uint8{23, 28, 33, 38, 43}, frets: 24},
	{id: "ukulele", name: "Ukulele (re-entrant GCEA)", openNotes: []uint8{67, 60, 64, 69}, frets: 15},
	{id: "mandolin", name: "Mandolin (GDAE)", openNotes: []uint8{55, 62, 69, 76}, frets: 20},
}

var aliases = map[string]string{
	"standard": "guitar",
	"dropd":    "drop-d",
	"bass4":    "bass",
	"uke":      "ukulele",
}

// Lookup returns the preset registered under id (case-insensitive)
func Lookup(id string) (Instrument, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	for _, p := range presets {
		if p.id == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownInstrument, id)
}

// All returns every preset sorted by id
func All() []Instrument {
	out := make([]Instrument, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Custom builds an instrument for an arbitrary tuning. Open notes are
// inferred with OpenNotesFor.
func Custom(tuning fretboard.Tuning, frets int) (Instrument, error) {
	if _, err := fretboard.Build(tuning, frets); err != nil {
		return nil, err
	}
	return &Preset{
		id:        CustomID,
		name:      fmt.Sprintf("Custom (%s)", tuning),
		openNotes: OpenNotesFor(tuning),
		frets:     frets,
	}, nil
}

// WithFrets returns a copy of inst with a different fret count
func WithFrets(inst Instrument, frets int) (Instrument, error) {
	if _, err := fretboard.Build(inst.Tuning(), frets); err != nil {
		return nil, err
	}
	return &Preset{
		id:        inst.ID(),
		name:      inst.Name(),
		openNotes: inst.OpenNotes(),
		frets:     frets,
	}, nil
}

// OpenNotesFor places string 0 at its pitch in octave 2 and every following
// string at the first matching note above the previous string. Standard
// guitar tuning comes out as E2 A2 D3 G3 B3 E4.
func OpenNotesFor(tuning fretboard.Tuning) []uint8 {
	out := make([]uint8, len(tuning))
	prev := lowestOpenNote - 1
	for i, p := range tuning {
		n := prev + 1 + music.PitchClass((prev+1)%music.NumPitches).Interval(p)
		if i == 0 {
			n = lowestOpenNote + int(p)
		}
		out[i] = uint8(n)
		prev = n
	}
	return out
}
