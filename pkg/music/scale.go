package music

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPattern is returned for a pattern name missing from the registry
var ErrUnknownPattern = errors.New("music: unknown scale pattern")

// Pattern is a named set of semitone offsets from a root
type Pattern struct {
	Name  string
	Steps []int
}

var patterns = map[string]Pattern{
	"major":            {Name: "major", Steps: []int{0, 2, 4, 5, 7, 9, 11}},
	"minor":            {Name: "minor", Steps: []int{0, 2, 3, 5, 7, 8, 10}},
	"harmonic-minor":   {Name: "harmonic-minor", Steps: []int{0, 2, 3, 5, 7, 8, 11}},
	"melodic-minor":    {Name: "melodic-minor", Steps: []int{0, 2, 3, 5, 7, 9, 11}},
	"dorian":           {Name: "dorian", Steps: []int{0, 2, 3, 5, 7, 9, 10}},
	"phrygian":         {Name: "phrygian", Steps: []int{0, 1, 3, 5, 7, 8, 10}},
	"lydian":           {Name: "lydian", Steps: []int{0, 2, 4, 6, 7, 9, 11}},
	"mixolydian":       {Name: "mixolydian", Steps: []int{0, 2, 4, 5, 7, 9, 10}},
	"locrian":          {Name: "locrian", Steps: []int{0, 1, 3, 5, 6, 8, 10}},
	"major-pentatonic": {Name: "major-pentatonic", Steps: []int{0, 2, 4, 7, 9}},
	"minor-pentatonic": {Name: "minor-pentatonic", Steps: []int{0, 3, 5, 7, 10}},
	"blues":            {Name: "blues", Steps: []int{0, 3, 5, 6, 7, 10}},
	"chromatic":        {Name: "chromatic", Steps: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
}

var patternAliases = map[string]string{
	"ionian":        "major",
	"aeolian":       "minor",
	"natural-minor": "minor",
	"pentatonic":    "major-pentatonic",
}

// LookupPattern finds a pattern by name, ignoring case ("Major" == "major")
func LookupPattern(name string) (Pattern, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
	if alias, ok := patternAliases[key]; ok {
		key = alias
	}
	p, ok := patterns[key]
	if !ok {
		return Pattern{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return Pattern{Name: p.Name, Steps: append([]int(nil), p.Steps...)}, nil
}

// Patterns returns the registered pattern names, sorted
func Patterns() []string {
	names := make([]string, 0, len(patterns))
	for n := range patterns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Generate returns the pitches of pattern starting at root, in step order
func Generate(root PitchClass, pattern Pattern) []PitchClass {
	out := make([]PitchClass, len(pattern.Steps))
	for i, step := range pattern.Steps {
		out[i] = root.Transpose(step)
	}
	return out
}

// Scale is a root paired with a pattern and its generated notes
type Scale struct {
	Root    PitchClass
	Pattern Pattern
	Notes   []PitchClass
}

// NewScale builds a scale from a root name and a pattern name
func NewScale(root, pattern string) (Scale, error) {
	r, err := ParsePitch(root)
	if err != nil {
		return Scale{}, err
	}
	p, err := LookupPattern(pattern)
	if err != nil {
		return Scale{}, err
	}
	return Scale{Root: r, Pattern: p, Notes: Generate(r, p)}, nil
}

// Contains reports whether p belongs to the scale
func (s Scale) Contains(p PitchClass) bool {
	for _, n := range s.Notes {
		if n == p {
			return true
		}
	}
	return false
}

func (s Scale) String() string {
	return fmt.Sprintf("%s %s", s.Root, s.Pattern.Name)
}
