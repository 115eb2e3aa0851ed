package music

import "sort"

// IntersectAll returns the pitches present in every collection, sorted in
// canonical order (C first). No collections yields an empty result.
func IntersectAll(collections ...[]PitchClass) []PitchClass {
	if len(collections) == 0 {
		return []PitchClass{}
	}

	var counts [NumPitches]int
	for _, c := range collections {
		var seen [NumPitches]bool
		for _, p := range c {
			if p.Valid() && !seen[p] {
				seen[p] = true
				counts[p]++
			}
		}
	}

	out := []PitchClass{}
	for p, n := range counts {
		if n == len(collections) {
			out = append(out, PitchClass(p))
		}
	}
	return out
}

// UnionAll returns every pitch present in any collection, sorted canonically
func UnionAll(collections ...[]PitchClass) []PitchClass {
	var seen [NumPitches]bool
	for _, c := range collections {
		for _, p := range c {
			if p.Valid() {
				seen[p] = true
			}
		}
	}

	out := []PitchClass{}
	for p, ok := range seen {
		if ok {
			out = append(out, PitchClass(p))
		}
	}
	return out
}

// SortCanonical sorts pitches in place by alphabet index
func SortCanonical(pitches []PitchClass) {
	sort.Slice(pitches, func(i, j int) bool { return pitches[i] < pitches[j] })
}

// SortLexical sorts pitches in place by their sharp-spelled name. This puts
// A and B before C, unlike SortCanonical.
func SortLexical(pitches []PitchClass) {
	sort.SliceStable(pitches, func(i, j int) bool { return pitches[i].String() < pitches[j].String() })
}
