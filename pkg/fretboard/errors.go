package fretboard

import "errors"

var (
	// ErrInvalidTuning indicates an empty tuning or an unrecognized pitch in it
	ErrInvalidTuning = errors.New("fretboard: invalid tuning")
	// ErrInvalidFretCount indicates a fret count below 0 or above MaxFrets
	ErrInvalidFretCount = errors.New("fretboard: fret count out of range")
	// ErrInvalidSpan indicates a negative string span
	ErrInvalidSpan = errors.New("fretboard: span must be non-negative")
	// ErrStartOutOfBounds indicates an explicit start outside the board
	ErrStartOutOfBounds = errors.New("fretboard: start position out of bounds")
	// ErrPitchNotOnBoard indicates the first pitch has no position to draw a start from
	ErrPitchNotOnBoard = errors.New("fretboard: pitch not on fretboard")
	// ErrNoReachablePosition indicates no position of the next pitch lies within span
	ErrNoReachablePosition = errors.New("fretboard: no reachable position")
)
