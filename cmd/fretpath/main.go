// Package main is the entry point for the fretpath CLI
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/instrument"
	"github.com/james-see/fretpath/pkg/music"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options holds the flag values shared by every command
type options struct {
	instrumentID string
	tuning       []string
	frets        int
	debug        bool

	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "fretpath",
		Short: "Place scales and note sequences on a fretboard",
		Long: `fretpath maps sequences of notes onto a stringed instrument's fretboard,
choosing for every note the closest position to the previous one within a
maximum string reach (span).

Examples:
  fretpath scale A major
  fretpath shared D:major E:major
  fretpath positions E -i guitar -f 15
  fretpath tab --scale A:major -t E,A,D,G -f 15 --start 0,5
  fretpath tab A B C# D --span 2 --seed 42
  fretpath convert melody.mid -o melody.json -i bass
  fretpath tui
  fretpath serve --port 8080`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = initLogger(cmd.ErrOrStderr(), opts.debug)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&opts.instrumentID, "instrument", "i", "guitar", "Instrument preset (see 'instruments')")
	rootCmd.PersistentFlags().StringSliceVarP(&opts.tuning, "tuning", "t", nil, "Custom tuning, lowest string first (e.g. E,A,D,G); overrides --instrument")
	rootCmd.PersistentFlags().IntVarP(&opts.frets, "frets", "f", -1, "Fret count (default: instrument's own, 24 for --tuning)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newScaleCmd(opts),
		newSharedCmd(opts),
		newPositionsCmd(opts),
		newTabCmd(opts),
		newBatchCmd(opts),
		newConvertCmd(opts),
		newInstrumentsCmd(opts),
		newPatternsCmd(opts),
		newTUICmd(opts),
		newServeCmd(opts),
	)

	return rootCmd
}

// initLogger builds the text logger used by the CLI and makes it the
// process default
func initLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
	slog.SetDefault(logger)
	return logger
}

// resolveInstrument applies --tuning, --instrument and --frets
func (o *options) resolveInstrument() (instrument.Instrument, error) {
	if len(o.tuning) > 0 {
		tuning, err := fretboard.ParseTuning(o.tuning)
		if err != nil {
			return nil, err
		}
		frets := instrument.CustomFrets
		if o.frets >= 0 {
			frets = o.frets
		}
		return instrument.Custom(tuning, frets)
	}

	inst, err := instrument.Lookup(o.instrumentID)
	if err != nil {
		return nil, err
	}
	if o.frets >= 0 {
		return instrument.WithFrets(inst, o.frets)
	}
	return inst, nil
}

func (o *options) board() (instrument.Instrument, *fretboard.Fretboard, error) {
	inst, err := o.resolveInstrument()
	if err != nil {
		return nil, nil, err
	}
	board, err := instrument.Board(inst)
	if err != nil {
		return nil, nil, err
	}
	o.logger.Debug("fretboard built",
		"instrument", inst.ID(),
		"tuning", inst.Tuning().String(),
		"frets", board.Frets(),
	)
	return inst, board, nil
}

// parseCoordinate parses "string,fret"
func parseCoordinate(s string) (fretboard.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fretboard.Coordinate{}, fmt.Errorf("invalid position %q: want STRING,FRET", s)
	}
	str, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fretboard.Coordinate{}, fmt.Errorf("invalid string in %q: %w", s, err)
	}
	fret, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fretboard.Coordinate{}, fmt.Errorf("invalid fret in %q: %w", s, err)
	}
	return fretboard.Coordinate{String: str, Fret: fret}, nil
}

// parseScale parses "ROOT:PATTERN", e.g. "A:major" or "C#:minor-pentatonic"
func parseScale(s string) (music.Scale, error) {
	root, pattern, ok := strings.Cut(s, ":")
	if !ok {
		return music.Scale{}, fmt.Errorf("invalid scale %q: want ROOT:PATTERN", s)
	}
	return music.NewScale(root, pattern)
}
