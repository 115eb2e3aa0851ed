package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/james-see/fretpath/pkg/api"
	"github.com/james-see/fretpath/pkg/converter"
	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/instrument"
	"github.com/james-see/fretpath/pkg/music"
	"github.com/james-see/fretpath/pkg/tui"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newScaleCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scale <root> <pattern>",
		Short: "Print the notes of a scale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, err := music.NewScale(args[0], args[1])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"root":    scale.Root.String(),
					"pattern": scale.Pattern.Name,
					"notes":   music.Names(scale.Notes),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", scale, strings.Join(music.Names(scale.Notes), " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newSharedCmd(opts *options) *cobra.Command {
	var union bool

	cmd := &cobra.Command{
		Use:   "shared <root:pattern>...",
		Short: "Print the notes common to several scales",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collections := make([][]music.PitchClass, 0, len(args))
			for _, arg := range args {
				scale, err := parseScale(arg)
				if err != nil {
					return err
				}
				collections = append(collections, scale.Notes)
			}

			result := music.IntersectAll(collections...)
			if union {
				result = music.UnionAll(collections...)
			}
			lexical := append([]music.PitchClass(nil), result...)
			music.SortLexical(lexical)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pitch order: %s\n", strings.Join(music.Names(result), " "))
			fmt.Fprintf(out, "name order:  %s\n", strings.Join(music.Names(lexical), " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&union, "union", false, "Print every note in any scale instead")
	return cmd
}

func newPositionsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "positions <pitch>",
		Short: "List every fretboard position of a pitch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pitch, err := music.ParsePitch(args[0])
			if err != nil {
				return err
			}
			_, board, err := opts.board()
			if err != nil {
				return err
			}

			positions := board.PositionsOf(pitch)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), positions)
			}

			table := newTable(cmd.OutOrStdout(), "String", "Fret")
			for _, c := range positions {
				table.Append([]string{strconv.Itoa(c.String), strconv.Itoa(c.Fret)})
			}
			table.SetFooter([]string{fmt.Sprintf("%s positions", pitch), strconv.Itoa(len(positions))})
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

type tabFlags struct {
	scale  string
	start  string
	span   int
	seed   uint64
	asJSON bool
}

func newTabCmd(opts *options) *cobra.Command {
	flags := &tabFlags{}

	cmd := &cobra.Command{
		Use:   "tab [notes...]",
		Short: "Place a note sequence on the fretboard",
		Long: `Places each note at the closest position to the previous one whose string
is within --span strings. Notes come from the arguments or from --scale.
Without --start the first position is drawn at random (--seed fixes it).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pitches, err := music.ParsePitches(args)
			if err != nil {
				return err
			}
			if flags.scale != "" {
				scale, err := parseScale(flags.scale)
				if err != nil {
					return err
				}
				pitches = append(scale.Notes, pitches...)
			}

			inst, board, err := opts.board()
			if err != nil {
				return err
			}

			tabOpts := []fretboard.Option{fretboard.WithSpan(flags.span)}
			if flags.start != "" {
				start, err := parseCoordinate(flags.start)
				if err != nil {
					return err
				}
				if board.Contains(start) && !fretboard.StartMatches(board, pitches, start) {
					held, _ := board.At(start)
					opts.logger.Warn("start position does not hold the first note",
						"start", flags.start, "holds", held.String(), "first", pitches[0].String())
				}
				tabOpts = append(tabOpts, fretboard.WithStart(start))
			}
			if flags.seed != 0 {
				tabOpts = append(tabOpts, fretboard.WithSeed(flags.seed))
			}

			tab, err := board.TabSequence(pitches, tabOpts...)
			if err != nil {
				return err
			}
			opts.logger.Debug("tab computed", "notes", len(tab), "movement", fretboard.Movement(tab))

			if flags.asJSON {
				conv := converter.New(inst)
				conv.SetSpan(flags.span)
				doc, err := tabDocument(conv, pitches, tab)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			renderTab(cmd.OutOrStdout(), board, tab)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.scale, "scale", "", "Tab a scale given as ROOT:PATTERN (e.g. A:major)")
	cmd.Flags().StringVar(&flags.start, "start", "", "First position as STRING,FRET (e.g. 0,5)")
	cmd.Flags().IntVar(&flags.span, "span", fretboard.DefaultSpan, "Maximum string distance between consecutive notes")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for the random start (0 = random)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print JSON")
	return cmd
}

// tabDocument re-tabs with the found start so the document carries MIDI notes
func tabDocument(conv *converter.Converter, pitches []music.PitchClass, tab []fretboard.Coordinate) (*converter.Tab, error) {
	if len(tab) > 0 {
		conv.SetStart(&tab[0])
	}
	return conv.TabPitches(pitches)
}

func newBatchCmd(opts *options) *cobra.Command {
	var (
		span     int
		seed     uint64
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "batch <root:pattern>...",
		Short: "Tab several scales concurrently on one fretboard",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, board, err := opts.board()
			if err != nil {
				return err
			}

			reqs := make([]fretboard.TabRequest, len(args))
			for i, arg := range args {
				scale, err := parseScale(arg)
				if err != nil {
					return err
				}
				reqs[i] = fretboard.TabRequest{Pitches: scale.Notes, Span: span, Seed: seed + uint64(i)}
			}

			tabs, err := fretboard.TabAll(cmd.Context(), board, reqs, parallel)
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "Scale", "Positions", "Movement")
			for i, tab := range tabs {
				table.Append([]string{args[i], formatCoordinates(tab), fmt.Sprintf("%.2f", fretboard.Movement(tab))})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&span, "span", fretboard.DefaultSpan, "Maximum string distance between consecutive notes")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Base seed; scale N uses seed+N")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "Number of parallel workers")
	return cmd
}

func newConvertCmd(opts *options) *cobra.Command {
	var (
		outputFile string
		start      string
		span       int
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Tab a MIDI or text file into JSON or MIDI",
		Long: `Reads notes from a MIDI (.mid) or text (.txt) file, places them on the
instrument and writes the result as a JSON tab (.json) or as MIDI played
through the instrument (.mid). A JSON tab can also be rendered to MIDI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := outputFile
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".json"
			}

			inst, err := opts.resolveInstrument()
			if err != nil {
				return err
			}

			conv := converter.New(inst)
			conv.SetSpan(span)
			if start != "" {
				c, err := parseCoordinate(start)
				if err != nil {
					return err
				}
				conv.SetStart(&c)
			}
			if seed != 0 {
				conv.SetRand(fretboard.NewRand(seed))
			}

			opts.logger.Info("converting", "input", input, "output", output, "instrument", inst.ID())
			if err := conv.ConvertFile(input, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", input, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (.json or .mid)")
	cmd.Flags().StringVar(&start, "start", "", "First position as STRING,FRET")
	cmd.Flags().IntVar(&span, "span", fretboard.DefaultSpan, "Maximum string distance between consecutive notes")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the random start (0 = random)")
	return cmd
}

func newInstrumentsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "List instrument presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := newTable(cmd.OutOrStdout(), "ID", "Name", "Tuning", "Frets")
			for _, inst := range instrument.All() {
				table.Append([]string{inst.ID(), inst.Name(), inst.Tuning().String(), strconv.Itoa(inst.Frets())})
			}
			table.Render()
			return nil
		},
	}
}

func newPatternsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List scale patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := newTable(cmd.OutOrStdout(), "Pattern", "Semitones")
			for _, name := range music.Patterns() {
				p, err := music.LookupPattern(name)
				if err != nil {
					return err
				}
				steps := make([]string, len(p.Steps))
				for i, s := range p.Steps {
					steps[i] = strconv.Itoa(s)
				}
				table.Append([]string{name, strings.Join(steps, " ")})
			}
			table.Render()
			return nil
		},
	}
}

func newTUICmd(opts *options) *cobra.Command {
	var span int

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			inst, err := opts.resolveInstrument()
			if err != nil {
				return err
			}
			return tui.Run(tui.Config{Instrument: inst, Span: span})
		},
	}
	cmd.Flags().IntVar(&span, "span", fretboard.DefaultSpan, "Maximum string distance between consecutive notes")
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			opts.logger.Info("starting API server", "port", port)
			return api.StartServer(port, opts.logger)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port")
	return cmd
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	return table
}

func renderTab(w io.Writer, board *fretboard.Fretboard, tab []fretboard.Coordinate) {
	table := newTable(w, "#", "String", "Fret", "Pitch")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})
	for i, c := range tab {
		p, _ := board.At(c)
		table.Append([]string{strconv.Itoa(i + 1), strconv.Itoa(c.String), strconv.Itoa(c.Fret), p.String()})
	}
	table.SetFooter([]string{"", "", "Movement", fmt.Sprintf("%.2f", fretboard.Movement(tab))})
	table.Render()
}

func formatCoordinates(tab []fretboard.Coordinate) string {
	parts := make([]string, len(tab))
	for i, c := range tab {
		parts[i] = fmt.Sprintf("%d:%d", c.String, c.Fret)
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

