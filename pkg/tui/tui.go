// Package tui provides a terminal user interface for fretpath
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/fretpath/pkg/converter"
	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/instrument"
	"github.com/james-see/fretpath/pkg/music"
)

// Rosewood and brass color scheme
var (
	brass    = lipgloss.Color("#D4A017")
	ivory    = lipgloss.Color("#F5F0E1")
	rosewood = lipgloss.Color("#65000B")
	steel    = lipgloss.Color("#A8A9AD")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ivory).
			Background(rosewood).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(steel).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brass).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(brass).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(brass).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brass).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateScale
	StateFilePicker
	StateComputing
	StateResult
)

// Action is what a menu item does
type Action int

const (
	ActionScale Action = iota
	ActionFile
	ActionExit
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      Action
}

var menuItems = []MenuItem{
	{Title: "Tab a scale", Description: "Pick a root and pattern and place it on the fretboard", Action: ActionScale},
	{Title: "Tab a file", Description: "Place the notes of a MIDI or text file on the fretboard", Action: ActionFile},
	{Title: "Exit", Description: "Exit the application", Action: ActionExit},
}

// Config selects the instrument and reach used for every tab
type Config struct {
	Instrument instrument.Instrument
	Span       int
	Start      *fretboard.Coordinate
	Rand       fretboard.Rand
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	scaleField   int // 0 = root, 1 = pattern
	rootIndex    int
	patternIndex int
	patterns     []string
	config       Config
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	source       string
	tab          *converter.Tab
	err          error
	width        int
	height       int
}

// tabDoneMsg signals that a tab computation finished
type tabDoneMsg struct {
	source string
	tab    *converter.Tab
	err    error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New(cfg Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi", ".txt", ".notes"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brass)

	patterns := music.Patterns()
	patternIndex := 0
	for i, p := range patterns {
		if p == "major" {
			patternIndex = i
		}
	}

	return Model{
		state:        StateMenu,
		rootIndex:    int(music.A),
		patternIndex: patternIndex,
		patterns:     patterns,
		config:       cfg,
		filePicker:   fp,
		spinner:      s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages while it is open
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateComputing
			return m, tea.Batch(m.spinner.Tick, m.tabFile(path))
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateScale:
			return m.updateScale(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tabDoneMsg:
		m.state = StateResult
		m.source = msg.source
		m.tab = msg.tab
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		switch menuItems[m.menuIndex].Action {
		case ActionExit:
			return m, tea.Quit
		case ActionScale:
			m.state = StateScale
			return m, nil
		case ActionFile:
			m.state = StateFilePicker
			return m, m.filePicker.Init()
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateScale(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j", "tab":
		m.scaleField = 1 - m.scaleField
	case "left", "h":
		m.cycle(-1)
	case "right", "l":
		m.cycle(1)
	case "enter":
		m.state = StateComputing
		return m, tea.Batch(m.spinner.Tick, m.tabScale())
	case "esc":
		m.state = StateMenu
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) cycle(delta int) {
	if m.scaleField == 0 {
		m.rootIndex = int(music.PitchClass(m.rootIndex).Transpose(delta))
		return
	}
	n := len(m.patterns)
	m.patternIndex = ((m.patternIndex+delta)%n + n) % n
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.tab = nil
		m.selectedFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) newConverter() *converter.Converter {
	conv := converter.New(m.config.Instrument)
	conv.SetSpan(m.config.Span)
	conv.SetStart(m.config.Start)
	if m.config.Rand != nil {
		conv.SetRand(m.config.Rand)
	}
	return conv
}

func (m Model) tabScale() tea.Cmd {
	root := music.PitchClass(m.rootIndex)
	patternName := m.patterns[m.patternIndex]
	conv := m.newConverter()

	return func() tea.Msg {
		source := fmt.Sprintf("%s %s", root, patternName)
		pattern, err := music.LookupPattern(patternName)
		if err != nil {
			return tabDoneMsg{source: source, err: err}
		}
		tab, err := conv.TabPitches(music.Generate(root, pattern))
		return tabDoneMsg{source: source, tab: tab, err: err}
	}
}

func (m Model) tabFile(path string) tea.Cmd {
	conv := m.newConverter()

	return func() tea.Msg {
		source := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return tabDoneMsg{source: source, err: err}
		}

		format := converter.DetectFormat(path)
		if format == converter.FormatUnknown {
			format = converter.DetectFormatFromContent(data)
		}

		var pitches []music.PitchClass
		switch format {
		case converter.FormatMIDI:
			pitches, err = converter.NewMIDIConverter().ParseMIDI(data)
		case converter.FormatText:
			pitches, err = converter.ParseText(data)
		default:
			err = fmt.Errorf("unsupported input format: %s", format)
		}
		if err != nil {
			return tabDoneMsg{source: source, err: err}
		}

		tab, err := conv.TabPitches(pitches)
		return tabDoneMsg{source: source, tab: tab, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(header(m.config.Instrument))
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateScale:
		s.WriteString(m.viewScale())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateComputing:
		s.WriteString(m.viewComputing())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" MENU "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(brass).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewScale() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT SCALE "))
	s.WriteString("\n\n")

	fields := []struct{ label, value string }{
		{"Root", music.PitchClass(m.rootIndex).String()},
		{"Pattern", m.patterns[m.patternIndex]},
	}
	for i, f := range fields {
		line := fmt.Sprintf("%-8s ◂ %s ▸", f.label, f.value)
		if i == m.scaleField {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(menuStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("←/→: change • enter: tab • esc: back"))

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT MIDI OR TEXT FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewComputing() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" PLACING NOTES "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Searching positions...\n", m.spinner.View()))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  span %d", m.config.Span)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %s", m.source, m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" POSITIONS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render(fmt.Sprintf("✓ %s (%d notes)", m.source, len(m.tab.Notes))))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("%-4s %-6s %-4s %s\n", "#", "string", "fret", "pitch"))
		for i, n := range m.tab.Notes {
			s.WriteString(fmt.Sprintf("%-4d %-6d %-4d %s\n", i+1, n.String, n.Fret, n.Pitch))
		}
		s.WriteString(statusStyle.Render(fmt.Sprintf("movement %.2f", m.tab.Movement)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func header(inst instrument.Instrument) string {
	name := "no instrument"
	if inst != nil {
		name = fmt.Sprintf("%s · %s", inst.Name(), inst.Tuning())
	}
	return lipgloss.NewStyle().Foreground(brass).Bold(true).Render("fretpath") +
		lipgloss.NewStyle().Foreground(steel).Render("  "+name)
}

// Run starts the TUI application
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
