// Package tui provides a terminal user interface for mod2mus
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
	"github.com/james-see/mod2mus/pkg/converter"
)

// Workbench-inspired color scheme
var (
	amigaOrange = lipgloss.Color("#FF8800")
	amigaBlue   = lipgloss.Color("#0055AA")
	paperWhite  = lipgloss.Color("#FFFFFF")
	silverGray  = lipgloss.Color("#C0C0C0")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(paperWhite).
			Background(amigaBlue).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(amigaOrange).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(paperWhite).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(amigaOrange).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amigaOrange).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      string
}

var menuItems = []MenuItem{
	{Title: "MOD → MUS", Description: "Convert a ProTracker module to Psycho Pinball / Micro Machines 2 MUS", Action: "mus"},
	{Title: "MOD → MIDI", Description: "Render the module's note events as a MIDI preview", Action: "midi"},
	{Title: "Inspect", Description: "Show the header of a MOD or MUS file", Action: "inspect"},
	{Title: "Exit", Description: "Exit the application", Action: ""},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string
	action       MenuItem
	result       *converter.Result
	info         *converter.Info
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile string
	result     *converter.Result
	info       *converter.Info
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mod"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(amigaOrange)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages while it is shown
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
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.perform())
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
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.result = msg.result
		m.info = msg.info
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
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.action = menuItems[m.menuIndex]
		m.state = StateFilePicker

		if m.action.Action == "inspect" {
			m.filePicker.AllowedTypes = []string{".mod", ".mus"}
		} else {
			m.filePicker.AllowedTypes = []string{".mod"}
		}

		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.result = nil
		m.info = nil
		m.selectedFile = ""
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) perform() tea.Cmd {
	return func() tea.Msg {
		return run(m.action.Action, m.selectedFile)
	}
}

// run executes one menu action on a file
func run(action, path string) conversionDoneMsg {
	if action == "inspect" {
		data, err := os.ReadFile(path)
		if err != nil {
			return conversionDoneMsg{err: err}
		}
		info, err := converter.Inspect(data)
		return conversionDoneMsg{info: info, err: err}
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	if action == "midi" {
		outputFile := base + ".mid"
		if err := converter.New().PreviewFile(path, outputFile); err != nil {
			return conversionDoneMsg{err: err}
		}
		return conversionDoneMsg{outputFile: outputFile}
	}

	outputFile := base + ".mus"
	res, err := converter.New().ConvertFile(path, outputFile)
	if err != nil {
		return conversionDoneMsg{err: err}
	}
	return conversionDoneMsg{outputFile: outputFile, result: res}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	// Header
	header := asciiLogo()
	s.WriteString(header)
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	// Footer help
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT CONVERSION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(paperWhite).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT FILE: %s ", strings.ToUpper(m.action.Title))))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" WORKING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Processing %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render("  " + m.action.Title))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	switch {
	case m.err != nil:
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Failed: %s", m.err.Error())))
	case m.info != nil:
		s.WriteString(titleStyle.Render(" " + strings.ToUpper(string(m.info.Format)) + " "))
		s.WriteString("\n\n")
		s.WriteString(viewInfo(m.info))
	default:
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
		if r := m.result; r != nil && r.Channels > 0 {
			s.WriteString(fmt.Sprintf("\n\nChannels: %d  Patterns: %d  Samples: %d\n", r.Channels, r.Patterns, r.Samples))
			s.WriteString(fmt.Sprintf("Music: %d bytes, restart at %d\n", r.MusicSize, r.RestartOffset))
			s.WriteString(fmt.Sprintf("Events: %d  Repeat runs: %d  Continuations: %d", r.Stats.Events, r.Stats.RepeatRuns, r.Stats.Continuations))
			for _, w := range r.Warnings {
				s.WriteString("\n")
				s.WriteString(statusStyle.Render("warning: " + w))
			}
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func viewInfo(info *converter.Info) string {
	var s strings.Builder

	s.WriteString(fmt.Sprintf("Title:    %q\n", info.Title))
	s.WriteString(fmt.Sprintf("Channels: %d\n", info.Channels))
	if info.Format == converter.FormatMOD {
		s.WriteString(fmt.Sprintf("Orders:   %d (restart %d)\n", info.Orders, info.RestartPos))
		s.WriteString(fmt.Sprintf("Patterns: %d\n", info.Patterns))
	} else {
		s.WriteString(fmt.Sprintf("Music:    %d bytes (restart %d)\n", info.MusicSize, info.RestartPos))
	}
	for _, smp := range info.Samples {
		s.WriteString(menuStyle.Render(fmt.Sprintf("%02d %-32s %6d", smp.Slot, smp.Name, smp.Size)))
		s.WriteString("\n")
	}
	return s.String()
}

func asciiLogo() string {
	logo := `
  ░█▄█░█▀█░█▀▄░▀▀▄░█▄█░█░█░█▀▀
  ░█░█░█░█░█░█░▄▀░░█░█░█░█░▀▀█
  ░▀░▀░▀▀▀░▀▀░░▀▀▀░▀░▀░▀▀▀░▀▀▀
`
	return lipgloss.NewStyle().Foreground(amigaOrange).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
