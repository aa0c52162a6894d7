package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskpane/internal/theme"
)

// Names of the palette commands.
const (
	CmdReword  = "reword"
	CmdCompose = "compose"
	CmdAnalyze = "analyze"
	CmdHosts   = "hosts"
	CmdUse     = "use"
	CmdRefresh = "refresh"
	CmdReset   = "reset"
	CmdHelp    = "help"
	CmdQuit    = "quit"
)

// Commands lists every palette command in display order.
var Commands = []string{
	CmdReword, CmdCompose, CmdAnalyze, CmdHosts, CmdUse,
	CmdRefresh, CmdReset, CmdHelp, CmdQuit,
}

// CommandMsg is emitted when the user executes a command. Name is the
// resolved command; Arg is whatever followed it.
type CommandMsg struct {
	Name string
	Arg  string
}

// UnknownCommandMsg is emitted for input that matches no command.
type UnknownCommandMsg string

// Resolve maps palette input to a command. A unique prefix of a command
// name is enough ("an" resolves to analyze).
func Resolve(input string) (CommandMsg, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return CommandMsg{}, false
	}

	word, arg, _ := strings.Cut(input, " ")
	word = strings.ToLower(word)
	arg = strings.TrimSpace(arg)

	var match string
	for _, c := range Commands {
		if c == word {
			return CommandMsg{Name: c, Arg: arg}, true
		}
		if strings.HasPrefix(c, word) {
			if match != "" {
				return CommandMsg{}, false
			}
			match = c
		}
	}
	if match == "" {
		return CommandMsg{}, false
	}
	return CommandMsg{Name: match, Arg: arg}, true
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "reword, compose, analyze, hosts, use <name>, refresh, reset, quit"
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Commands)
	ti.Focus()
	ti.Width = width - 8

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		if cmd, ok := Resolve(line); ok {
			return m, func() tea.Msg { return cmd }
		}
		return m, func() tea.Msg { return UnknownCommandMsg(line) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Command Palette")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View())

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}
