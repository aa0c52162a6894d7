package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskpane/internal/keys"
	"github.com/nhle/taskpane/internal/theme"
)

// group is one titled block of bindings.
type group struct {
	title    string
	bindings []key.Binding
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) groups() []group {
	k := m.keys
	return []group{
		{"General", []key.Binding{k.NextTab, k.PrevTab, k.Submit, k.Copy, k.Replace}},
		{"Reword", []key.Binding{k.SwitchField, k.UseBody, k.NextTone, k.ClearTone}},
		{"Compose", []key.Binding{k.ToggleAnalysis, k.AnalyzeCurrent}},
		{"Analyze", []key.Binding{k.Generate, k.ToggleRaw, k.Up, k.Down}},
		{"Other", []key.Binding{k.Hosts, k.Command, k.Help, k.Back, k.Quit}},
	}
}

// View renders the help overlay.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	m.help.Width = m.width - 8
	for _, g := range m.groups() {
		b.WriteString(theme.LabelStyle.Render(g.title))
		b.WriteString("\n")
		b.WriteString(m.help.FullHelpView([][]key.Binding{g.bindings}))
		b.WriteString("\n\n")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, strings.TrimRight(b.String(), "\n"))

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 8
}
