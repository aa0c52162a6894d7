package compose

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskpane/internal/clipboard"
	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/keys"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/taskpane"
	"github.com/nhle/taskpane/internal/theme"
	"github.com/nhle/taskpane/internal/ui"
)

// contextPreviewLimit caps the analysis context shown above the input.
const contextPreviewLimit = 400

type composeDoneMsg struct {
	result string
	err    error
}

type analyzeDoneMsg struct {
	result *model.AnalysisResult
	err    error
}

// AnalysisUpdatedMsg tells the root model that this screen published a
// new analysis to the shared store.
type AnalysisUpdatedMsg struct{}

// Model is the compose screen.
type Model struct {
	op      *taskpane.Compose
	copier  clipboard.Copier
	mailbox host.Mailbox
	keys    *keys.KeyMap
	request textarea.Model
	spinner spinner.Model
	width   int
	height  int
}

// New creates the compose screen around op.
func New(
	op *taskpane.Compose,
	copier clipboard.Copier,
	k *keys.KeyMap,
	width, height int,
) Model {
	ta := textarea.New()
	ta.Placeholder = "e.g. Write a follow-up email about yesterday's meeting"
	ta.ShowLineNumbers = false
	ta.CharLimit = 5000
	ta.SetHeight(4)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	m := Model{
		op:      op,
		copier:  copier,
		keys:    k,
		request: ta,
		spinner: sp,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command for the screen.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// SetMailbox sets the host used for replace and analyze.
func (m *Model) SetMailbox(mb host.Mailbox) {
	m.mailbox = mb
	m.op.SetMailbox(mb)
}

// Focus syncs the analysis toggle and focuses the request field.
func (m *Model) Focus() tea.Cmd {
	m.op.Sync()
	return m.request.Focus()
}

// Blur releases keyboard focus.
func (m *Model) Blur() {
	m.request.Blur()
}

// Busy reports whether a request is in flight.
func (m Model) Busy() bool {
	return m.op.InFlight || m.op.Analyzing
}

// Update handles messages for the compose screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case composeDoneMsg:
		_ = m.op.Complete(msg.result, msg.err)
		return m, nil

	case analyzeDoneMsg:
		if err := m.op.CompleteAnalyze(msg.result, msg.err); err != nil {
			return m, nil
		}
		return m, func() tea.Msg { return AnalysisUpdatedMsg{} }

	case ui.ReplaceDoneMsg:
		if msg.Screen != ui.ScreenCompose {
			return m, nil
		}
		m.op.CompleteReplace(msg.Err)
		if msg.Err == nil {
			return m, ui.Status("Replaced message body")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.request, cmd = m.request.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.ToggleAnalysis):
		m.op.SetIncludeAnalysis(!m.op.IncludeAnalysis())
		return m, nil

	case key.Matches(msg, m.keys.AnalyzeCurrent):
		if err := m.op.PrepareAnalyze(); err != nil {
			return m, nil
		}
		op := m.op
		call := func() tea.Msg {
			result, err := op.CallAnalyze(context.Background())
			return analyzeDoneMsg{result: result, err: err}
		}
		return m, tea.Batch(m.spinner.Tick, call)

	case key.Matches(msg, m.keys.Copy):
		if err := m.op.Copy(m.copier); err == nil && m.op.Result != "" {
			return m, ui.Status("Copied to clipboard")
		}
		return m, nil

	case key.Matches(msg, m.keys.Replace):
		if m.op.Result == "" || m.op.InFlight {
			return m, nil
		}
		return m, ui.ReplaceCmd(ui.ScreenCompose, m.mailbox, m.op.Result)
	}

	var cmd tea.Cmd
	before := m.request.Value()
	m.request, cmd = m.request.Update(msg)
	if v := m.request.Value(); v != before {
		m.op.SetRequest(v)
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	m.op.Request = m.request.Value()

	composeContext, err := m.op.Prepare()
	if err != nil {
		return m, nil
	}

	op := m.op
	call := func() tea.Msg {
		result, err := op.Call(context.Background(), composeContext)
		return composeDoneMsg{result: result, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, call)
}

// View renders the compose screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Compose Email"))
	b.WriteString("\n")
	b.WriteString(theme.LabelStyle.Render("What would you like to write?"))
	b.WriteString("\n")
	b.WriteString(m.request.View())
	b.WriteString("\n\n")

	if analysis := m.op.Analysis(); analysis != nil {
		check := "[ ]"
		if m.op.IncludeAnalysis() {
			check = theme.SelectedItemStyle.Render("[x]")
		}
		b.WriteString(check + " Include email analysis in composition")
		b.WriteString("\n")
		b.WriteString(theme.ContextStyle.
			Width(m.width - 10).
			Render(host.Preview(analysis.ContextText(), contextPreviewLimit)))
		b.WriteString("\n\n")
	} else {
		b.WriteString(theme.HelpStyle.Render(
			"Tip: press ctrl+e to analyze the open email for better context."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderOutcome())

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(b.String())
}

func (m Model) renderOutcome() string {
	switch {
	case m.op.Analyzing:
		return m.spinner.View() + " Analyzing current email..."
	case m.op.InFlight:
		return m.spinner.View() + " Composing..."
	case m.op.Err != nil:
		return theme.ErrorStyle.Render(m.op.Err.Message)
	case m.op.Result != "":
		result := theme.ResultStyle.
			Width(m.width - 10).
			Render(m.op.Result)
		hint := theme.HelpStyle.Render("ctrl+y copy · ctrl+o replace in mail")
		return lipgloss.JoinVertical(lipgloss.Left, theme.LabelStyle.Render("Composed email"), result, hint)
	default:
		return theme.HelpStyle.Render("ctrl+s compose · ctrl+a include analysis")
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.request.SetWidth(max(width-8, 10))
}
