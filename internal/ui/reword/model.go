package reword

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskpane/internal/clipboard"
	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/keys"
	"github.com/nhle/taskpane/internal/taskpane"
	"github.com/nhle/taskpane/internal/theme"
	"github.com/nhle/taskpane/internal/ui"
)

// rewordDoneMsg carries the service response back to Update.
type rewordDoneMsg struct {
	result string
	err    error
}

type focus int

const (
	focusText focus = iota
	focusInstructions
)

// Model is the reword screen.
type Model struct {
	op        *taskpane.Reword
	copier    clipboard.Copier
	mailbox   host.Mailbox
	keys      *keys.KeyMap
	text      textarea.Model
	custom    textinput.Model
	spinner   spinner.Model
	focus     focus
	toneIdx   int
	emailBody string
	width     int
	height    int
}

// New creates the reword screen around op.
func New(
	op *taskpane.Reword,
	copier clipboard.Copier,
	k *keys.KeyMap,
	width, height int,
) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste or type the text to reword..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 20000
	ta.SetHeight(6)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "or describe how to rewrite it"
	ti.Prompt = "› "
	ti.CharLimit = 500

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	m := Model{
		op:      op,
		copier:  copier,
		keys:    k,
		text:    ta,
		custom:  ti,
		spinner: sp,
		toneIdx: -1,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command for the screen.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// SetMailbox sets the host that Replace writes to.
func (m *Model) SetMailbox(mb host.Mailbox) {
	m.mailbox = mb
}

// SetEmailBody remembers the open message body for the load-body key.
func (m *Model) SetEmailBody(body string) {
	m.emailBody = body
}

// Focus gives keyboard focus to the active field.
func (m *Model) Focus() tea.Cmd {
	if m.focus == focusInstructions {
		return m.custom.Focus()
	}
	return m.text.Focus()
}

// Blur releases keyboard focus.
func (m *Model) Blur() {
	m.text.Blur()
	m.custom.Blur()
}

// Busy reports whether a request is in flight.
func (m Model) Busy() bool {
	return m.op.InFlight
}

// Update handles messages for the reword screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rewordDoneMsg:
		_ = m.op.Complete(msg.result, msg.err)
		return m, nil

	case ui.ReplaceDoneMsg:
		if msg.Screen != ui.ScreenReword {
			return m, nil
		}
		m.op.CompleteReplace(msg.Err)
		if msg.Err == nil {
			return m, ui.Status("Replaced message body")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.op.InFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.NextTone):
		m.toneIdx = (m.toneIdx + 1) % len(taskpane.Tones)
		m.op.SelectTone(taskpane.Tones[m.toneIdx])
		m.custom.SetValue("")
		return m, nil

	case key.Matches(msg, m.keys.ClearTone):
		m.toneIdx = -1
		m.op.ClearTone()
		return m, nil

	case key.Matches(msg, m.keys.SwitchField):
		if m.focus == focusText {
			m.focus = focusInstructions
			m.text.Blur()
			return m, m.custom.Focus()
		}
		m.focus = focusText
		m.custom.Blur()
		return m, m.text.Focus()

	case key.Matches(msg, m.keys.UseBody):
		if m.emailBody != "" {
			m.text.SetValue(m.emailBody)
			m.op.SetText(m.emailBody)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if err := m.op.Copy(m.copier); err == nil && m.op.Result != "" {
			return m, ui.Status("Copied to clipboard")
		}
		return m, nil

	case key.Matches(msg, m.keys.Replace):
		if m.op.Result == "" || m.op.InFlight {
			return m, nil
		}
		return m, ui.ReplaceCmd(ui.ScreenReword, m.mailbox, m.op.Result)
	}

	return m.updateInputs(msg)
}

// submit validates and starts a reword request.
func (m Model) submit() (Model, tea.Cmd) {
	m.op.SetText(m.text.Value())

	req, err := m.op.Prepare()
	if err != nil {
		// In flight: no-op. Validation: the message is already on the state.
		return m, nil
	}

	op := m.op
	call := func() tea.Msg {
		result, err := op.Call(context.Background(), req)
		return rewordDoneMsg{result: result, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, call)
}

// updateInputs forwards a message to the focused field and mirrors its
// value into the orchestrator.
func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusInstructions {
		before := m.custom.Value()
		m.custom, cmd = m.custom.Update(msg)
		if v := m.custom.Value(); v != before {
			m.op.SetCustomInstructions(v)
			m.toneIdx = -1
		}
		return m, cmd
	}

	m.text, cmd = m.text.Update(msg)
	m.op.SetText(m.text.Value())
	return m, cmd
}

// View renders the reword screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Reword Text"))
	b.WriteString("\n")
	b.WriteString(theme.LabelStyle.Render("Text"))
	b.WriteString("\n")
	b.WriteString(m.text.View())
	b.WriteString("\n\n")
	b.WriteString(theme.LabelStyle.Render("Tone"))
	b.WriteString("  ")
	b.WriteString(m.renderTones())
	b.WriteString("\n")
	b.WriteString(theme.LabelStyle.Render("Custom instructions"))
	b.WriteString("\n")
	b.WriteString(m.custom.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderOutcome())

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(b.String())
}

func (m Model) renderTones() string {
	parts := make([]string, len(taskpane.Tones))
	for i, tone := range taskpane.Tones {
		if tone == m.op.Tone {
			parts[i] = theme.SelectedItemStyle.Render("[" + tone + "]")
		} else {
			parts[i] = theme.HelpStyle.Render(tone)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderOutcome() string {
	switch {
	case m.op.InFlight:
		return m.spinner.View() + " Rewording..."
	case m.op.Err != nil:
		return theme.ErrorStyle.Render(m.op.Err.Message)
	case m.op.Result != "":
		result := theme.ResultStyle.
			Width(m.width - 10).
			Render(m.op.Result)
		hint := theme.HelpStyle.Render("ctrl+y copy · ctrl+o replace in mail")
		return lipgloss.JoinVertical(lipgloss.Left, theme.LabelStyle.Render("Result"), result, hint)
	default:
		return theme.HelpStyle.Render("ctrl+t pick a tone · ctrl+s reword")
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.text.SetWidth(max(width-8, 10))
	m.custom.Width = max(width-12, 10)
}
