package analyze

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/keys"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/sections"
	"github.com/nhle/taskpane/internal/taskpane"
	"github.com/nhle/taskpane/internal/theme"
)

type analyzeDoneMsg struct {
	result *model.AnalysisResult
	err    error
}

// GenerateResponseMsg asks the root model to switch to the compose
// screen with Analysis as context.
type GenerateResponseMsg struct {
	Analysis *model.AnalysisResult
}

// Model is the analyze screen.
type Model struct {
	op          *taskpane.Analyze
	keys        *keys.KeyMap
	viewport    viewport.Model
	spinner     spinner.Model
	raw         bool
	glamourName string
	hasEmail    bool
	preview     string
	width       int
	height      int
}

// New creates the analyze screen around op. style is a glamour style
// name ("dark", "light", "notty") used by the raw view.
func New(op *taskpane.Analyze, k *keys.KeyMap, style string, width, height int) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	if style == "" || style == "default" {
		style = "dark"
	}

	m := Model{
		op:          op,
		keys:        k,
		viewport:    viewport.New(width, height),
		spinner:     sp,
		glamourName: style,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command for the screen.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetMailbox sets the host that is analyzed.
func (m *Model) SetMailbox(mb host.Mailbox) {
	m.op.SetMailbox(mb)
}

// SetOpenEmail updates what the screen knows about the open message.
func (m *Model) SetOpenEmail(hasEmail bool, preview string) {
	m.hasEmail = hasEmail
	m.preview = preview
}

// Busy reports whether a request is in flight.
func (m Model) Busy() bool {
	return m.op.InFlight
}

// Update handles messages for the analyze screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzeDoneMsg:
		_ = m.op.Complete(msg.result, msg.err)
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.op.InFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.Submit()

		case key.Matches(msg, m.keys.Generate):
			if m.op.GenerateResponse() {
				result := m.op.Analysis
				return m, func() tea.Msg { return GenerateResponseMsg{Analysis: result} }
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleRaw):
			m.raw = !m.raw
			m.refresh()
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
			return m, nil

		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) Submit() (Model, tea.Cmd) {
	if err := m.op.Prepare(); err != nil {
		return m, nil
	}
	m.refresh()

	op := m.op
	call := func() tea.Msg {
		result, err := op.Call(context.Background())
		return analyzeDoneMsg{result: result, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, call)
}

// refresh re-renders the analysis into the viewport.
func (m *Model) refresh() {
	if m.op.Analysis == nil {
		m.viewport.SetContent("")
		return
	}
	if m.raw {
		m.viewport.SetContent(m.renderRaw())
		return
	}
	m.viewport.SetContent(RenderSections(m.op.Sections(), m.viewport.Width))
}

func (m Model) renderRaw() string {
	rendered, err := glamour.Render(m.op.Analysis.RawAnalysis, m.glamourName)
	if err != nil {
		return m.op.Analysis.RawAnalysis
	}
	return strings.TrimSpace(rendered)
}

// RenderSections renders parsed analysis sections for the terminal.
func RenderSections(secs []model.DisplaySection, width int) string {
	if len(secs) == 0 {
		return theme.HelpStyle.Render("The analysis came back empty.")
	}

	body := lipgloss.NewStyle().Width(max(width-2, 10))

	var blocks []string
	for _, sec := range secs {
		var lines []string
		if sec.Title != "" {
			lines = append(lines, theme.SectionTitleStyle(sections.Classify(sec.Title)).Render(sec.Title))
		}
		for _, p := range sec.Paragraphs {
			lines = append(lines, body.Render(p))
		}
		for _, item := range sec.Items {
			lines = append(lines, theme.BulletStyle.Render(sections.BulletGlyph)+" "+body.Width(max(width-4, 8)).Render(item))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// View renders the analyze screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Email Analysis"))
	b.WriteString("\n")

	switch {
	case m.op.InFlight:
		b.WriteString(m.spinner.View() + " Analyzing...")
	case m.op.Err != nil:
		b.WriteString(theme.ErrorStyle.Render(m.op.Err.Message))
		b.WriteString("\n\n")
		b.WriteString(m.renderIdleHint())
	case m.op.Analysis != nil:
		vp := m.viewport
		if !m.raw {
			// Sections are cheap to derive; parse fresh on every render.
			vp.SetContent(RenderSections(m.op.Sections(), vp.Width))
		}
		b.WriteString(vp.View())
		b.WriteString("\n")
		mode := "v raw view"
		if m.raw {
			mode = "v sections"
		}
		b.WriteString(theme.HelpStyle.Render("g generate response · " + mode + " · ctrl+s re-analyze"))
	default:
		b.WriteString(m.renderIdleHint())
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(b.String())
}

func (m Model) renderIdleHint() string {
	if !m.hasEmail {
		return theme.HelpStyle.Render("No email is open in the mail host.")
	}
	preview := theme.ContextStyle.Width(m.width - 10).Render(m.preview)
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.LabelStyle.Render("Open email"),
		preview,
		"",
		theme.HelpStyle.Render("ctrl+s analyze this email"),
	)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-8, 10)
	m.viewport.Height = max(height-7, 3)
	m.refresh()
}
