// Package app is the root Bubble Tea model: it owns the shared analysis
// store, the operation orchestrators and the host session, and routes
// messages between the Reword, Compose and Analyze tabs.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/taskpane/internal/ai"
	"github.com/nhle/taskpane/internal/clipboard"
	"github.com/nhle/taskpane/internal/credential"
	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/host/profile"
	"github.com/nhle/taskpane/internal/keys"
	"github.com/nhle/taskpane/internal/logging"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/store"
	appsync "github.com/nhle/taskpane/internal/sync"
	"github.com/nhle/taskpane/internal/taskpane"
	"github.com/nhle/taskpane/internal/ui"
	analyzeview "github.com/nhle/taskpane/internal/ui/analyze"
	"github.com/nhle/taskpane/internal/ui/command"
	composeview "github.com/nhle/taskpane/internal/ui/compose"
	configview "github.com/nhle/taskpane/internal/ui/config"
	helpview "github.com/nhle/taskpane/internal/ui/help"
	rewordview "github.com/nhle/taskpane/internal/ui/reword"
)

// ViewState represents the overlay shown over the tabs, if any.
type ViewState int

const (
	ViewTabs ViewState = iota
	ViewHelp
	ViewCommand
	ViewConfig
)

var tabLabels = []string{"Reword", "Compose", "Analyze"}

// Deps are the collaborators the root model is built from.
type Deps struct {
	Config     *model.AppConfig
	ConfigPath string
	Store      store.Store
	Service    ai.Service
	Vault      *credential.Vault
	Copier     clipboard.Copier
	Logger     *log.Logger
}

// Model is the root Bubble Tea model that manages tab routing, layout,
// and the host session.
type Model struct {
	currentView ViewState
	activeTab   ui.Screen
	layout      ui.Layout
	keys        *keys.KeyMap
	ready       bool

	cfg        model.AppConfig
	configPath string
	store      store.Store
	secrets    profile.Secrets
	logger     *log.Logger
	session    *session
	poller     *appsync.Poller

	// shared is the one AnalysisContext; Compose and Analyze read and
	// write it through their orchestrators.
	shared    *ai.AnalysisContext
	composeOp *taskpane.Compose

	reword      rewordview.Model
	compose     composeview.Model
	analyze     analyzeview.Model
	helpView    helpview.Model
	commandView command.Model
	configView  configview.Model

	open      appsync.BodyPolledMsg
	hostErr   error
	statusMsg string
}

// New creates the root model. The host profile is opened by Init.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()

	cfg := model.AppConfig{}
	if d.Config != nil {
		cfg = *d.Config
	}
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	copier := d.Copier
	if copier == nil {
		copier = clipboard.NewSystem(nil)
	}

	var secrets profile.Secrets
	if d.Vault != nil {
		secrets = d.Vault
	}

	sess := &session{}
	rec := store.NewActivityRecorder(d.Store, sess.hostID, logging.Component(logger, "store"))

	shared := ai.NewAnalysisContext()
	rewordOp := taskpane.NewReword(d.Service, rec)
	composeOp := taskpane.NewCompose(d.Service, nil, shared, rec)
	analyzeOp := taskpane.NewAnalyze(d.Service, nil, shared, rec)

	poller := appsync.New(nil, appsync.Options{
		Interval:     cfg.Poll.Interval(),
		PreviewLimit: cfg.Poll.PreviewLimit,
		Logger:       logging.Component(logger, "poller"),
	})

	return Model{
		currentView: ViewTabs,
		activeTab:   ui.ScreenReword,
		keys:        k,
		cfg:         cfg,
		configPath:  d.ConfigPath,
		store:       d.Store,
		secrets:     secrets,
		logger:      logger,
		session:     sess,
		poller:      poller,
		shared:      shared,
		composeOp:   composeOp,
		reword:      rewordview.New(rewordOp, copier, k, 80, 24),
		compose:     composeview.New(composeOp, copier, k, 80, 24),
		analyze:     analyzeview.New(analyzeOp, k, cfg.Display.Theme, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		configView:  configview.New(d.Store, d.Vault, logging.Component(logger, "host"), k, 80, 24),
	}
}

// Init opens the active host profile and focuses the Reword tab.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.reword.Init(),
		loadActiveHost(m.store, m.secrets, m.cfg.Host.Active, logging.Component(m.logger, "host")),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.reword.SetSize(w, h)
		m.compose.SetSize(w, h)
		m.analyze.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.configView.SetSize(w, h)
		var cmd tea.Cmd
		m.configView, cmd = m.configView.Update(msg)
		return m, cmd

	case hostOpenedMsg:
		return m.handleHostOpened(msg)

	case hostsListedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error loading hosts: %v", msg.err)
			return m, nil
		}
		h, ok := findHost(msg.hosts, msg.name)
		if !ok {
			m.statusMsg = fmt.Sprintf("No host named %q", msg.name)
			return m, nil
		}
		return m, openHostCmd(h, m.secrets, logging.Component(m.logger, "host"))

	case configSavedMsg:
		if msg.err != nil {
			m.logger.Warn("saving active host", "error", msg.err)
		}
		return m, nil

	case appsync.BodyPolledMsg:
		m.open = msg
		m.analyze.SetOpenEmail(msg.HasEmail, msg.Preview)
		m.reword.SetEmailBody(msg.Body)
		return m, m.poller.WaitForNextResult()

	case analyzeview.GenerateResponseMsg:
		analysis := msg.Analysis
		if analysis == nil {
			analysis = m.shared.Get()
		}
		m.composeOp.Adopt(analysis)
		m.currentView = ViewTabs
		return m, m.switchTab(ui.ScreenCompose)

	case composeview.AnalysisUpdatedMsg:
		m.statusMsg = "Email analyzed; analysis will be included"
		return m, nil

	case ui.StatusMsg:
		m.statusMsg = string(msg)
		return m, nil

	case command.CommandMsg:
		m.currentView = ViewTabs
		return m.executeCommand(msg)

	case command.UnknownCommandMsg:
		m.currentView = ViewTabs
		m.statusMsg = fmt.Sprintf("Unknown command %q", string(msg))
		return m, nil

	case configview.ConfigDoneMsg:
		m.currentView = ViewTabs
		return m, m.focusActive()

	case configview.HostActivatedMsg:
		return m, openHostCmd(msg.Host, m.secrets, logging.Component(m.logger, "host"))

	case configview.HostSavedMsg:
		active, _ := m.session.current()
		if active.ID == "" || active.ID == msg.Host.ID {
			return m, openHostCmd(msg.Host, m.secrets, logging.Component(m.logger, "host"))
		}
		return m, nil

	case configview.HostDeletedMsg:
		active, _ := m.session.current()
		if active.ID == msg.ID {
			return m.handleHostOpened(hostOpenedMsg{persist: true})
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.broadcast(msg)
}

// handleKey applies global keys, then hands the key to the overlay or
// the active tab.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}

	switch m.currentView {
	case ViewConfig:
		var cmd tea.Cmd
		m.configView, cmd = m.configView.Update(msg)
		return m, cmd

	case ViewHelp:
		if key.Matches(msg, m.keys.Back, m.keys.Help) {
			m.currentView = ViewTabs
			return m, m.focusActive()
		}
		return m, nil

	case ViewCommand:
		if key.Matches(msg, m.keys.Back, m.keys.Command) {
			m.currentView = ViewTabs
			return m, m.focusActive()
		}
		var cmd tea.Cmd
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd
	}

	tabs := ui.Screen(len(tabLabels))
	switch {
	case key.Matches(msg, m.keys.Help):
		m.blurActive()
		m.currentView = ViewHelp
		return m, nil
	case key.Matches(msg, m.keys.Command):
		m.blurActive()
		m.currentView = ViewCommand
		m.commandView = command.New(m.layout.ContentWidth(), m.layout.ContentHeight())
		return m, m.commandView.Init()
	case key.Matches(msg, m.keys.Hosts):
		return m.openConfig()
	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab((m.activeTab + 1) % tabs)
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.switchTab((m.activeTab + tabs - 1) % tabs)
	}

	m.statusMsg = ""
	return m.updateActiveTab(msg)
}

// updateActiveTab dispatches a key to the visible tab only.
func (m Model) updateActiveTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case ui.ScreenReword:
		m.reword, cmd = m.reword.Update(msg)
	case ui.ScreenCompose:
		m.compose, cmd = m.compose.Update(msg)
	case ui.ScreenAnalyze:
		m.analyze, cmd = m.analyze.Update(msg)
	}
	return m, cmd
}

// broadcast hands a non-key message to every tab and the config view,
// so completions and spinner ticks land even after a tab switch.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [4]tea.Cmd
	m.reword, cmds[0] = m.reword.Update(msg)
	m.compose, cmds[1] = m.compose.Update(msg)
	m.analyze, cmds[2] = m.analyze.Update(msg)
	m.configView, cmds[3] = m.configView.Update(msg)
	if m.currentView == ViewCommand {
		var cmd tea.Cmd
		m.commandView, cmd = m.commandView.Update(msg)
		return m, tea.Batch(append(cmds[:], cmd)...)
	}
	return m, tea.Batch(cmds[:]...)
}

// handleHostOpened installs a newly opened mailbox in every screen and
// the poller. A zero message clears the session.
func (m Model) handleHostOpened(msg hostOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.hostErr = msg.err
		m.statusMsg = msg.err.Error()
		m.logger.Error("opening host", "error", msg.err)
		return m, m.poller.Start()
	}

	m.hostErr = nil
	prev := m.session.swap(msg.host, msg.mailbox)
	m.setMailbox(msg.mailbox)
	m.open = appsync.BodyPolledMsg{}
	m.analyze.SetOpenEmail(false, "")
	m.reword.SetEmailBody("")

	cmds := []tea.Cmd{closeMailboxCmd(prev, m.logger), m.poller.Start()}

	if msg.host.ID == "" {
		if m.cfg.Host.Active != "" {
			m.cfg.Host.Active = ""
			cmds = append(cmds, saveActiveHostCmd(m.configPath, m.cfg))
		}
		if msg.persist {
			m.statusMsg = "No mail host selected"
			return m, tea.Batch(cmds...)
		}
		// First run: nothing configured yet.
		m.statusMsg = "Add a mail host to get started"
		next, cmd := m.openConfig()
		return next, tea.Batch(append(cmds, cmd)...)
	}

	m.statusMsg = fmt.Sprintf("Using %s", msg.host.Name)
	m.configView.SetActive(msg.host.ID)
	if msg.persist && m.cfg.Host.Active != msg.host.ID {
		m.cfg.Host.Active = msg.host.ID
		cmds = append(cmds, saveActiveHostCmd(m.configPath, m.cfg))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setMailbox(mb host.Mailbox) {
	m.reword.SetMailbox(mb)
	m.compose.SetMailbox(mb)
	m.analyze.SetMailbox(mb)
	m.poller.SetMailbox(mb)
}

// executeCommand handles a command from the command palette.
func (m Model) executeCommand(c command.CommandMsg) (tea.Model, tea.Cmd) {
	switch c.Name {
	case command.CmdReword:
		return m, m.switchTab(ui.ScreenReword)
	case command.CmdCompose:
		return m, m.switchTab(ui.ScreenCompose)
	case command.CmdAnalyze:
		focus := m.switchTab(ui.ScreenAnalyze)
		var cmd tea.Cmd
		m.analyze, cmd = m.analyze.Submit()
		return m, tea.Batch(focus, cmd)
	case command.CmdHosts:
		return m.openConfig()
	case command.CmdUse:
		if c.Arg == "" {
			m.statusMsg = "usage: use <host name>"
			return m, m.focusActive()
		}
		return m, tea.Batch(listHostsCmd(m.store, c.Arg), m.focusActive())
	case command.CmdRefresh:
		m.poller.Refresh()
		m.statusMsg = "Refreshing open message"
		return m, m.focusActive()
	case command.CmdReset:
		m.composeOp.ResetAnalysis()
		m.statusMsg = "Analysis context cleared"
		return m, m.focusActive()
	case command.CmdHelp:
		m.currentView = ViewHelp
		return m, nil
	case command.CmdQuit:
		return m.quit()
	}
	return m, m.focusActive()
}

func (m Model) openConfig() (tea.Model, tea.Cmd) {
	m.blurActive()
	m.currentView = ViewConfig
	return m, m.configView.Init()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.poller.Stop()
	if _, mb := m.session.current(); mb != nil {
		if err := profile.Close(mb); err != nil {
			m.logger.Debug("closing mailbox", "error", err)
		}
	}
	return m, tea.Quit
}

// switchTab moves focus to the given tab.
func (m *Model) switchTab(to ui.Screen) tea.Cmd {
	m.blurActive()
	m.activeTab = to
	m.statusMsg = ""
	return m.focusActive()
}

func (m *Model) blurActive() {
	switch m.activeTab {
	case ui.ScreenReword:
		m.reword.Blur()
	case ui.ScreenCompose:
		m.compose.Blur()
	}
}

func (m *Model) focusActive() tea.Cmd {
	switch m.activeTab {
	case ui.ScreenReword:
		return m.reword.Focus()
	case ui.ScreenCompose:
		return m.compose.Focus()
	}
	return nil
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("taskpane", m.hostStatus())
	tabs := m.layout.RenderTabs(m.tabLabels(), int(m.activeTab))
	statusBar := m.layout.RenderStatusBar(m.keyHints())
	return m.layout.RenderWithFrame(header, tabs, m.renderContent(), statusBar)
}

// tabLabels marks tabs with a request in flight.
func (m Model) tabLabels() []string {
	busy := []bool{m.reword.Busy(), m.compose.Busy(), m.analyze.Busy()}
	labels := make([]string, len(tabLabels))
	for i, l := range tabLabels {
		if busy[i] {
			l += " …"
		}
		labels[i] = l
	}
	return labels
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewConfig:
		return m.configView.View()
	}

	switch m.activeTab {
	case ui.ScreenCompose:
		return m.compose.View()
	case ui.ScreenAnalyze:
		return m.analyze.View()
	default:
		return m.reword.View()
	}
}

// hostStatus describes the host session for the header.
func (m Model) hostStatus() string {
	h, mb := m.session.current()
	if m.hostErr != nil {
		return "⚠ host unavailable"
	}
	if mb == nil {
		return "no mail host"
	}

	name := h.Name
	if d, ok := mb.(host.Describer); ok {
		name = d.Describe()
	}

	switch {
	case m.open.Err != nil:
		return name + " · ⚠ read failed"
	case m.open.HasEmail:
		return name + " · email open"
	default:
		return name + " · no email"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewTabs {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "f1/esc close help"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewConfig:
		return "a add | e edit | d delete | u use | enter test | esc back"
	}

	common := "tab switch | f1 help | ctrl+p commands | f2 hosts | ctrl+c quit"
	switch m.activeTab {
	case ui.ScreenReword:
		return strings.Join([]string{"ctrl+s reword", "ctrl+t tone", "ctrl+l load email", common}, " | ")
	case ui.ScreenCompose:
		return strings.Join([]string{"ctrl+s compose", "ctrl+a analysis", "ctrl+e analyze email", common}, " | ")
	default:
		return strings.Join([]string{"ctrl+s analyze", "g generate response", "v raw", common}, " | ")
	}
}
