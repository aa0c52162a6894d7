package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nhle/taskpane/internal/credential"
	"github.com/nhle/taskpane/internal/host/profile"
	"github.com/nhle/taskpane/internal/keys"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/store"
	"github.com/nhle/taskpane/internal/theme"
)

const validateTimeout = 20 * time.Second

// ConfigMode represents the current state of the configuration view.
type ConfigMode int

const (
	ModeList           ConfigMode = iota // List host profiles
	ModeSelectType                       // Select host type to add
	ModeFormIMAP                         // IMAP profile form
	ModeFormFile                         // File profile form
	ModeValidating                       // Testing connection
	ModeValidateResult                   // Show validation result
	ModeConfirmDelete                    // Confirm profile deletion
)

// ConfigDoneMsg signals the config view should close and return to the main app.
type ConfigDoneMsg struct{}

// HostSavedMsg signals a host profile was saved successfully.
type HostSavedMsg struct {
	Host model.HostConfig
}

// HostDeletedMsg signals a host profile was deleted.
type HostDeletedMsg struct {
	ID string
}

// HostActivatedMsg asks the app to switch to a host profile.
type HostActivatedMsg struct {
	Host model.HostConfig
}

// ValidateResultMsg carries the result of a connection validation attempt.
type ValidateResultMsg struct {
	Summary string
	Err     error
}

type hostsLoadedMsg struct {
	hosts []model.HostConfig
	err   error
}

type hostSavedInternalMsg struct {
	host    model.HostConfig
	summary string
	err     error
}

type hostDeletedInternalMsg struct {
	id  string
	err error
}

// formValues holds the values huh binds to. It lives behind a pointer so
// the bindings survive the Model being copied by value in Update.
type formValues struct {
	hostType string
	name     string
	imapHost string
	imapPort string
	username string
	password string
	tls      bool
	mailbox  string
	uid      string
	path     string
	confirm  bool
}

func (f *formValues) reset() {
	*f = formValues{imapPort: "993", tls: true, mailbox: "INBOX"}
}

// Model is the Bubble Tea model for the host profile configuration UI.
type Model struct {
	mode        ConfigMode
	store       store.Store
	vault       *credential.Vault
	logger      *log.Logger
	hosts       []model.HostConfig
	selectedIdx int
	activeID    string
	editing     *model.HostConfig

	typeSelect    *huh.Form
	imapForm      *huh.Form
	fileForm      *huh.Form
	confirmDelete *huh.Form
	form          *formValues

	// Validation
	validResult string
	validError  error
	spinner     spinner.Model

	// Status message for transient feedback
	statusMsg string

	keys          *keys.KeyMap
	width, height int
}

// New creates a new configuration view model. vault may be nil when no
// keyring is available; IMAP passwords then cannot be saved.
func New(
	s store.Store,
	vault *credential.Vault,
	logger *log.Logger,
	k *keys.KeyMap,
	width, height int,
) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if logger == nil {
		logger = log.Default()
	}

	f := &formValues{}
	f.reset()

	return Model{
		mode:    ModeList,
		store:   s,
		vault:   vault,
		logger:  logger,
		keys:    k,
		spinner: sp,
		form:    f,
		width:   width,
		height:  height,
	}
}

// Init loads host profiles from the store.
func (m Model) Init() tea.Cmd {
	return m.loadHosts()
}

// SetActive marks the profile currently in use.
func (m *Model) SetActive(id string) {
	m.activeID = id
}

// Hosts returns the loaded profiles.
func (m Model) Hosts() []model.HostConfig {
	return m.hosts
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case hostsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error loading hosts: %v", msg.err)
			return m, nil
		}
		m.hosts = msg.hosts
		if m.selectedIdx >= len(m.hosts) {
			m.selectedIdx = max(len(m.hosts)-1, 0)
		}
		return m, nil

	case hostSavedInternalMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error saving host: %v", msg.err)
			m.mode = ModeList
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Host %q saved", msg.host.Name)
		if msg.summary != "" {
			m.statusMsg += " (" + msg.summary + ")"
		}
		m.mode = ModeList
		saved := msg.host
		return m, tea.Batch(
			m.loadHosts(),
			func() tea.Msg { return HostSavedMsg{Host: saved} },
		)

	case hostDeletedInternalMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error deleting host: %v", msg.err)
			m.mode = ModeList
			return m, nil
		}
		m.statusMsg = "Host deleted"
		m.mode = ModeList
		if m.selectedIdx >= len(m.hosts)-1 && m.selectedIdx > 0 {
			m.selectedIdx--
		}
		id := msg.id
		return m, tea.Batch(
			m.loadHosts(),
			func() tea.Msg { return HostDeletedMsg{ID: id} },
		)

	case ValidateResultMsg:
		if m.mode != ModeValidating {
			return m, nil
		}
		m.validResult = msg.Summary
		m.validError = msg.Err
		m.mode = ModeValidateResult
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateActiveForm(msg)
}

// handleKeyMsg processes key messages based on the current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeList:
		return m.handleListKeys(msg)
	case ModeValidateResult:
		return m.handleValidateResultKeys(msg)
	case ModeValidating:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
			return m, nil
		}
		return m, nil
	}
	return m.updateActiveForm(msg)
}

// handleListKeys processes key events in the host list.
func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return ConfigDoneMsg{} }

	case msg.String() == "a":
		m.editing = nil
		m.form.reset()
		m.mode = ModeSelectType
		m.typeSelect = m.buildTypeSelectForm()
		return m, m.typeSelect.Init()

	case msg.String() == "e":
		h, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editing = &h
		return m.startEditForm(h)

	case msg.String() == "d":
		if _, ok := m.selected(); !ok {
			return m, nil
		}
		m.form.confirm = false
		m.confirmDelete = m.buildDeleteConfirmForm()
		m.mode = ModeConfirmDelete
		return m, m.confirmDelete.Init()

	case msg.String() == "u":
		h, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.activeID = h.ID
		m.statusMsg = fmt.Sprintf("Using %q", h.Name)
		return m, func() tea.Msg { return HostActivatedMsg{Host: h} }

	case msg.String() == "enter":
		h, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = ModeValidating
		return m, tea.Batch(m.spinner.Tick, m.validateHost(h))

	case key.Matches(msg, m.keys.Down):
		if len(m.hosts) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.hosts)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.hosts) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.hosts) - 1
			}
		}
		return m, nil
	}

	return m, nil
}

// handleValidateResultKeys processes key events on the validation result screen.
func (m Model) handleValidateResultKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = ModeList
		m.validResult = ""
		m.validError = nil
		return m, nil
	case "r":
		if h, ok := m.selected(); ok && m.validError != nil {
			m.mode = ModeValidating
			return m, tea.Batch(m.spinner.Tick, m.validateHost(h))
		}
	}
	return m, nil
}

// updateActiveForm dispatches messages to the currently active form.
func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeSelectType:
		return m.updateTypeSelect(msg)
	case ModeFormIMAP:
		return m.updateIMAPForm(msg)
	case ModeFormFile:
		return m.updateFileForm(msg)
	case ModeConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m, nil
}

func (m Model) selected() (model.HostConfig, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.hosts) {
		return model.HostConfig{}, false
	}
	return m.hosts[m.selectedIdx], true
}

// updateForm feeds msg to f and reports whether it finished or was aborted.
func updateForm(f *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	mdl, cmd := f.Update(msg)
	if next, ok := mdl.(*huh.Form); ok {
		f = next
	}
	return f, cmd
}

// --- Type Selection ---

func (m Model) buildTypeSelectForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Host Type").
				Description("Where does the open message live?").
				Options(
					huh.NewOption("IMAP - newest (or pinned) message in a mailbox", string(model.HostTypeIMAP)),
					huh.NewOption("File - a local .eml or plain-text draft", string(model.HostTypeFile)),
				).
				Value(&m.form.hostType),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateTypeSelect(msg tea.Msg) (Model, tea.Cmd) {
	if m.typeSelect == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.typeSelect, cmd = updateForm(m.typeSelect, msg)

	switch m.typeSelect.State {
	case huh.StateCompleted:
		return m.openForm(model.HostType(m.form.hostType))
	case huh.StateAborted:
		m.mode = ModeList
		return m, nil
	}
	return m, cmd
}

func (m Model) openForm(t model.HostType) (Model, tea.Cmd) {
	switch t {
	case model.HostTypeIMAP:
		m.mode = ModeFormIMAP
		m.imapForm = m.buildIMAPForm()
		return m, m.imapForm.Init()
	case model.HostTypeFile:
		m.mode = ModeFormFile
		m.fileForm = m.buildFileForm()
		return m, m.fileForm.Init()
	default:
		m.mode = ModeList
		return m, nil
	}
}

// --- IMAP Form ---

func (m Model) buildIMAPForm() *huh.Form {
	passwordDesc := "Account password or app password"
	passwordCheck := validateRequired("Password")
	if m.editing != nil {
		passwordDesc = "Leave empty to keep the saved password"
		passwordCheck = func(string) error { return nil }
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("A label for this mail host").
				Placeholder("Work mail").
				Value(&m.form.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("IMAP Host").
				Placeholder("imap.example.com").
				Value(&m.form.imapHost).
				Validate(validateRequired("IMAP Host")),
			huh.NewInput().
				Title("IMAP Port").
				Placeholder("993").
				Value(&m.form.imapPort).
				Validate(validateNumber("Port")),
			huh.NewInput().
				Title("Username").
				Placeholder("user@example.com").
				Value(&m.form.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				Description(passwordDesc).
				EchoMode(huh.EchoModePassword).
				Value(&m.form.password).
				Validate(passwordCheck),
			huh.NewConfirm().
				Title("Use TLS").
				Description("Off uses STARTTLS").
				Affirmative("Yes").
				Negative("No").
				Value(&m.form.tls),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Mailbox").
				Description("Folder holding the message to work on").
				Placeholder("INBOX").
				Value(&m.form.mailbox),
			huh.NewInput().
				Title("Message UID").
				Description("Pin a message by UID; empty follows the newest").
				Value(&m.form.uid).
				Validate(validateOptionalNumber("UID")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateIMAPForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.imapForm == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.imapForm, cmd = updateForm(m.imapForm, msg)

	switch m.imapForm.State {
	case huh.StateCompleted:
		h := m.buildHostConfig(model.HostTypeIMAP)
		h.Settings = map[string]string{
			profile.KeyHost:     strings.TrimSpace(m.form.imapHost),
			profile.KeyPort:     strings.TrimSpace(m.form.imapPort),
			profile.KeyUsername: strings.TrimSpace(m.form.username),
			profile.KeyTLS:      fmt.Sprintf("%t", m.form.tls),
			profile.KeyMailbox:  defaultString(strings.TrimSpace(m.form.mailbox), "INBOX"),
		}
		if uid := strings.TrimSpace(m.form.uid); uid != "" && uid != "0" {
			h.Settings[profile.KeyUID] = uid
		}
		m.mode = ModeValidating
		return m, tea.Batch(m.spinner.Tick, m.validateAndSave(h, m.form.password))
	case huh.StateAborted:
		m.mode = ModeList
		return m, nil
	}
	return m, cmd
}

// --- File Form ---

func (m Model) buildFileForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("A label for this draft").
				Placeholder("Reply draft").
				Value(&m.form.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Path").
				Description("A .eml message or a plain-text file").
				Placeholder("~/drafts/reply.eml").
				Value(&m.form.path).
				Validate(validateRequired("Path")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateFileForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.fileForm == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.fileForm, cmd = updateForm(m.fileForm, msg)

	switch m.fileForm.State {
	case huh.StateCompleted:
		h := m.buildHostConfig(model.HostTypeFile)
		h.Settings = map[string]string{
			profile.KeyPath: profile.ExpandPath(strings.TrimSpace(m.form.path)),
		}
		m.mode = ModeValidating
		return m, tea.Batch(m.spinner.Tick, m.validateAndSave(h, ""))
	case huh.StateAborted:
		m.mode = ModeList
		return m, nil
	}
	return m, cmd
}

// --- Delete Confirmation ---

func (m Model) buildDeleteConfirmForm() *huh.Form {
	name := ""
	if h, ok := m.selected(); ok {
		name = h.Name
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete host %q?", name)).
				Description("This removes the profile and its saved password.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.form.confirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateConfirmDelete(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmDelete == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.confirmDelete, cmd = updateForm(m.confirmDelete, msg)

	switch m.confirmDelete.State {
	case huh.StateCompleted:
		h, ok := m.selected()
		if m.form.confirm && ok {
			return m, m.deleteHost(h)
		}
		m.mode = ModeList
		return m, nil
	case huh.StateAborted:
		m.mode = ModeList
		return m, nil
	}
	return m, cmd
}

// --- View ---

// View renders the configuration UI based on the current mode.
func (m Model) View() string {
	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeSelectType:
		return m.viewForm(m.typeSelect)
	case ModeFormIMAP:
		return m.viewForm(m.imapForm)
	case ModeFormFile:
		return m.viewForm(m.fileForm)
	case ModeValidating:
		return m.viewValidating()
	case ModeValidateResult:
		return m.viewValidateResult()
	case ModeConfirmDelete:
		return m.viewForm(m.confirmDelete)
	default:
		return ""
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Mail Hosts"))
	b.WriteString("\n\n")

	if len(m.hosts) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true)
		b.WriteString(emptyStyle.Render(
			"No mail hosts configured.\nPress 'a' to add one.",
		))
	} else {
		for i, h := range m.hosts {
			b.WriteString(m.renderHostItem(i, h))
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		statusStyle := lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true)
		b.WriteString(statusStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render(
		"a add | e edit | d delete | u use | enter test | esc back",
	))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

func (m Model) renderHostItem(idx int, h model.HostConfig) string {
	marker := "  "
	if h.ID == m.activeID {
		marker = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("● ")
	}

	name := h.Name
	if name == "" {
		name = "(unnamed)"
	}

	line := fmt.Sprintf("%s%s  %s  %s",
		marker,
		hostTypeIcon(h.Type),
		name,
		lipgloss.NewStyle().Foreground(theme.ColorGray).Render(profile.Summary(h)),
	)

	if idx == m.selectedIdx {
		return theme.SelectedItemStyle.Render(line)
	}
	return "  " + line
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(f.View())
}

func (m Model) viewValidating() string {
	content := fmt.Sprintf(
		"%s Testing connection...\n\nPress esc to cancel.",
		m.spinner.View(),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m Model) viewValidateResult() string {
	var content string
	if m.validError != nil {
		content = theme.ErrorStyle.Render("Connection failed") + "\n\n" +
			m.validError.Error() + "\n\n" +
			theme.HelpStyle.Render("r retry | enter/esc back")
	} else {
		okStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorGreen)
		content = okStyle.Render("Connection successful") + "\n\n" +
			defaultString(m.validResult, "OK") + "\n\n" +
			theme.HelpStyle.Render("enter/esc back")
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(content)
}

// --- Helpers ---

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) startEditForm(h model.HostConfig) (Model, tea.Cmd) {
	m.form.reset()
	m.form.hostType = string(h.Type)
	m.form.name = h.Name
	m.form.imapHost = h.Setting(profile.KeyHost, "")
	m.form.imapPort = h.Setting(profile.KeyPort, "993")
	m.form.username = h.Setting(profile.KeyUsername, "")
	m.form.tls = h.Setting(profile.KeyTLS, "true") != "false"
	m.form.mailbox = h.Setting(profile.KeyMailbox, "INBOX")
	m.form.uid = h.Setting(profile.KeyUID, "")
	m.form.path = h.Setting(profile.KeyPath, "")

	return m.openForm(h.Type)
}

func (m Model) buildHostConfig(t model.HostType) model.HostConfig {
	h := model.HostConfig{
		Type: t,
		Name: strings.TrimSpace(m.form.name),
	}
	if m.editing != nil {
		h.ID = m.editing.ID
	} else {
		h.ID = uuid.New().String()
	}
	return h
}

// loadHosts returns a command that loads all host profiles.
func (m Model) loadHosts() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		hosts, err := s.GetHosts(context.Background())
		return hostsLoadedMsg{hosts: hosts, err: err}
	}
}

// deleteHost returns a command that removes a profile and its password.
func (m Model) deleteHost(h model.HostConfig) tea.Cmd {
	s, vault, logger := m.store, m.vault, m.logger
	return func() tea.Msg {
		if vault != nil && h.Type == model.HostTypeIMAP {
			if err := vault.Delete(credential.IMAPPasswordKey(h.ID)); err != nil {
				logger.Warn("removing host password", "host", h.ID, "error", err)
			}
		}
		err := s.DeleteHost(context.Background(), h.ID)
		return hostDeletedInternalMsg{id: h.ID, err: err}
	}
}

// validateHost tests the connection for a saved profile.
func (m Model) validateHost(h model.HostConfig) tea.Cmd {
	vault, logger := m.vault, m.logger
	return func() tea.Msg {
		var secrets profile.Secrets
		if vault != nil {
			secrets = vault
		}
		mb, err := profile.Open(h, secrets, logger)
		if err != nil {
			return ValidateResultMsg{Err: err}
		}
		defer profile.Close(mb)

		ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
		defer cancel()

		summary, err := profile.Check(ctx, mb)
		return ValidateResultMsg{Summary: summary, Err: err}
	}
}

// validateAndSave validates the connection then saves the profile and
// its password if successful. An empty password on an existing IMAP
// profile keeps the saved one.
func (m Model) validateAndSave(h model.HostConfig, password string) tea.Cmd {
	s, vault, logger := m.store, m.vault, m.logger
	editing := m.editing != nil
	return func() tea.Msg {
		if h.Type == model.HostTypeIMAP {
			if vault == nil {
				return ValidateResultMsg{Err: fmt.Errorf("no keyring available to store the password")}
			}
			if password == "" && editing {
				saved, err := vault.Lookup(credential.IMAPPasswordKey(h.ID))
				if err != nil {
					return ValidateResultMsg{Err: fmt.Errorf("reading saved password: %w", err)}
				}
				password = saved
			}
		}

		mb, err := profile.OpenWithPassword(h, password, logger)
		if err != nil {
			return ValidateResultMsg{Err: err}
		}
		defer profile.Close(mb)

		ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
		defer cancel()

		summary, err := profile.Check(ctx, mb)
		if err != nil {
			return ValidateResultMsg{Err: err}
		}

		if h.Type == model.HostTypeIMAP {
			if err := vault.Set(credential.IMAPPasswordKey(h.ID), password); err != nil {
				return ValidateResultMsg{Err: fmt.Errorf("connection OK but saving password failed: %w", err)}
			}
		}

		saved, err := s.UpsertHost(context.Background(), h)
		if err != nil {
			return ValidateResultMsg{
				Summary: summary,
				Err:     fmt.Errorf("connection OK but save failed: %w", err),
			}
		}

		return hostSavedInternalMsg{host: saved, summary: summary}
	}
}

func hostTypeIcon(t model.HostType) string {
	switch t {
	case model.HostTypeIMAP:
		return "[I]"
	case model.HostTypeFile:
		return "[F]"
	default:
		return "[?]"
	}
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// --- Validators ---

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateNumber(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return validateOptionalNumber(fieldName)(s)
	}
}

func validateOptionalNumber(fieldName string) func(string) error {
	return func(s string) error {
		for _, c := range strings.TrimSpace(s) {
			if c < '0' || c > '9' {
				return fmt.Errorf("%s must be a number", fieldName)
			}
		}
		return nil
	}
}
