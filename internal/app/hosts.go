package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/host/profile"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/store"
)

// session holds the active host profile and its open mailbox. The
// activity recorder reads it from the UI goroutine and host commands
// read it from theirs, so access is locked.
type session struct {
	mu      sync.Mutex
	host    model.HostConfig
	mailbox host.Mailbox
}

func (s *session) hostID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host.ID
}

func (s *session) current() (model.HostConfig, host.Mailbox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host, s.mailbox
}

// swap installs a new host and mailbox and returns the previous mailbox.
func (s *session) swap(h model.HostConfig, mb host.Mailbox) host.Mailbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.mailbox
	s.host = h
	s.mailbox = mb
	return prev
}

// hostOpenedMsg is sent when a host profile has been turned into a
// mailbox. A zero Host with no error means no profile is configured.
type hostOpenedMsg struct {
	host    model.HostConfig
	mailbox host.Mailbox
	persist bool
	err     error
}

// hostsListedMsg carries the profiles for the "use <name>" command.
type hostsListedMsg struct {
	name  string
	hosts []model.HostConfig
	err   error
}

// configSavedMsg reports a failure to persist the active host choice.
type configSavedMsg struct {
	err error
}

// loadActiveHost resolves the configured host profile, falling back to
// the first saved one, and opens it.
func loadActiveHost(s store.Store, secrets profile.Secrets, activeID string, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		if activeID != "" {
			h, err := s.GetHostByID(ctx, activeID)
			if err == nil {
				return openHost(*h, secrets, logger, false)
			}
			if !errors.Is(err, store.ErrNotFound) {
				return hostOpenedMsg{err: fmt.Errorf("loading host %s: %w", activeID, err)}
			}
			logger.Warn("configured host no longer exists", "host", activeID)
		}

		hosts, err := s.GetHosts(ctx)
		if err != nil {
			return hostOpenedMsg{err: fmt.Errorf("loading hosts: %w", err)}
		}
		if len(hosts) == 0 {
			return hostOpenedMsg{}
		}
		return openHost(hosts[0], secrets, logger, true)
	}
}

// openHostCmd opens h and asks the app to remember it as active.
func openHostCmd(h model.HostConfig, secrets profile.Secrets, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		return openHost(h, secrets, logger, true)
	}
}

func openHost(h model.HostConfig, secrets profile.Secrets, logger *log.Logger, persist bool) hostOpenedMsg {
	mb, err := profile.Open(h, secrets, logger)
	if err != nil {
		return hostOpenedMsg{host: h, err: fmt.Errorf("opening host %q: %w", h.Name, err)}
	}
	logger.Info("host opened", "host", h.Name, "type", h.Type)
	return hostOpenedMsg{host: h, mailbox: mb, persist: persist}
}

// listHostsCmd loads the profiles so a palette "use <name>" can be
// resolved.
func listHostsCmd(s store.Store, name string) tea.Cmd {
	return func() tea.Msg {
		hosts, err := s.GetHosts(context.Background())
		return hostsListedMsg{name: name, hosts: hosts, err: err}
	}
}

// findHost matches a profile by exact ID or case-insensitive name.
func findHost(hosts []model.HostConfig, name string) (model.HostConfig, bool) {
	for _, h := range hosts {
		if h.ID == name || strings.EqualFold(h.Name, name) {
			return h, true
		}
	}
	return model.HostConfig{}, false
}

// closeMailboxCmd releases a mailbox off the UI goroutine.
func closeMailboxCmd(mb host.Mailbox, logger *log.Logger) tea.Cmd {
	if mb == nil {
		return nil
	}
	return func() tea.Msg {
		if err := profile.Close(mb); err != nil {
			logger.Debug("closing mailbox", "error", err)
		}
		return nil
	}
}

// saveActiveHostCmd writes the active host choice to the config file.
func saveActiveHostCmd(path string, cfg model.AppConfig) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		return configSavedMsg{err: model.SaveConfig(path, &cfg)}
	}
}
