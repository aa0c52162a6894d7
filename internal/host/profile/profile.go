// Package profile turns a saved host profile into a live mailbox.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskpane/internal/credential"
	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/host/file"
	"github.com/nhle/taskpane/internal/host/imapbox"
	"github.com/nhle/taskpane/internal/model"
)

// Settings keys used by host profiles.
const (
	KeyHost     = "host"
	KeyPort     = "port"
	KeyUsername = "username"
	KeyTLS      = "tls"
	KeyMailbox  = "mailbox"
	KeyUID      = "uid"
	KeyPath     = "path"
)

// Secrets looks up stored secrets. An unknown key yields "" and no error.
type Secrets interface {
	Lookup(key string) (string, error)
}

var _ Secrets = (*credential.Vault)(nil)

// Validate checks that a profile carries the settings its type needs.
func Validate(h model.HostConfig) error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("name is required")
	}
	switch h.Type {
	case model.HostTypeIMAP:
		if h.Setting(KeyHost, "") == "" {
			return errors.New("IMAP host is required")
		}
		if h.Setting(KeyUsername, "") == "" {
			return errors.New("username is required")
		}
		if _, err := strconv.ParseUint(h.Setting(KeyPort, "993"), 10, 16); err != nil {
			return fmt.Errorf("invalid port %q", h.Setting(KeyPort, ""))
		}
		if _, err := strconv.ParseUint(h.Setting(KeyUID, "0"), 10, 32); err != nil {
			return fmt.Errorf("invalid uid %q", h.Setting(KeyUID, ""))
		}
	case model.HostTypeFile:
		if h.Setting(KeyPath, "") == "" {
			return errors.New("path is required")
		}
	default:
		return fmt.Errorf("unknown host type %q", h.Type)
	}
	return nil
}

// IMAPConfig builds the connection settings of an IMAP profile.
func IMAPConfig(h model.HostConfig, password string) (imapbox.Config, error) {
	if err := Validate(h); err != nil {
		return imapbox.Config{}, err
	}
	if h.Type != model.HostTypeIMAP {
		return imapbox.Config{}, fmt.Errorf("host %q is not an IMAP profile", h.Name)
	}

	uid, _ := strconv.ParseUint(h.Setting(KeyUID, "0"), 10, 32)
	return imapbox.Config{
		Host:     h.Setting(KeyHost, ""),
		Port:     h.Setting(KeyPort, "993"),
		Username: h.Setting(KeyUsername, ""),
		Password: password,
		TLS:      h.Setting(KeyTLS, "true") != "false",
		Mailbox:  h.Setting(KeyMailbox, "INBOX"),
		UID:      uint32(uid),
	}, nil
}

// Open builds the mailbox for a profile, reading the IMAP password
// from secrets.
func Open(h model.HostConfig, secrets Secrets, logger *log.Logger) (host.Mailbox, error) {
	password := ""
	if h.Type == model.HostTypeIMAP && secrets != nil {
		p, err := secrets.Lookup(credential.IMAPPasswordKey(h.ID))
		if err != nil {
			return nil, fmt.Errorf("reading password for %s: %w", h.Name, err)
		}
		password = p
	}
	return OpenWithPassword(h, password, logger)
}

// OpenWithPassword builds the mailbox for a profile with an explicit
// password, e.g. while the profile is still being edited.
func OpenWithPassword(h model.HostConfig, password string, logger *log.Logger) (host.Mailbox, error) {
	if err := Validate(h); err != nil {
		return nil, err
	}
	switch h.Type {
	case model.HostTypeIMAP:
		cfg, err := IMAPConfig(h, password)
		if err != nil {
			return nil, err
		}
		return imapbox.New(cfg, logger), nil
	default:
		return file.New(h.Setting(KeyPath, "")), nil
	}
}

// Check exercises a mailbox the way the taskpane will and returns a
// short summary for the user.
func Check(ctx context.Context, mb host.Mailbox) (string, error) {
	if v, ok := mb.(interface {
		ValidateConnection(ctx context.Context) (uint32, error)
	}); ok {
		n, err := v.ValidateConnection(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d messages", n), nil
	}

	id, open, err := mb.CurrentMessageID(ctx)
	if err != nil {
		return "", err
	}
	if !open {
		return "no message open", nil
	}
	return "open message " + id, nil
}

// Close releases the mailbox if it holds a connection.
func Close(mb host.Mailbox) error {
	if c, ok := mb.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Summary describes a profile in one line for lists.
func Summary(h model.HostConfig) string {
	switch h.Type {
	case model.HostTypeIMAP:
		return fmt.Sprintf("%s@%s:%s/%s",
			h.Setting(KeyUsername, "?"),
			h.Setting(KeyHost, "?"),
			h.Setting(KeyPort, "993"),
			h.Setting(KeyMailbox, "INBOX"),
		)
	case model.HostTypeFile:
		return h.Setting(KeyPath, "?")
	default:
		return string(h.Type)
	}
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
