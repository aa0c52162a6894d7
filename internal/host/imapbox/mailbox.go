// Package imapbox is a mail host backed by an IMAP mailbox. The open
// message is either a pinned UID or the newest message in the mailbox.
package imapbox

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/taskpane/internal/host"
)

// Config holds the connection settings for an IMAP host.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	TLS      bool

	// Mailbox is the folder holding the open message. Defaults to INBOX.
	Mailbox string

	// UID pins the open message. Zero follows the newest message.
	UID uint32
}

// Mailbox implements host.Mailbox over a single IMAP session that is
// opened lazily and re-dialled after a failure. Operations are
// serialized because they share the selected-mailbox state.
type Mailbox struct {
	cfg    Config
	dial   func(addr string, tls bool) (*imapclient.Client, error)
	logger *log.Logger

	mu     sync.Mutex
	client *imapclient.Client
	pinned imap.UID
}

// New creates an IMAP mailbox. No connection is made until first use.
func New(cfg Config, logger *log.Logger) *Mailbox {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Mailbox{
		cfg:    cfg,
		dial:   dialIMAP,
		logger: logger,
		pinned: imap.UID(cfg.UID),
	}
}

// Describe names the mailbox for the header bar.
func (m *Mailbox) Describe() string {
	return fmt.Sprintf("imap:%s/%s", m.cfg.Username, m.cfg.Mailbox)
}

// Close logs out of the IMAP session if one is open.
func (m *Mailbox) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Logout().Wait()
	m.client = nil
	return err
}

// ValidateConnection logs in and selects the mailbox, returning the
// number of messages it holds.
func (m *Mailbox) ValidateConnection(ctx context.Context) (uint32, error) {
	return withSession(ctx, m, "validate", func(c *imapclient.Client) (uint32, error) {
		data, err := c.Select(m.cfg.Mailbox, &imap.SelectOptions{ReadOnly: true}).Wait()
		if err != nil {
			return 0, fmt.Errorf("selecting %s: %w", m.cfg.Mailbox, err)
		}
		return data.NumMessages, nil
	})
}

// CurrentMessageID returns the Message-ID of the open message, or
// "uid:<n>" when the message has none.
func (m *Mailbox) CurrentMessageID(ctx context.Context) (string, bool, error) {
	id, err := withSession(ctx, m, "message-id", func(c *imapclient.Client) (string, error) {
		uid, err := m.resolveUID(c)
		if err != nil {
			return "", err
		}

		fetchCmd := c.Fetch(imap.UIDSetNum(uid), &imap.FetchOptions{
			Envelope: true,
			UID:      true,
		})
		defer fetchCmd.Close()

		msg := fetchCmd.Next()
		if msg == nil {
			return "", host.ErrNoMessage
		}
		buf, err := msg.Collect()
		if err != nil {
			return "", fmt.Errorf("collecting envelope: %w", err)
		}
		if buf.Envelope != nil && buf.Envelope.MessageID != "" {
			return buf.Envelope.MessageID, nil
		}
		return fmt.Sprintf("uid:%d", uid), nil
	})
	if host.IsNoMessage(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// ReadBody fetches the open message without setting \Seen and returns
// its plain-text body.
func (m *Mailbox) ReadBody(ctx context.Context) (string, error) {
	return withSession(ctx, m, "read", func(c *imapclient.Client) (string, error) {
		uid, err := m.resolveUID(c)
		if err != nil {
			return "", err
		}
		raw, _, err := fetchRaw(c, uid)
		if err != nil {
			return "", err
		}
		return host.ParseMessage(raw).Text(), nil
	})
}

// WriteBody replaces the open message with a copy whose body is text.
// IMAP messages are immutable, so the copy is appended with the original
// flags, the original is expunged, and the copy becomes the open message.
func (m *Mailbox) WriteBody(ctx context.Context, text string) error {
	_, err := withSession(ctx, m, "write", func(c *imapclient.Client) (struct{}, error) {
		uid, err := m.resolveUID(c)
		if err != nil {
			return struct{}{}, err
		}

		raw, flags, err := fetchRaw(c, uid)
		if err != nil {
			return struct{}{}, err
		}

		replaced, err := host.ReplaceBody(raw, text)
		if err != nil {
			return struct{}{}, err
		}

		appendCmd := c.Append(m.cfg.Mailbox, int64(len(replaced)), &imap.AppendOptions{
			Flags: flags,
		})
		if _, err := appendCmd.Write(replaced); err != nil {
			return struct{}{}, fmt.Errorf("appending message: %w", err)
		}
		if err := appendCmd.Close(); err != nil {
			return struct{}{}, fmt.Errorf("appending message: %w", err)
		}
		appended, err := appendCmd.Wait()
		if err != nil {
			return struct{}{}, fmt.Errorf("appending message: %w", err)
		}

		old := imap.UIDSetNum(uid)
		storeCmd := c.Store(old, &imap.StoreFlags{
			Op:     imap.StoreFlagsAdd,
			Silent: true,
			Flags:  []imap.Flag{imap.FlagDeleted},
		}, nil)
		if err := storeCmd.Close(); err != nil {
			return struct{}{}, fmt.Errorf("flagging original: %w", err)
		}
		if err := c.UIDExpunge(old).Close(); err != nil {
			return struct{}{}, fmt.Errorf("expunging original: %w", err)
		}

		if appended != nil && appended.UID != 0 && m.pinned != 0 {
			m.pinned = appended.UID
		}

		m.logger.Info("replaced message body", "mailbox", m.cfg.Mailbox, "old_uid", uid)
		return struct{}{}, nil
	})
	return err
}

// resolveUID returns the pinned UID or the newest UID in the mailbox.
// The caller holds m.mu.
func (m *Mailbox) resolveUID(c *imapclient.Client) (imap.UID, error) {
	data, err := c.Select(m.cfg.Mailbox, nil).Wait()
	if err != nil {
		return 0, fmt.Errorf("selecting %s: %w", m.cfg.Mailbox, err)
	}
	if data.NumMessages == 0 {
		return 0, host.ErrNoMessage
	}
	if m.pinned != 0 {
		return m.pinned, nil
	}

	searchData, err := c.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return 0, fmt.Errorf("searching messages: %w", err)
	}
	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return 0, host.ErrNoMessage
	}
	return uids[len(uids)-1], nil
}

// fetchRaw fetches the full message for uid without marking it seen.
func fetchRaw(c *imapclient.Client, uid imap.UID) ([]byte, []imap.Flag, error) {
	bodySection := &imap.FetchItemBodySection{Peek: true}

	fetchCmd := c.Fetch(imap.UIDSetNum(uid), &imap.FetchOptions{
		Flags:       true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, nil, host.ErrNoMessage
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, nil, fmt.Errorf("collecting message data: %w", err)
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, nil, fmt.Errorf("message UID %d has no body", uid)
	}

	var flags []imap.Flag
	for _, f := range buf.Flags {
		if strings.EqualFold(string(f), `\Recent`) {
			continue
		}
		flags = append(flags, f)
	}

	return bytes.Clone(raw), flags, nil
}

// withSession runs fn against a logged-in client, dialling if needed.
// The lock is taken on the worker goroutine so a caller that gives up
// on ctx never leaves the session shared. A failed call drops the
// session so the next call reconnects.
func withSession[T any](
	ctx context.Context,
	m *Mailbox,
	op string,
	fn func(c *imapclient.Client) (T, error),
) (T, error) {
	return host.Go(ctx, op, func() (T, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		var zero T
		if m.client == nil {
			c, err := m.connect()
			if err != nil {
				return zero, err
			}
			m.client = c
		}

		v, err := fn(m.client)
		if err != nil && !host.IsNoMessage(err) {
			m.logger.Warn("imap operation failed", "op", op, "error", err)
			_ = m.client.Close()
			m.client = nil
		}
		return v, err
	})
}

// connect dials the server and authenticates.
func (m *Mailbox) connect() (*imapclient.Client, error) {
	addr := m.cfg.Host + ":" + m.cfg.Port

	client, err := m.dial(addr, m.cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(m.cfg.Username, m.cfg.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authentication failed for %s: %w", m.cfg.Username, err)
	}

	m.logger.Debug("imap session opened", "addr", addr, "user", m.cfg.Username)
	return client, nil
}

func dialIMAP(addr string, useTLS bool) (*imapclient.Client, error) {
	if useTLS {
		return imapclient.DialTLS(addr, nil)
	}
	return imapclient.DialStartTLS(addr, nil)
}
