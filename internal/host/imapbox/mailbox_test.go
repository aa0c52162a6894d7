package imapbox

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskpane/internal/host"
)

func TestNewDefaults(t *testing.T) {
	m := New(Config{Host: "imap.example.com", Port: "993", Username: "ana"}, nil)

	assert.Equal(t, "INBOX", m.cfg.Mailbox)
	assert.Equal(t, "imap:ana/INBOX", m.Describe())
	assert.NotNil(t, m.logger)
}

func TestDialFailureSurfacesAsHostError(t *testing.T) {
	m := New(Config{Host: "imap.example.com", Port: "993", Username: "ana", Mailbox: "Drafts"}, log.New(io.Discard))

	dialErr := errors.New("connection refused")
	calls := 0
	m.dial = func(addr string, useTLS bool) (*imapclient.Client, error) {
		calls++
		assert.Equal(t, "imap.example.com:993", addr)
		return nil, dialErr
	}

	_, err := m.ReadBody(context.Background())
	require.Error(t, err)

	var opErr *host.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "read", opErr.Op)
	assert.ErrorIs(t, err, dialErr)

	// Not connected, so nothing is cached and the next call redials.
	err = m.WriteBody(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestCloseWithoutSession(t *testing.T) {
	m := New(Config{}, nil)
	assert.NoError(t, m.Close())
}
