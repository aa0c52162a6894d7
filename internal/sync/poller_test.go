package sync

import (
	"context"
	"errors"
	"io"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskpane/internal/host"
)

type stubMailbox struct {
	mu      gosync.Mutex
	id      string
	body    string
	err     error
	reads   int
	active  int
	overlap bool
	delay   time.Duration
}

func (s *stubMailbox) CurrentMessageID(context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.id != "", nil
}

func (s *stubMailbox) ReadBody(context.Context) (string, error) {
	s.mu.Lock()
	s.active++
	if s.active > 1 {
		s.overlap = true
	}
	s.reads++
	body, err, delay := s.body, s.err, s.delay
	s.mu.Unlock()

	time.Sleep(delay)

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return body, err
}

func (s *stubMailbox) WriteBody(context.Context, string) error { return host.ErrNoMessage }

func (s *stubMailbox) set(id, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.body = id, body
}

func newTestPoller(mb host.Mailbox, interval time.Duration) *Poller {
	return New(mb, Options{Interval: interval, PreviewLimit: 5, Logger: log.New(io.Discard)})
}

func TestPollOnceReportsChanges(t *testing.T) {
	mb := &stubMailbox{}
	p := newTestPoller(mb, time.Hour)
	ctx := context.Background()

	msg, changed := p.PollOnce(ctx)
	assert.False(t, changed)
	assert.False(t, msg.HasEmail)

	mb.set("m1", "Hello, world")
	msg, changed = p.PollOnce(ctx)
	require.True(t, changed)
	assert.Equal(t, "m1", msg.MessageID)
	assert.Equal(t, "Hello, world", msg.Body)
	assert.Equal(t, "Hello"+host.TruncationMarker, msg.Preview)

	_, changed = p.PollOnce(ctx)
	assert.False(t, changed)

	mb.set("m1", "Hello")
	msg, changed = p.PollOnce(ctx)
	assert.True(t, changed)
	assert.Equal(t, "Hello", msg.Preview)
	assert.Equal(t, PollIdle, p.Status().State)
}

func TestPollOnceError(t *testing.T) {
	mb := &stubMailbox{id: "m1", err: errors.New("socket closed")}
	p := newTestPoller(mb, time.Hour)

	msg, changed := p.PollOnce(context.Background())
	require.True(t, changed)
	assert.Error(t, msg.Err)
	assert.Equal(t, PollError, p.Status().State)

	_, changed = p.PollOnce(context.Background())
	assert.False(t, changed)
}

func TestPollerDeliversAndNeverOverlaps(t *testing.T) {
	mb := &stubMailbox{id: "m1", body: strings.Repeat("x", 10), delay: 15 * time.Millisecond}
	p := newTestPoller(mb, 5*time.Millisecond)

	cmd := p.Start()
	require.NotNil(t, cmd)
	assert.Nil(t, p.Start())

	msg, ok := cmd().(BodyPolledMsg)
	require.True(t, ok)
	assert.Equal(t, "m1", msg.MessageID)

	time.Sleep(80 * time.Millisecond)
	p.Stop()
	p.Stop()

	mb.mu.Lock()
	defer mb.mu.Unlock()
	assert.False(t, mb.overlap)
	assert.Greater(t, mb.reads, 1)

	assert.Nil(t, p.WaitForNextResult()())
}
