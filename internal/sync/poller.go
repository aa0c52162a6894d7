// Package sync keeps the taskpane's view of the open message fresh by
// polling the mail host in the background.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/taskpane/internal/host"
)

// PollState represents the current state of the body poller.
type PollState int

const (
	PollIdle PollState = iota
	PollRunning
	PollError
)

// PollStatus holds the poller's state and the last successful read.
type PollStatus struct {
	State    PollState
	LastPoll time.Time
	Error    error
}

// BodyPolledMsg is a tea.Msg sent when the open message, its body or
// the poll error changes.
type BodyPolledMsg struct {
	MessageID string
	HasEmail  bool
	Body      string
	Preview   string
	Err       error
}

// readTimeout is the maximum time allowed for a single host read.
const readTimeout = 10 * time.Second

// Options configures a Poller.
type Options struct {
	Interval     time.Duration
	PreviewLimit int
	Logger       *log.Logger
}

// Poller reads the open message on a fixed interval. Reads never overlap:
// the next tick is only taken after the previous read returns.
type Poller struct {
	interval     time.Duration
	previewLimit int
	logger       *log.Logger

	mu      gosync.Mutex
	mailbox host.Mailbox
	status  PollStatus
	last    BodyPolledMsg
	running bool

	resultCh  chan BodyPolledMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
}

// New creates a poller over mb.
func New(mb host.Mailbox, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.PreviewLimit <= 0 {
		opts.PreviewLimit = 500
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Poller{
		interval:     opts.Interval,
		previewLimit: opts.PreviewLimit,
		logger:       opts.Logger,
		mailbox:      mb,
		resultCh:     make(chan BodyPolledMsg, 16),
		triggerCh:    make(chan struct{}, 1),
		stopCh:       make(chan struct{}),
	}
}

// SetMailbox switches the polled host and forces a read.
func (p *Poller) SetMailbox(mb host.Mailbox) {
	p.mu.Lock()
	p.mailbox = mb
	p.last = BodyPolledMsg{}
	p.mu.Unlock()
	p.Refresh()
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine. A stopped poller cannot be restarted.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh asks for an immediate read.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A read is already queued.
	}
}

// Status returns the current poll status.
func (p *Poller) Status() PollStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.poll()
		case <-p.triggerCh:
			p.poll()
		}
	}
}

// poll performs one read and publishes it when anything changed.
func (p *Poller) poll() {
	msg, changed := p.PollOnce(context.Background())
	if changed {
		p.sendResult(msg)
	}
}

// PollOnce reads the open message once and reports whether the result
// differs from the previous read.
func (p *Poller) PollOnce(ctx context.Context) (BodyPolledMsg, bool) {
	p.mu.Lock()
	mb := p.mailbox
	p.status.State = PollRunning
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	msg := p.read(ctx, mb)

	p.mu.Lock()
	defer p.mu.Unlock()

	if msg.Err != nil {
		p.status.State = PollError
		p.status.Error = msg.Err
	} else {
		p.status = PollStatus{State: PollIdle, LastPoll: time.Now()}
	}

	changed := !sameResult(p.last, msg)
	if changed && msg.Err != nil {
		p.logger.Warn("reading open message", "error", msg.Err)
	}
	p.last = msg
	return msg, changed
}

func (p *Poller) read(ctx context.Context, mb host.Mailbox) BodyPolledMsg {
	if mb == nil {
		return BodyPolledMsg{}
	}

	id, ok, err := mb.CurrentMessageID(ctx)
	if err != nil {
		return BodyPolledMsg{Err: err}
	}
	if !ok {
		return BodyPolledMsg{}
	}

	body, err := mb.ReadBody(ctx)
	if host.IsNoMessage(err) {
		return BodyPolledMsg{}
	}
	if err != nil {
		return BodyPolledMsg{MessageID: id, HasEmail: true, Err: err}
	}

	return BodyPolledMsg{
		MessageID: id,
		HasEmail:  true,
		Body:      body,
		Preview:   host.Preview(body, p.previewLimit),
	}
}

func sameResult(a, b BodyPolledMsg) bool {
	if a.MessageID != b.MessageID || a.HasEmail != b.HasEmail || a.Body != b.Body {
		return false
	}
	if (a.Err == nil) != (b.Err == nil) {
		return false
	}
	return a.Err == nil || a.Err.Error() == b.Err.Error()
}

// sendResult sends a BodyPolledMsg on the result channel without blocking.
func (p *Poller) sendResult(msg BodyPolledMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-p.stopCh:
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll result.
// Call it after handling a BodyPolledMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
