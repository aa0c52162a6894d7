package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/taskpane"
)

// Screen identifies one of the taskpane's tabs.
type Screen int

const (
	ScreenReword Screen = iota
	ScreenCompose
	ScreenAnalyze
)

// ReplaceDoneMsg reports the outcome of writing a result into the open
// message.
type ReplaceDoneMsg struct {
	Screen Screen
	Err    error
}

// StatusMsg asks the root model to flash a short status line.
type StatusMsg string

// hostTimeout bounds a single host write.
const hostTimeout = 30 * time.Second

// ReplaceCmd returns a command that writes text over the open message.
func ReplaceCmd(screen Screen, mb host.Mailbox, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), hostTimeout)
		defer cancel()
		return ReplaceDoneMsg{Screen: screen, Err: taskpane.ReplaceBody(ctx, mb, text)}
	}
}

// Status returns a command that emits a StatusMsg.
func Status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg(text) }
}
