package taskpane

import (
	"context"
	"time"

	"github.com/nhle/taskpane/internal/clipboard"
	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/model"
)

// State is the loading/error/result triple every operation exposes.
// At most one of InFlight, Err and a fresh Result is meaningful at a time.
type State struct {
	InFlight bool
	Err      *Error
	Result   string

	started time.Time
}

// begin marks a new submission: clears Err and Result, sets InFlight.
func (s *State) begin() error {
	if s.InFlight {
		return ErrInFlight
	}
	s.Err = nil
	s.Result = ""
	s.InFlight = true
	s.started = time.Now()
	return nil
}

// reject records a validation failure without starting a request.
func (s *State) reject(msg string) error {
	s.Err = newError(KindValidation, msg, nil)
	return s.Err
}

// finish clears InFlight and stores either the result or the error.
// The returned error is nil or an *Error.
func (s *State) finish(result string, err *Error) error {
	s.InFlight = false
	if err != nil {
		s.Err = err
		return err
	}
	s.Err = nil
	s.Result = result
	return nil
}

func (s *State) elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// Fail shows err as the screen's message, classifying unknown errors
// with kind and msg.
func (s *State) Fail(err error, kind Kind, msg string) {
	if err == nil {
		return
	}
	s.Err = normalize(err, kind, msg)
}

// ClearError drops the screen's message.
func (s *State) ClearError() {
	s.Err = nil
}

// Copy puts the current result on the clipboard. A successful copy
// clears any previous message.
func (s *State) Copy(c clipboard.Copier) error {
	if s.Result == "" {
		return nil
	}
	if err := c.Copy(s.Result); err != nil {
		s.Err = newError(KindClipboard, MsgCopyFailed, err)
		return s.Err
	}
	s.Err = nil
	return nil
}

// CompleteReplace records the outcome of ReplaceBody.
func (s *State) CompleteReplace(err error) {
	if err == nil {
		return
	}
	s.Err = normalize(err, KindHostWrite, MsgReplaceFailed)
}

// ReplaceBody writes text over the open message's body. It blocks and is
// meant to run inside a tea.Cmd; hand the result to CompleteReplace.
func ReplaceBody(ctx context.Context, mb host.Mailbox, text string) error {
	if mb == nil {
		return newError(KindHostUnavailable, MsgNoEmail, nil)
	}
	if err := mb.WriteBody(ctx, text); err != nil {
		if host.IsNoMessage(err) {
			return newError(KindHostUnavailable, MsgNoEmail, err)
		}
		return newError(KindHostWrite, MsgReplaceFailed, err)
	}
	return nil
}

// Recorder is told about every finished operation.
type Recorder interface {
	Record(kind model.OperationKind, took time.Duration, err error)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(kind model.OperationKind, took time.Duration, err error)

// Record implements Recorder.
func (f RecorderFunc) Record(kind model.OperationKind, took time.Duration, err error) {
	f(kind, took, err)
}

type nopRecorder struct{}

func (nopRecorder) Record(model.OperationKind, time.Duration, error) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
