// Package host defines how the taskpane talks to the mail client that
// holds the open message, plus the helpers shared by host adapters.
package host

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNoMessage is returned when the host has no open or selected message.
var ErrNoMessage = errors.New("no email selected")

// Mailbox is the mail host as seen by the taskpane. Implementations must
// be safe to call from concurrent tea.Cmd goroutines.
type Mailbox interface {
	// CurrentMessageID returns the identifier of the open message and
	// false when nothing is open.
	CurrentMessageID(ctx context.Context) (string, bool, error)

	// ReadBody returns the plain-text body of the open message.
	ReadBody(ctx context.Context) (string, error)

	// WriteBody replaces the entire body of the open message.
	WriteBody(ctx context.Context, text string) error
}

// Describer is implemented by mailboxes that can name themselves for
// the header bar.
type Describer interface {
	Describe() string
}

// OpError reports a host operation that the host itself marked failed.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("host %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// IsNoMessage reports whether err means no message is open.
func IsNoMessage(err error) bool {
	return errors.Is(err, ErrNoMessage)
}

// TruncationMarker ends a preview that was cut short.
const TruncationMarker = "…"

// Preview shortens body to at most limit characters, appending the
// truncation marker when anything was cut.
func Preview(body string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(body) <= limit {
		return body
	}
	runes := []rune(body)
	return string(runes[:limit]) + TruncationMarker
}
