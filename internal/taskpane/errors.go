package taskpane

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for display.
type Kind int

const (
	KindValidation Kind = iota
	KindHostUnavailable
	KindNetwork
	KindClipboard
	KindHostWrite
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindHostUnavailable:
		return "host unavailable"
	case KindNetwork:
		return "network"
	case KindClipboard:
		return "clipboard"
	case KindHostWrite:
		return "host write"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// User-facing messages.
const (
	MsgEmptyRewordText = "Please enter text to reword"
	MsgNoTone          = "Please select a tone or enter custom instructions"
	MsgEmptyRequest    = "Please enter context for the email"
	MsgNoEmail         = "No email selected"
	MsgReadFailed      = "Failed to read email from mail client"
	MsgRewordFailed    = "Failed to reword text"
	MsgComposeFailed   = "Failed to compose email"
	MsgAnalyzeFailed   = "Failed to analyze email"
	MsgCopyFailed      = "Failed to copy to clipboard. Please try again."
	MsgReplaceFailed   = "Failed to replace text in mail client"
)

// ErrInFlight is returned by Prepare when a request of the same kind is
// still running. The state is left untouched.
var ErrInFlight = errors.New("request already in flight")

// Error is the one message a screen shows. Err keeps the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// normalize turns any failure into an *Error, keeping one that is
// already classified and labelling the rest with fallback.
func normalize(err error, kind Kind, fallback string) *Error {
	if e, ok := AsError(err); ok {
		return e
	}
	return newError(kind, fallback, err)
}
