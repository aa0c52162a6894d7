// Package clipboard copies result text to the system clipboard, falling
// back to an OSC 52 escape sequence when no native clipboard is
// reachable (for example over SSH).
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Copier places text on a clipboard.
type Copier interface {
	Copy(text string) error
}

// ErrUnavailable is returned when neither the native clipboard nor the
// terminal fallback could take the text.
var ErrUnavailable = errors.New("clipboard unavailable")

// System copies through the native clipboard and falls back to OSC 52.
type System struct {
	native   func(string) error
	terminal io.Writer
	tmux     bool
}

// NewSystem returns a System that writes OSC 52 sequences to terminal
// when the native clipboard fails. A nil terminal disables the fallback.
func NewSystem(terminal io.Writer) *System {
	return &System{
		native:   clipboard.WriteAll,
		terminal: terminal,
		tmux:     os.Getenv("TMUX") != "",
	}
}

// Copy implements Copier.
func (s *System) Copy(text string) error {
	var nativeErr error
	if clipboard.Unsupported {
		nativeErr = errors.New("no native clipboard utility")
	} else if nativeErr = s.native(text); nativeErr == nil {
		return nil
	}

	if s.terminal == nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, nativeErr)
	}

	seq := osc52.New(text)
	if s.tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(s.terminal); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, errors.Join(nativeErr, err))
	}
	return nil
}

// Func adapts a plain function to Copier.
type Func func(text string) error

// Copy implements Copier.
func (f Func) Copy(text string) error {
	return f(text)
}
