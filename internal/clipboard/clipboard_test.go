package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestCopyNative(t *testing.T) {
	var got string
	var term bytes.Buffer
	s := &System{native: func(text string) error { got = text; return nil }, terminal: &term}

	if clipboard.Unsupported {
		t.Skip("no native clipboard on this machine")
	}
	require.NoError(t, s.Copy("hello"))
	assert.Equal(t, "hello", got)
	assert.Zero(t, term.Len())
}

func TestCopyFallsBackToOSC52(t *testing.T) {
	var term bytes.Buffer
	s := &System{native: func(string) error { return errors.New("no xclip") }, terminal: &term}

	require.NoError(t, s.Copy("hello"))
	assert.Contains(t, term.String(), base64.StdEncoding.EncodeToString([]byte("hello")))
	assert.Contains(t, term.String(), "]52;c;")
}

func TestCopyFailsWithoutFallback(t *testing.T) {
	s := &System{native: func(string) error { return errors.New("no xclip") }}

	err := s.Copy("hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCopyFailsWhenTerminalWriteFails(t *testing.T) {
	s := &System{native: func(string) error { return errors.New("no xclip") }, terminal: failingWriter{}}

	assert.ErrorIs(t, s.Copy("hello"), ErrUnavailable)
}

func TestFunc(t *testing.T) {
	var got string
	var c Copier = Func(func(text string) error { got = text; return nil })

	require.NoError(t, c.Copy("x"))
	assert.Equal(t, "x", got)
}
