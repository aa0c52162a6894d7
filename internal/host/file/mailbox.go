// Package file is a mail host backed by a single file on disk. A file
// ending in .eml is treated as an RFC 5322 message; anything else is the
// body as plain text.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nhle/taskpane/internal/host"
)

// Mailbox implements host.Mailbox for a file on disk. The file counts as
// the open message while it exists.
type Mailbox struct {
	path string
	mu   sync.Mutex
}

// New creates a file mailbox for path.
func New(path string) *Mailbox {
	return &Mailbox{path: path}
}

// Describe names the mailbox for the header bar.
func (m *Mailbox) Describe() string {
	return "file:" + filepath.Base(m.path)
}

func (m *Mailbox) isEML() bool {
	return strings.EqualFold(filepath.Ext(m.path), ".eml")
}

// CurrentMessageID returns the Message-ID of an .eml file, or the path
// for plain text files.
func (m *Mailbox) CurrentMessageID(ctx context.Context) (string, bool, error) {
	raw, err := m.read(ctx)
	if err != nil {
		if host.IsNoMessage(err) {
			return "", false, nil
		}
		return "", false, err
	}

	if m.isEML() {
		if id := host.ParseMessage(raw).MessageID; id != "" {
			return id, true, nil
		}
	}
	return m.path, true, nil
}

// ReadBody returns the plain-text body of the file.
func (m *Mailbox) ReadBody(ctx context.Context) (string, error) {
	raw, err := m.read(ctx)
	if err != nil {
		return "", err
	}
	if m.isEML() {
		return host.ParseMessage(raw).Text(), nil
	}
	return string(raw), nil
}

// WriteBody replaces the file's body. For .eml files the headers are
// kept and the body becomes a single text/plain part.
func (m *Mailbox) WriteBody(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := host.Go(ctx, "write", func() (struct{}, error) {
		info, err := os.Stat(m.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return struct{}{}, host.ErrNoMessage
			}
			return struct{}{}, err
		}

		out := []byte(text)
		if m.isEML() {
			raw, err := os.ReadFile(m.path)
			if err != nil {
				return struct{}{}, fmt.Errorf("reading %s: %w", m.path, err)
			}
			out, err = host.ReplaceBody(raw, text)
			if err != nil {
				return struct{}{}, err
			}
		}

		return struct{}{}, writeAtomic(m.path, out, info.Mode().Perm())
	})
	return err
}

func (m *Mailbox) read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return host.Go(ctx, "read", func() ([]byte, error) {
		raw, err := os.ReadFile(m.path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, host.ErrNoMessage
		}
		return raw, err
	})
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".taskpane-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
