package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskpane/internal/credential"
	"github.com/nhle/taskpane/internal/host/file"
	"github.com/nhle/taskpane/internal/host/imapbox"
	"github.com/nhle/taskpane/internal/model"
)

func imapHost() model.HostConfig {
	return model.HostConfig{
		ID:   "h1",
		Type: model.HostTypeIMAP,
		Name: "Work",
		Settings: map[string]string{
			KeyHost:     "imap.example.com",
			KeyUsername: "ana@example.com",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(h *model.HostConfig)
		wantErr string
	}{
		{name: "valid imap", mutate: func(h *model.HostConfig) {}},
		{name: "missing name", mutate: func(h *model.HostConfig) { h.Name = " " }, wantErr: "name is required"},
		{name: "missing host", mutate: func(h *model.HostConfig) { delete(h.Settings, KeyHost) }, wantErr: "IMAP host"},
		{name: "bad port", mutate: func(h *model.HostConfig) { h.Settings[KeyPort] = "99999" }, wantErr: "invalid port"},
		{name: "bad uid", mutate: func(h *model.HostConfig) { h.Settings[KeyUID] = "x" }, wantErr: "invalid uid"},
		{name: "file without path", mutate: func(h *model.HostConfig) { h.Type = model.HostTypeFile }, wantErr: "path is required"},
		{name: "unknown type", mutate: func(h *model.HostConfig) { h.Type = "pop3" }, wantErr: "unknown host type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := imapHost()
			tt.mutate(&h)
			err := Validate(h)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIMAPConfigDefaults(t *testing.T) {
	cfg, err := IMAPConfig(imapHost(), "secret")
	require.NoError(t, err)

	assert.Equal(t, imapbox.Config{
		Host:     "imap.example.com",
		Port:     "993",
		Username: "ana@example.com",
		Password: "secret",
		TLS:      true,
		Mailbox:  "INBOX",
	}, cfg)

	h := imapHost()
	h.Settings[KeyTLS] = "false"
	h.Settings[KeyUID] = "42"
	h.Settings[KeyMailbox] = "Drafts"
	cfg, err = IMAPConfig(h, "")
	require.NoError(t, err)
	assert.False(t, cfg.TLS)
	assert.Equal(t, uint32(42), cfg.UID)
	assert.Equal(t, "Drafts", cfg.Mailbox)
}

func TestOpenReadsPasswordFromVault(t *testing.T) {
	vault := credential.NewVault(keyring.NewArrayKeyring(nil))
	require.NoError(t, vault.Set(credential.IMAPPasswordKey("h1"), "hunter2"))

	mb, err := Open(imapHost(), vault, nil)
	require.NoError(t, err)

	imb, ok := mb.(*imapbox.Mailbox)
	require.True(t, ok)
	assert.Equal(t, "imap:ana@example.com/INBOX", imb.Describe())
	assert.NoError(t, Close(mb))
}

func TestOpenFileHostAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	h := model.HostConfig{
		ID:       "f1",
		Type:     model.HostTypeFile,
		Name:     "Draft",
		Settings: map[string]string{KeyPath: path},
	}

	mb, err := Open(h, nil, nil)
	require.NoError(t, err)
	_, ok := mb.(*file.Mailbox)
	require.True(t, ok)

	summary, err := Check(context.Background(), mb)
	require.NoError(t, err)
	assert.Equal(t, "no message open", summary)

	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	summary, err = Check(context.Background(), mb)
	require.NoError(t, err)
	assert.Equal(t, "open message "+path, summary)
	assert.NoError(t, Close(mb))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "ana@example.com@imap.example.com:993/INBOX", Summary(imapHost()))
	assert.Equal(t, "/tmp/a.eml", Summary(model.HostConfig{
		Type:     model.HostTypeFile,
		Settings: map[string]string{KeyPath: "/tmp/a.eml"},
	}))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "drafts", "a.eml"), ExpandPath("~/drafts/a.eml"))
	assert.Equal(t, "/abs/a.eml", ExpandPath("/abs/a.eml"))
}
