package model

import "time"

// HostType identifies the kind of mail host a profile points at.
type HostType string

const (
	HostTypeIMAP HostType = "imap"
	HostTypeFile HostType = "file"
)

// HostConfig is a saved mail host profile. The profile decides which
// message counts as "open" for the taskpane.
type HostConfig struct {
	// ID is the unique identifier for this profile.
	ID string `mapstructure:"id" yaml:"id" json:"id"`

	// Type is one of the HostType* constants.
	Type HostType `mapstructure:"type" yaml:"type" json:"type"`

	// Name is the user-defined label for the profile.
	Name string `mapstructure:"name" yaml:"name" json:"name"`

	// Settings holds type-specific values: host, port, username, tls,
	// mailbox and uid for IMAP; path for file hosts.
	Settings map[string]string `mapstructure:"settings" yaml:"settings" json:"settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting returns a settings value or def when it is unset.
func (h HostConfig) Setting(key, def string) string {
	if h.Settings == nil {
		return def
	}
	if v, ok := h.Settings[key]; ok && v != "" {
		return v
	}
	return def
}
