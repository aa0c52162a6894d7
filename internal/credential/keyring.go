// Package credential keeps taskpane secrets (the AI service token and
// IMAP passwords) in the OS keyring.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "taskpane"

// Keys under which secrets are stored.
const (
	ServiceTokenKey = "service-token"
	imapKeyPrefix   = "imap-"
)

// ErrNotFound is returned when no secret is stored under a key.
var ErrNotFound = keyring.ErrKeyNotFound

// IMAPPasswordKey returns the key holding the password of a host profile.
func IMAPPasswordKey(hostID string) string {
	return imapKeyPrefix + hostID
}

// Vault reads and writes secrets in a keyring.
type Vault struct {
	ring keyring.Keyring
}

// Open returns a Vault over the system keyring, falling back to an
// encrypted file under fileDir when no OS backend is available.
func Open(fileDir string) (*Vault, error) {
	if fileDir == "" {
		fileDir = "~/.config/taskpane/credentials"
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("taskpane-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Vault{ring: ring}, nil
}

// NewVault wraps an existing keyring, e.g. keyring.NewArrayKeyring in tests.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// Get retrieves a credential value by key.
func (v *Vault) Get(key string) (string, error) {
	item, err := v.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Lookup is Get that treats a missing key as empty.
func (v *Vault) Lookup(key string) (string, error) {
	val, err := v.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return val, err
}

// Set stores a credential value by key.
func (v *Vault) Set(key, value string) error {
	err := v.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "taskpane " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key. Deleting a missing key is not an error.
func (v *Vault) Delete(key string) error {
	err := v.ring.Remove(key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
