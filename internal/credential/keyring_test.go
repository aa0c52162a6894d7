package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultRoundTrip(t *testing.T) {
	v := NewVault(keyring.NewArrayKeyring(nil))

	_, err := v.Get(ServiceTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := v.Lookup(ServiceTokenKey)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, v.Set(IMAPPasswordKey("abc"), "hunter2"))
	got, err = v.Get("imap-abc")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	require.NoError(t, v.Delete("imap-abc"))
	require.NoError(t, v.Delete("imap-abc"))
	_, err = v.Get("imap-abc")
	assert.ErrorIs(t, err, ErrNotFound)
}
