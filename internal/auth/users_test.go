package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndVerify(t *testing.T) {
	v := NewFileVerifier(filepath.Join(t.TempDir(), "users.json"))

	require.NoError(t, v.Register("alice", "hunter2"))

	ok, err := v.Verify("alice", "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify("alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Verify("unknown", "hunter2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisterDuplicate(t *testing.T) {
	v := NewFileVerifier(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, v.Register("alice", "pw"))

	err := v.Register("alice", "other")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterValidation(t *testing.T) {
	v := NewFileVerifier(filepath.Join(t.TempDir(), "users.json"))
	assert.Error(t, v.Register("", "pw"))
	assert.Error(t, v.Register("alice", ""))
}

func TestStoreNeverHoldsPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	v := NewFileVerifier(path)
	require.NoError(t, v.Register("alice", "hunter2"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")
}

func TestCorruptStoreReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	v := NewFileVerifier(path)
	ok, err := v.Verify("alice", "pw")
	require.NoError(t, err)
	assert.False(t, ok)

	// Registering over a corrupt file starts fresh.
	require.NoError(t, v.Register("alice", "pw"))
	ok, err = v.Verify("alice", "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}
