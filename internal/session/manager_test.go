package session

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	users map[string]string
	err   error
}

func (v *stubVerifier) Verify(userID, password string) (bool, error) {
	if v.err != nil {
		return false, v.err
	}
	return v.users[userID] == password, nil
}

func newTestManager(t *testing.T) (*Manager, *stubVerifier) {
	t.Helper()
	verifier := &stubVerifier{users: map[string]string{"alice": "pw1", "bob": "pw2"}}
	store := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"), zerolog.Nop())
	m := NewManager(store, verifier, testSecret, DefaultTTL, zerolog.Nop())
	return m, verifier
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	m, _ := newTestManager(t)

	token, err := m.Login("alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "alice", m.UserFromToken(token))
}

func TestLoginRejections(t *testing.T) {
	m, verifier := newTestManager(t)

	_, err := m.Login("", "pw1")
	assert.ErrorIs(t, err, ErrCredentialsMissing)
	_, err = m.Login("alice", "")
	assert.ErrorIs(t, err, ErrCredentialsMissing)

	_, err = m.Login("alice", "wrong")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "alice", authErr.UserID)

	verifier.err = errors.New("registry unreachable")
	_, err = m.Login("alice", "pw1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsMissing)
}

func TestUserFromTokenInvalidCases(t *testing.T) {
	m, _ := newTestManager(t)
	token, err := m.Login("alice", "pw1")
	require.NoError(t, err)

	assert.Empty(t, m.UserFromToken(""))
	assert.Empty(t, m.UserFromToken("garbage"))
	assert.Empty(t, m.UserFromToken(token+"0"), "tampered signature")

	// Validly signed but never persisted: foreign to this store.
	foreign, err := newToken(testSecret, "alice", time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	assert.Empty(t, m.UserFromToken(foreign.String()))
}

func TestUserFromTokenPurgesExpired(t *testing.T) {
	m, _ := newTestManager(t)
	token, err := m.Login("alice", "pw1")
	require.NoError(t, err)

	// Jump past the TTL.
	m.now = func() time.Time { return time.Now().Add(DefaultTTL + time.Hour) }
	assert.Empty(t, m.UserFromToken(token))

	// The expired record is gone from disk, not just rejected.
	assert.NotContains(t, m.store.Load(), token)
}

func TestRevoke(t *testing.T) {
	m, _ := newTestManager(t)
	token, err := m.Login("alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(token))
	assert.Empty(t, m.UserFromToken(token))

	// Idempotent for unknown and empty tokens.
	assert.NoError(t, m.Revoke(token))
	assert.NoError(t, m.Revoke(""))
}

func TestRefresh(t *testing.T) {
	m, _ := newTestManager(t)
	old, err := m.Login("alice", "pw1")
	require.NoError(t, err)

	fresh, err := m.Refresh(old)
	require.NoError(t, err)
	require.NotEmpty(t, fresh)
	assert.NotEqual(t, old, fresh)

	assert.Equal(t, "alice", m.UserFromToken(fresh))
	assert.Empty(t, m.UserFromToken(old), "old token is revoked by the swap")
}

func TestRefreshInvalidToken(t *testing.T) {
	m, _ := newTestManager(t)

	fresh, err := m.Refresh("garbage")
	require.NoError(t, err)
	assert.Empty(t, fresh)

	fresh, err = m.Refresh("")
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestRefreshExtendsExpiry(t *testing.T) {
	m, _ := newTestManager(t)
	base := time.Unix(1700000000, 0)
	m.now = func() time.Time { return base }

	old, err := m.Login("alice", "pw1")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(24 * time.Hour) }
	fresh, err := m.Refresh(old)
	require.NoError(t, err)

	rec := m.store.Load()[fresh]
	assert.Equal(t, base.Add(24*time.Hour+DefaultTTL).Unix(), rec.ExpiresAt)
}

func TestPurgeExpired(t *testing.T) {
	m, _ := newTestManager(t)
	base := time.Unix(1700000000, 0)
	m.now = func() time.Time { return base }

	_, err := m.Login("alice", "pw1")
	require.NoError(t, err)
	keepToken, err := m.Login("bob", "pw2")
	require.NoError(t, err)

	// Age only alice's session: rewrite its expiry directly.
	sessions := m.store.Load()
	for tok, rec := range sessions {
		if rec.UserID == "alice" {
			rec.ExpiresAt = base.Add(-time.Hour).Unix()
			sessions[tok] = rec
		}
	}
	require.NoError(t, m.store.Save(sessions))

	removed, err := m.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "bob", m.UserFromToken(keepToken))

	removed, err = m.PurgeExpired()
	require.NoError(t, err)
	assert.Zero(t, removed, "second purge finds nothing")
}

func TestSessionsIndependentAcrossUsers(t *testing.T) {
	m, _ := newTestManager(t)
	aliceTok, err := m.Login("alice", "pw1")
	require.NoError(t, err)
	bobTok, err := m.Login("bob", "pw2")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(aliceTok))
	assert.Empty(t, m.UserFromToken(aliceTok))
	assert.Equal(t, "bob", m.UserFromToken(bobTok))
}

func TestConcurrentLogins(t *testing.T) {
	m, _ := newTestManager(t)

	const n = 20
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := m.Login("alice", "pw1")
			if err == nil {
				tokens[i] = tok
			}
		}(i)
	}
	wg.Wait()

	sessions := m.store.Load()
	assert.Len(t, sessions, n, "every concurrent login persists")
	for i, tok := range tokens {
		require.NotEmpty(t, tok, "login %d", i)
		assert.Equal(t, "alice", m.UserFromToken(tok))
	}
}
