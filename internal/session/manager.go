package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Verifier is the external credential check consulted by Login.
type Verifier interface {
	Verify(userID, password string) (bool, error)
}

// DefaultTTL is three days, matching the original deployment default.
const DefaultTTL = 72 * time.Hour

// Manager issues, verifies, refreshes and revokes HMAC-signed session
// tokens backed by a FileStore. One Manager per process, constructed
// with an explicit secret and TTL. A mutex serializes every
// load-modify-save cycle so concurrent mutations cannot clobber each
// other.
type Manager struct {
	store    *FileStore
	verifier Verifier
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	log      zerolog.Logger
}

func NewManager(store *FileStore, verifier Verifier, secret []byte, ttl time.Duration, log zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:    store,
		verifier: verifier,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
		log:      log.With().Str("component", "session").Logger(),
	}
}

// TTL reports the lifetime applied to newly issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Login verifies credentials and issues a fresh signed token.
// Returns ErrCredentialsMissing on empty input, an *AuthError when the
// verifier rejects, or a persistence error from the store.
func (m *Manager) Login(userID, password string) (string, error) {
	if userID == "" || password == "" {
		return "", ErrCredentialsMissing
	}
	ok, err := m.verifier.Verify(userID, password)
	if err != nil {
		return "", fmt.Errorf("credential check: %w", err)
	}
	if !ok {
		return "", &AuthError{UserID: userID}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	token, err := m.issueLocked(userID)
	if err != nil {
		return "", err
	}
	m.log.Info().Str("user", userID).Msg("login succeeded, session token issued")
	return token, nil
}

// UserFromToken resolves a token to its user id. It returns "" (no
// error) for every invalid case: empty token, bad signature, token
// unknown to this store, or an expired entry, which it purges as a
// side effect.
func (m *Manager) UserFromToken(token string) string {
	if token == "" {
		return ""
	}
	if _, err := parseToken(m.secret, token); err != nil {
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := m.store.Load()
	rec, ok := sessions[token]
	if !ok {
		return "" // revoked elsewhere or issued by a foreign secret holder
	}
	if rec.ExpiresAt < m.now().Unix() {
		delete(sessions, token)
		if err := m.store.Save(sessions); err != nil {
			m.log.Error().Err(err).Msg("failed to purge expired session")
		}
		m.log.Info().Str("user", rec.UserID).Msg("expired session token removed")
		return ""
	}
	return rec.UserID
}

// Revoke deletes a token from the store. It is an idempotent no-op for
// empty or unknown tokens.
func (m *Manager) Revoke(token string) error {
	if token == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := m.store.Load()
	if _, ok := sessions[token]; !ok {
		return nil
	}
	delete(sessions, token)
	if err := m.store.Save(sessions); err != nil {
		return err
	}
	m.log.Info().Msg("session token revoked")
	return nil
}

// Refresh exchanges a valid token for a fresh one with a full TTL,
// revoking the old one. An invalid or expired token returns "" and the
// store is left untouched: the swap is all-or-nothing.
func (m *Manager) Refresh(oldToken string) (string, error) {
	userID := m.UserFromToken(oldToken)
	if userID == "" {
		return "", nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := m.store.Load()
	if _, ok := sessions[oldToken]; !ok {
		return "", nil // raced with a revoke
	}

	expiresAt := m.now().Add(m.ttl).Unix()
	token, err := newToken(m.secret, userID, expiresAt)
	if err != nil {
		return "", err
	}
	delete(sessions, oldToken)
	sessions[token.String()] = Record{
		UserID:    userID,
		CreatedAt: m.now().UTC().Format(time.RFC3339),
		ExpiresAt: expiresAt,
	}
	if err := m.store.Save(sessions); err != nil {
		return "", err
	}
	m.log.Info().Str("user", userID).Msg("session token refreshed")
	return token.String(), nil
}

// PurgeExpired removes every entry whose expiry has passed and returns
// the count removed. The store is only rewritten when something was
// actually removed.
func (m *Manager) PurgeExpired() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := m.store.Load()
	now := m.now().Unix()
	removed := 0
	for token, rec := range sessions {
		if rec.ExpiresAt <= now {
			delete(sessions, token)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := m.store.Save(sessions); err != nil {
		return 0, err
	}
	m.log.Info().Int("removed", removed).Msg("expired sessions purged")
	return removed, nil
}

// issueLocked mints and persists a token. Caller holds m.mu.
func (m *Manager) issueLocked(userID string) (string, error) {
	expiresAt := m.now().Add(m.ttl).Unix()
	token, err := newToken(m.secret, userID, expiresAt)
	if err != nil {
		return "", err
	}
	sessions := m.store.Load()
	sessions[token.String()] = Record{
		UserID:    userID,
		CreatedAt: m.now().UTC().Format(time.RFC3339),
		ExpiresAt: expiresAt,
	}
	if err := m.store.Save(sessions); err != nil {
		return "", err
	}
	return token.String(), nil
}
