package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Session error taxonomy.
var (
	// ErrInvalidToken covers malformed, tampered and foreign tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrCredentialsMissing is returned when login gets an empty
	// user id or password.
	ErrCredentialsMissing = errors.New("user id and password are both required")
)

// AuthError wraps a failed credential verification.
type AuthError struct {
	UserID string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s", e.UserID)
}

// Token is the decoded form of the wire format
// "user_id:expires_ts:nonce:signature". The wire string is what gets
// stored and set as a cookie; all internal code works with this struct.
type Token struct {
	UserID    string
	ExpiresAt int64
	Nonce     string
	Signature string
}

// String re-encodes the token to its wire form.
func (t Token) String() string {
	return fmt.Sprintf("%s:%d:%s:%s", t.UserID, t.ExpiresAt, t.Nonce, t.Signature)
}

const nonceBytes = 8 // 16 hex chars

// newToken mints a signed token for userID expiring at expiresAt.
// The random nonce keeps two same-second issuances distinct.
func newToken(secret []byte, userID string, expiresAt int64) (Token, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return Token{}, fmt.Errorf("nonce generation: %w", err)
	}
	t := Token{
		UserID:    userID,
		ExpiresAt: expiresAt,
		Nonce:     hex.EncodeToString(buf),
	}
	t.Signature = sign(secret, t.payload())
	return t, nil
}

func (t Token) payload() string {
	return fmt.Sprintf("%s:%d:%s", t.UserID, t.ExpiresAt, t.Nonce)
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// parseToken splits and verifies a wire token. Tampering with any of
// the first three segments fails the constant-time signature check.
func parseToken(secret []byte, raw string) (Token, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 4 {
		return Token{}, fmt.Errorf("%w: expected 4 segments, got %d", ErrInvalidToken, len(parts))
	}
	expiresAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: bad expiry segment", ErrInvalidToken)
	}
	t := Token{
		UserID:    parts[0],
		ExpiresAt: expiresAt,
		Nonce:     parts[2],
		Signature: parts[3],
	}
	expected := sign(secret, t.payload())
	if !hmac.Equal([]byte(expected), []byte(t.Signature)) {
		return Token{}, fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	}
	return t, nil
}
