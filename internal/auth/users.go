package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrUserExists is returned when registering a duplicate user id.
var ErrUserExists = errors.New("user already exists")

// FileVerifier keeps a JSON file of user_id -> sha256(password) and
// satisfies the session manager's Verifier contract. An empty or
// corrupt file reads as no users.
type FileVerifier struct {
	path string
	mu   sync.Mutex
}

func NewFileVerifier(path string) *FileVerifier {
	return &FileVerifier{path: path}
}

// Verify reports whether the stored hash for userID matches password.
// Unknown users simply verify false.
func (v *FileVerifier) Verify(userID, password string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	users := v.load()
	stored, ok := users[userID]
	if !ok {
		return false, nil
	}
	hashed := hashPassword(password)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(hashed)) == 1, nil
}

// Register adds a new user. Duplicate ids are refused.
func (v *FileVerifier) Register(userID, password string) error {
	if userID == "" || password == "" {
		return errors.New("user id and password are both required")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	users := v.load()
	if _, ok := users[userID]; ok {
		return fmt.Errorf("%w: %s", ErrUserExists, userID)
	}
	users[userID] = hashPassword(password)
	return v.save(users)
}

func (v *FileVerifier) load() map[string]string {
	raw, err := os.ReadFile(v.path)
	if err != nil || len(raw) == 0 {
		return map[string]string{}
	}
	var users map[string]string
	if err := json.Unmarshal(raw, &users); err != nil || users == nil {
		return map[string]string{}
	}
	return users
}

func (v *FileVerifier) save(users map[string]string) error {
	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user store: %w", err)
	}
	if err := os.WriteFile(v.path, raw, 0o600); err != nil {
		return fmt.Errorf("write user store: %w", err)
	}
	return nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
