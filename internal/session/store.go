package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Record is the stored metadata for one issued token.
type Record struct {
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"` // ISO8601
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}

// FileStore persists the token -> Record map as a single JSON file,
// loaded fresh and written back wholesale on every mutation. A missing
// or corrupted file reads as an empty store, never a crash; writes go
// through a temp file and an atomic rename. Serialization of
// concurrent mutations is the Manager's job.
type FileStore struct {
	path string
	log  zerolog.Logger
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log.With().Str("component", "session_store").Logger()}
}

// Load reads the whole session map.
func (s *FileStore) Load() map[string]Record {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("session store unreadable, starting empty")
		}
		return map[string]Record{}
	}
	if len(raw) == 0 {
		return map[string]Record{}
	}
	var sessions map[string]Record
	if err := json.Unmarshal(raw, &sessions); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("session store corrupted, starting empty")
		return map[string]Record{}
	}
	if sessions == nil {
		sessions = map[string]Record{}
	}
	return sessions
}

// Save writes the whole session map atomically. A failure here is the
// one error the session layer lets propagate: a broken persistence
// medium is fatal for the caller to handle.
func (s *FileStore) Save(sessions map[string]Record) error {
	raw, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".sessions-*.json")
	if err != nil {
		return fmt.Errorf("create session temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session store: %w", err)
	}
	return nil
}
