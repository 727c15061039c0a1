package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"example.com/tinysocial/internal/models"
)

const (
	tokenFile   = "access_token"
	profileFile = "user_data.json"
)

// Store persists the bearer token and the user profile under fixed file names
// in a single directory. The token is an opaque string; no validation of its
// shape is performed here.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created lazily on the
// first Save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists token and profile together. If either write fails, the other
// is rolled back so a reader never observes a partial session.
func (s *Store) Save(token string, user models.User) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}

	data, err := json.Marshal(user)
	if err != nil {
		os.Remove(filepath.Join(s.dir, tokenFile))
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, profileFile), data, 0600); err != nil {
		os.Remove(filepath.Join(s.dir, tokenFile))
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Load reads both values. A session that was never saved, or was cleared,
// yields an empty token and a nil user without an error. If only one of the
// two files survives, the session is treated as absent.
func (s *Store) Load() (string, *models.User, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("read token: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, profileFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("read profile: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		// Stored shape changed; there is no migration scheme, so the
		// session is simply dropped.
		return "", nil, nil
	}
	return string(raw), &user, nil
}

// Token returns only the stored token, empty if absent. Used by the API
// client on every request so the latest token is always attached.
func (s *Store) Token() string {
	raw, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return string(raw)
}

// Clear removes both values. Safe to call when nothing is stored.
func (s *Store) Clear() error {
	var firstErr error
	for _, name := range []string{tokenFile, profileFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove %s: %w", name, err)
			}
		}
	}
	return firstErr
}
