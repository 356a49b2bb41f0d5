package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SessionStore holds the bearer credential and the identity derived from it.
// The token is the single durable piece of client state; it is written and
// removed synchronously so a logout can never race a stale-token request.
type SessionStore struct {
	mu       sync.RWMutex
	path     string
	token    string
	username string
}

func DefaultTokenPath() string {
	return filepath.Join(DefaultDataRoot(), "token")
}

// NewSessionStore loads any persisted credential. A missing token file is a
// logged-out state, not an error.
func NewSessionStore(path string) *SessionStore {
	if strings.TrimSpace(path) == "" {
		path = DefaultTokenPath()
	}
	s := &SessionStore{path: path}
	if b, err := os.ReadFile(path); err == nil {
		s.token = strings.TrimSpace(string(b))
	}
	return s
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn is always derived from the credential, never stored on its own.
func (s *SessionStore) LoggedIn() bool { return s.Token() != "" }

// SetToken persists a new credential, or clears it when tok is empty. The
// username cache is dropped either way; callers re-derive it from the
// backend after a login.
func (s *SessionStore) SetToken(tok string) error {
	tok = strings.TrimSpace(tok)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	if tok == "" {
		s.token = ""
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(tok), 0o600); err != nil {
		return err
	}
	s.token = tok
	return nil
}

func (s *SessionStore) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *SessionStore) SetUsername(name string) {
	s.mu.Lock()
	s.username = name
	s.mu.Unlock()
}
