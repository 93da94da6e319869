package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alpha-aviation/enrollment-service/internal/models"
)

// Session is the signed-in user and their bearer token.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// SessionStore keeps one Session and mirrors it to a JSON file on every change.
// An empty path keeps the session in memory only.
type SessionStore struct {
	path string

	mu      sync.RWMutex
	session Session
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load rehydrates the session from disk. A missing file is an empty session.
func (s *SessionStore) Load() error {
	if s.path == "" {
		return nil
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionStore) Token() string {
	return s.Current().Token
}

func (s *SessionStore) Login(user *models.User, token string) error {
	return s.replace(Session{User: user, Token: token})
}

func (s *SessionStore) Logout() error {
	return s.replace(Session{})
}

// SetUser refreshes the cached profile. It is a no-op while signed out.
func (s *SessionStore) SetUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Token == "" {
		return nil
	}
	s.session.User = user
	return s.persistLocked()
}

func (s *SessionStore) replace(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	return s.persistLocked()
}

func (s *SessionStore) persistLocked() error {
	if s.path == "" {
		return nil
	}

	if !s.session.IsAuthenticated() {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(s.session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}
