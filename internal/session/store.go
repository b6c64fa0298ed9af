// Package session holds the current user identity and bearer token,
// persisted across runs. The token file is the only client-side state that
// outlives a session; every other entity is a short-lived server mirror.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hoopmatch/internal/config"
	"github.com/hoopmatch/internal/domain"
)

// Session is the persisted identity record
type Session struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Store manages the persisted session
type Store struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	current *Session
}

// NewStore creates a session store backed by the configured file
func NewStore(cfg *config.SessionConfig, logger *slog.Logger) *Store {
	return &Store{
		path:   cfg.Path,
		logger: logger,
	}
}

// Load reads the persisted session from disk. A missing file simply means
// logged out.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.current = nil
			return nil
		}
		return fmt.Errorf("reading session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file is treated as logged out
		s.logger.Warn("discarding unreadable session file", "path", s.path, "error", err)
		s.current = nil
		return nil
	}

	s.current = &sess
	return nil
}

// Set installs and persists a new session after login or signup
func (s *Store) Set(user domain.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{User: user, Token: token}
	if err := s.persist(sess); err != nil {
		return err
	}
	s.current = sess
	return nil
}

// Clear drops the session from memory and disk. Used on logout and by the
// global 401 policy.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Current returns the active session, if any
func (s *Store) Current() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, false
	}
	sess := *s.current
	return &sess, true
}

// IsAuthenticated reports whether a session is active
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Token returns the bearer token, or "" when logged out. Satisfies the API
// client's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// TokenExpiresAt extracts the expiry claim from the bearer token without
// verifying the signature; the client has no signing key and only needs the
// timestamp for display. The server remains the authority on validity.
func (s *Store) TokenExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// UpdateLocation mutates the stored user's last known coordinates
func (s *Store) UpdateLocation(loc domain.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.ErrNotAuthenticated
	}

	s.current.User.LocationLat = loc.Latitude
	s.current.User.LocationLng = loc.Longitude
	return s.persist(s.current)
}

func (s *Store) persist(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}
