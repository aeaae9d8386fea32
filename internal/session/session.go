package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gastroflow/gastroflow-cli/internal/logging"
)

// ExpiredMessage is shown once when the backend rejects the token.
const ExpiredMessage = "Your session has expired. Log in again."

// ErrNoToken is returned by commands that need a signed-in session.
var ErrNoToken = errors.New("not logged in; run 'gastroflow login'")

// Session owns the bearer token, the signed-in user and the notice stream.
// It is created at startup, injected into the API client and the TUI, and
// cleared on logout or when the backend answers 401.
type Session struct {
	mu      sync.Mutex
	store   TokenStore
	token   string
	user    *User
	expired bool
	notices *Notices
	logger  *slog.Logger
}

// New creates a session backed by store. notices and logger may be nil.
func New(store TokenStore, notices *Notices, logger *slog.Logger) *Session {
	if store == nil {
		store = NewMemoryStore("")
	}
	if notices == nil {
		notices = NewNotices(8)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{store: store, notices: notices, logger: logger}
}

// Restore loads a persisted token into memory.
func (s *Session) Restore() error {
	token, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(token)
	return nil
}

// Token returns the current bearer token, or "" when signed out.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetUser replaces the in-memory user, typically with the profile fetched after login.
func (s *Session) SetUser(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	if s.user != nil && u.ExpiresAt.IsZero() {
		u.ExpiresAt = s.user.ExpiresAt
	}
	s.user = &u
}

// Login stores a freshly issued token and re-arms the expiry notice.
func (s *Session) Login(token string) error {
	return s.LoginFor("", token)
}

// LoginFor is Login for a known account. Stores keyed by account are bound
// to it before the token is written.
func (s *Session) LoginFor(account, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.store.(AccountBinder); ok && account != "" {
		b.Bind(account)
	}
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.setLocked(token)
	return nil
}

// Logout forgets the token in memory and in the store.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Expire invalidates the session after a 401 answered a request carrying
// sent. A token replaced since the request went out is left alone. Only the
// first call after a login clears state and publishes the notice; it
// returns true in that case.
func (s *Session) Expire(sent string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	if s.expired || s.token != sent {
		s.mu.Unlock()
		return false
	}
	s.expired = true
	s.token = ""
	s.user = nil
	err := s.store.Clear()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("clear token after 401", "err", err)
	}
	s.logger.Warn("session expired")
	s.notices.Publish(Notice{Level: LevelError, Text: ExpiredMessage})
	return true
}

// Notices returns the notification stream.
func (s *Session) Notices() *Notices {
	return s.notices
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

func (s *Session) setLocked(token string) {
	s.token = token
	s.expired = false
	s.user = nil
	if token == "" {
		return
	}
	user, err := ParseToken(token)
	if err != nil {
		// Opaque tokens are allowed; the backend decides.
		s.logger.Debug("token claims unreadable", "err", err)
		return
	}
	s.user = user
}
