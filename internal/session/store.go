package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/gastroflow/gastroflow-cli/internal/config"
)

// KeyringService is the service name used for OS keyring entries.
const KeyringService = "gastroflow"

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// ConfigStore keeps the token inside the YAML config file.
type ConfigStore struct {
	cfg *config.Config
}

// NewConfigStore wraps cfg. Saves rewrite the whole config file.
func NewConfigStore(cfg *config.Config) *ConfigStore {
	return &ConfigStore{cfg: cfg}
}

func (s *ConfigStore) Load() (string, error) {
	return s.cfg.Token, nil
}

func (s *ConfigStore) Save(token string) error {
	s.cfg.Token = token
	return s.cfg.Save()
}

func (s *ConfigStore) Clear() error {
	if s.cfg.Token == "" {
		return nil
	}
	s.cfg.Token = ""
	return s.cfg.Save()
}

// AccountBinder is implemented by stores that key the token on the account
// signing in.
type AccountBinder interface {
	Bind(account string)
}

// KeyringStore keeps the token in the OS keyring, keyed by account. The
// account is a bound email, else the config email, else "default".
type KeyringStore struct {
	mu      sync.Mutex
	cfg     *config.Config
	account string
}

// NewKeyringStore returns a store for the given account (usually the login email).
func NewKeyringStore(account string) *KeyringStore {
	return &KeyringStore{account: account}
}

// Bind keys later operations on account.
func (s *KeyringStore) Bind(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account != "" {
		s.account = account
	}
}

func (s *KeyringStore) user() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != "" {
		return s.account
	}
	if s.cfg != nil && s.cfg.Email != "" {
		return s.cfg.Email
	}
	return "default"
}

func (s *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(KeyringService, s.user())
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return token, nil
}

func (s *KeyringStore) Save(token string) error {
	if err := keyring.Set(KeyringService, s.user(), token); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}

func (s *KeyringStore) Clear() error {
	err := keyring.Delete(KeyringService, s.user())
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("clear keyring: %w", err)
	}
	return nil
}

// MemoryStore is an in-process store.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a store preloaded with token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// StoreFor picks the token store configured in cfg.
func StoreFor(cfg *config.Config) TokenStore {
	if cfg.UsesKeyring() {
		return &KeyringStore{cfg: cfg}
	}
	return NewConfigStore(cfg)
}
