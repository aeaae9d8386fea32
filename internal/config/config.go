package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the number of rows per page when the config does not set one.
const DefaultPageSize = 10

// Token store backends.
const (
	TokenStoreFile    = "file"
	TokenStoreKeyring = "keyring"
)

// EnvAPIURL overrides the configured backend URL.
const EnvAPIURL = "GASTROFLOW_API_URL"

// Config holds CLI configuration stored at ~/.gastroflow/config.
type Config struct {
	APIURL     string `yaml:"api_url,omitempty"`
	Token      string `yaml:"token,omitempty"`
	Email      string `yaml:"email,omitempty"`
	UserName   string `yaml:"user_name,omitempty"`
	TokenStore string `yaml:"token_store,omitempty"`
	PageSize   int    `yaml:"page_size,omitempty"`
	LogFile    string `yaml:"log_file,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// Dir returns the directory holding the config and log files.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gastroflow")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch cfg.TokenStore {
	case "", TokenStoreFile, TokenStoreKeyring:
	default:
		return nil, fmt.Errorf("config token_store %q not supported (want file or keyring)", cfg.TokenStore)
	}

	return &cfg, nil
}

// LoadOrDefault returns the stored config, or an empty one when no file exists yet.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return nil, err
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

// ResolveAPIURL picks the backend URL: flag, then env, then config, then fallback.
func (c *Config) ResolveAPIURL(flag, fallback string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		return strings.TrimRight(v, "/")
	}
	if c != nil {
		if v := strings.TrimSpace(c.APIURL); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return fallback
}

// EffectivePageSize returns the configured page size or the default.
func (c *Config) EffectivePageSize() int {
	if c == nil || c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// UsesKeyring reports whether the token lives in the OS keyring.
func (c *Config) UsesKeyring() bool {
	return c != nil && c.TokenStore == TokenStoreKeyring
}

// LogPath returns the log destination.
func (c *Config) LogPath() string {
	if c != nil && strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	return filepath.Join(Dir(), "gastroflow.log")
}
