package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

// TokenStorageType selects where the upstream API key is kept.
type TokenStorageType string

const (
	// TokenStorageTypeEnv reads the key from the environment (read-only).
	TokenStorageTypeEnv TokenStorageType = "env"
	// TokenStorageTypeFile keeps the key in a mode-0600 file.
	TokenStorageTypeFile TokenStorageType = "file"
	// TokenStorageTypeKeyring keeps the key in the OS keyring.
	TokenStorageTypeKeyring TokenStorageType = "keyring"
)

// keyringService namespaces this application's keyring entries.
const keyringService = "claude-openai-bridge"

// Config is the full application configuration, loaded from defaults, an
// optional TOML file, and environment overrides.
type Config struct {
	Listen   ListenConfig   `koanf:"listen"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
}

// ListenConfig configures the inbound HTTP listener.
type ListenConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

// UpstreamConfig configures the OpenAI-compatible upstream.
type UpstreamConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// MaxRequestBytes bounds inbound request bodies.
	MaxRequestBytes int64 `koanf:"max_request_bytes" validate:"gt=0"`
}

// AuthConfig configures upstream API-key storage.
type AuthConfig struct {
	Storage TokenStorageType `koanf:"storage" validate:"required,oneof=env file keyring"`

	// EnvVar names the environment variable used by env storage.
	EnvVar string `koanf:"env_var" validate:"required"`

	// KeyFile is the key file path used by file storage. Empty selects
	// a default under the user config directory.
	KeyFile string `koanf:"key_file"`
}

// LogConfig configures process logging.
type LogConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=text json"`
}

// Defaults returns the built-in configuration values, overridden by file and
// environment sources during loading.
func Defaults() map[string]any {
	return map[string]any{
		"listen.addr":                "127.0.0.1:4000",
		"upstream.base_url":          "https://api.openai.com/v1",
		"upstream.max_request_bytes": int64(32 << 20),
		"auth.storage":               string(TokenStorageTypeEnv),
		"auth.env_var":               "OPENAI_API_KEY",
		"log.level":                  "info",
		"log.format":                 "text",
	}
}

// TokenStore reads and writes the upstream API key in the configured storage.
// Write with an empty value clears the stored key.
type TokenStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, key string) error
}

// NewTokenStore builds the TokenStore selected by the configuration.
func (c AuthConfig) NewTokenStore() (TokenStore, error) {
	switch c.Storage {
	case TokenStorageTypeEnv:
		return &envTokenStore{envVar: c.EnvVar}, nil
	case TokenStorageTypeFile:
		path := c.KeyFile
		if path == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				return nil, fmt.Errorf("resolving user config dir: %w", err)
			}
			path = filepath.Join(configDir, keyringService, "api_key")
		}
		return &fileTokenStore{path: path}, nil
	case TokenStorageTypeKeyring:
		return &keyringTokenStore{service: keyringService}, nil
	default:
		return nil, fmt.Errorf("unsupported token storage %q", c.Storage)
	}
}

// envTokenStore reads the key from the environment. It is read-only; login
// and logout flows require file or keyring storage.
type envTokenStore struct {
	envVar string
}

func (s *envTokenStore) Read(ctx context.Context) (string, error) {
	key := strings.TrimSpace(os.Getenv(s.envVar))
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", s.envVar)
	}
	return key, nil
}

func (s *envTokenStore) Write(ctx context.Context, key string) error {
	return fmt.Errorf("env storage is read-only")
}

// fileTokenStore keeps the key in a mode-0600 file.
type fileTokenStore struct {
	path string
}

func (s *fileTokenStore) Read(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading key file: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("key file %s is empty", s.path)
	}
	return key, nil
}

func (s *fileTokenStore) Write(ctx context.Context, key string) error {
	if key == "" {
		err := os.Remove(s.path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing key file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}
	return nil
}

// keyringTokenStore keeps the key in the OS keyring.
type keyringTokenStore struct {
	service string
}

// keyringUser is the fixed account name for the single stored key.
const keyringUser = "upstream-api-key"

func (s *keyringTokenStore) Read(ctx context.Context) (string, error) {
	key, err := keyring.Get(s.service, keyringUser)
	if err != nil {
		return "", fmt.Errorf("reading key from keyring: %w", err)
	}
	return key, nil
}

func (s *keyringTokenStore) Write(ctx context.Context, key string) error {
	if key == "" {
		err := keyring.Delete(s.service, keyringUser)
		if err != nil && err != keyring.ErrNotFound {
			return fmt.Errorf("clearing key from keyring: %w", err)
		}
		return nil
	}
	if err := keyring.Set(s.service, keyringUser, key); err != nil {
		return fmt.Errorf("writing key to keyring: %w", err)
	}
	return nil
}
