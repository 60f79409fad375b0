package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// ConfigFilePerms restricts the config file to the owner since it may hold a password and session cookie.
const ConfigFilePerms = 0o600

// DefaultCountryCode is used for phone logins when neither the CLI nor the config provide one.
const DefaultCountryCode = "86"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Account  AccountConfig  `toml:"account"`
	Target   TargetConfig   `toml:"target"`
	API      APIConfig      `toml:"api"`
	Upload   UploadConfig   `toml:"upload"`
	Database DatabaseConfig `toml:"database"`
}

// AccountConfig contains the saved login data.
type AccountConfig struct {
	Cookie            string `toml:"cookie"`
	CountryCode       string `toml:"country_code"`
	Phone             string `toml:"phone"`
	Password          string `toml:"password"`
	PasswordHash      string `toml:"password_hash"`
	HashSavedPassword bool   `toml:"hash_saved_password"`
}

// TargetConfig is the upload target used when no file or directory is given on the command line.
type TargetConfig struct {
	File   string       `toml:"file"`
	Dir    string       `toml:"dir"`
	Custom CustomConfig `toml:"custom"`
}

// CustomConfig holds a saved metadata override for [TargetConfig.File].
type CustomConfig struct {
	Override bool   `toml:"override"`
	Name     string `toml:"name"`
	Artist   string `toml:"artist"`
	Album    string `toml:"album"`
}

// APIConfig contains settings for the music service API server.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// UploadConfig contains upload loop settings.
type UploadConfig struct {
	RateLimit float64 `toml:"rate_limit"` // uploads per second, 0 disables the limiter
	History   bool    `toml:"history"`
}

// DatabaseConfig contains database connection settings for the upload history.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// LoadOrCreateConfig loads the config at path, writing the default record first when the file does not exist.
//
// The returned bool reports whether the file was created.
func LoadOrCreateConfig(path string) (*Config, bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := CreateConfigFile(path); err != nil {
			return nil, false, err
		}
		return DefaultConfig(), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat config file: %w", err)
	}

	config, err := LoadConfig(path)
	return config, false, err
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, ConfigFilePerms); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), ConfigFilePerms); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Clone returns a copy of c. Config holds only value fields so a shallow copy is enough.
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}
	clone := *c
	return &clone
}

// FileStore persists a [Config] to a fixed path.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save writes config to the store's path.
func (s *FileStore) Save(config *Config) error {
	return SaveConfig(s.Path, config)
}
