// Package config loads and persists the tool configuration: which store
// backend holds the settings blob, where backups go, and how the HTTP
// surface is exposed.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendPebble = "pebble"
)

// Config represents the connset configuration
type Config struct {
	Store   StoreConfig  `yaml:"store"`
	Server  ServerConfig `yaml:"server"`
	Logging Logging      `yaml:"logging"`
}

// StoreConfig selects and parameterizes the settings store backend
type StoreConfig struct {
	Backend    string `yaml:"backend"`     // "file" or "pebble"
	Path       string `yaml:"path"`        // blob file (file) or database dir (pebble)
	BackupDir  string `yaml:"backup_dir"`  // file backend only; empty disables versioning
	MaxBackups int    `yaml:"max_backups"` // 0 keeps everything
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Bind   string `yaml:"bind"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:    BackendFile,
			Path:       "./data/settings.blob",
			BackupDir:  "./data/backups",
			MaxBackups: 10,
		},
		Server: ServerConfig{
			Bind:   "127.0.0.1",
			Port:   8080,
			APIKey: "auto",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Validate rejects configurations no backend can act on.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendPebble:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}
	if c.Store.MaxBackups < 0 {
		return fmt.Errorf("max_backups must not be negative")
	}
	return nil
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateAPIKey generates a cryptographically secure random key
func GenerateAPIKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a fresh configuration with a generated API key.
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.Store.Path = filepath.Join(dataDir, "settings.blob")
		config.Store.BackupDir = filepath.Join(dataDir, "backups")
	}

	apiKey, err := GenerateAPIKey(32) // 256 bits
	if err != nil {
		return nil, err
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// DefaultConfigPath returns the default configuration path for the current platform
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./connset.yaml"
	}
	return filepath.Join(homeDir, ".config", "connset", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
