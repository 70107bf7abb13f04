// Package config loads settings for the long-running commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jsphweid/leadsheet/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Follow FollowConfig `yaml:"follow"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// AllowedOrigins for CORS; empty allows all
	AllowedOrigins []string `yaml:"allowed_origins"`
	SentryDSN      string   `yaml:"sentry_dsn"`
}

// StoreConfig configures where the last loaded song is kept.
type StoreConfig struct {
	Path     string        `yaml:"path"`
	Debounce time.Duration `yaml:"debounce"`
}

type FollowConfig struct {
	// Port is the index of the MIDI in port to follow
	Port int `yaml:"port"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: constants.DefaultAddr},
		Store: StoreConfig{
			Path:     constants.DefaultStorePath,
			Debounce: 500 * time.Millisecond,
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Store.Debounce < 0 {
		return fmt.Errorf("store.debounce must not be negative")
	}
	if c.Follow.Port < 0 {
		return fmt.Errorf("follow.port must not be negative")
	}
	return nil
}

// LoadFromFile reads a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// ApplyEnv lets LEADSHEET_ADDR, LEADSHEET_STORE, SENTRY_DSN and
// LEADSHEET_MIDI_PORT override whatever the file said.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("LEADSHEET_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LEADSHEET_STORE"); v != "" {
		c.Store.Path = v
	}
	if dsn := constants.GetSentryDSN(); dsn != "" {
		c.Server.SentryDSN = dsn
	}
	if v := os.Getenv("LEADSHEET_MIDI_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEADSHEET_MIDI_PORT: %w", err)
		}
		c.Follow.Port = port
	}
	return nil
}

// Load reads path if it is not empty, applies the environment and validates
// the result.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		var err error
		if config, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}
