package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// APIConfig identifies the queue service and the transport timeout
type APIConfig struct {
	// BaseURL is the queue service address
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each individual HTTP request (e.g. "15s")
	Timeout string `yaml:"timeout"`
}

// PollConfig controls the background refresh loops
type PollConfig struct {
	// StatsInterval is how often queue stats refresh (e.g. "10s")
	StatsInterval string `yaml:"stats_interval"`

	// PairingInterval is how often the extension status check runs
	// while a handshake is armed (e.g. "5s")
	PairingInterval string `yaml:"pairing_interval"`

	// PairingTimeout is the application-level handshake deadline
	// (e.g. "180s"). Independent of the transport timeout.
	PairingTimeout string `yaml:"pairing_timeout"`
}

// HistoryConfig controls job history retrieval
type HistoryConfig struct {
	// PageSize is the number of jobs fetched per page
	PageSize int `yaml:"page_size"`
}

// Config holds all client configuration.
// It is immutable after creation via Load().
type Config struct {
	// API contains queue service connection settings
	API APIConfig `yaml:"api"`

	// Poll contains refresh loop settings
	Poll PollConfig `yaml:"poll"`

	// History contains job history settings
	History HistoryConfig `yaml:"history"`

	// StatePath overrides the local state database location
	StatePath string `yaml:"state_path,omitempty"`
}

// RequestTimeout parses the transport timeout as a Duration
func (c *Config) RequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.Timeout)
}

// StatsInterval parses the stats refresh interval as a Duration
func (c *Config) StatsInterval() (time.Duration, error) {
	return time.ParseDuration(c.Poll.StatsInterval)
}

// PairingInterval parses the pairing poll interval as a Duration
func (c *Config) PairingInterval() (time.Duration, error) {
	return time.ParseDuration(c.Poll.PairingInterval)
}

// PairingTimeout parses the handshake deadline as a Duration
func (c *Config) PairingTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Poll.PairingTimeout)
}

// DefaultPath returns the per-user config file location
// (~/.commentify.yaml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".commentify.yaml"), nil
}

// Load reads configuration from path. It applies defaults, then file
// values, then environment overrides, then validates.
//
// A missing config file is not an error; defaults plus environment
// overrides are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
