package config

import (
	"fmt"
	"net/url"
)

// validate checks that the assembled configuration is usable
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base_url: %q", cfg.API.BaseURL)
	}

	if _, err := cfg.RequestTimeout(); err != nil {
		return fmt.Errorf("invalid api timeout: %w", err)
	}
	if _, err := cfg.StatsInterval(); err != nil {
		return fmt.Errorf("invalid stats_interval: %w", err)
	}
	if _, err := cfg.PairingInterval(); err != nil {
		return fmt.Errorf("invalid pairing_interval: %w", err)
	}
	if _, err := cfg.PairingTimeout(); err != nil {
		return fmt.Errorf("invalid pairing_timeout: %w", err)
	}

	if cfg.History.PageSize < 1 {
		return fmt.Errorf("history page_size must be >= 1, got %d", cfg.History.PageSize)
	}
	return nil
}
