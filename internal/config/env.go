package config

import "os"

// Environment variable names recognized as overrides
const (
	EnvBaseURL   = "COMMENTIFY_API_URL"
	EnvTimeout   = "COMMENTIFY_API_TIMEOUT"
	EnvStatePath = "COMMENTIFY_STATE_PATH"
)

// applyEnvOverrides layers environment values over file and default
// values. Environment wins.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		cfg.API.Timeout = v
	}
	if v := os.Getenv(EnvStatePath); v != "" {
		cfg.StatePath = v
	}
}
