package config

// Default returns the built-in configuration values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: "15s",
		},
		Poll: PollConfig{
			StatsInterval:   "10s",
			PairingInterval: "5s",
			PairingTimeout:  "180s",
		},
		History: HistoryConfig{
			PageSize: 20,
		},
	}
}
