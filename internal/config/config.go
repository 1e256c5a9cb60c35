package config

import "time"

// Config holds runtime settings for the enhancer CLI.
//
// Fields:
//   - ServerURL: base URL of the enhancement backend.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 60 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if a config file was given), environment variables, and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
