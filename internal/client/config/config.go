package config

import "time"

// Config holds runtime settings for the Synapse Space CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API.
//   - RequestTimeout: upper bound for a single HTTP call.
//   - RefreshLead: how long before access-token expiry the refresh fires.
//   - ResendCooldown: minimum pause between OTP resend requests (advisory,
//     the server stays authoritative).
//   - CachePath: path of the local SQLite metadata cache.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	RefreshLead    time.Duration
	ResendCooldown time.Duration
	CachePath      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 15 * time.Second
	c.RefreshLead = time.Minute
	c.ResendCooldown = 60 * time.Second
	c.CachePath = "synapse.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
