package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the Frostgate client.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API.
//   - DataDir: directory holding the local database and license artifact.
//   - InstallSecret: installation secret the artifact sealing key is
//     derived from.
//   - RequestTimeout: per-request deadline for backend calls.
type Config struct {
	ServerBaseURL  string
	DataDir        string
	InstallSecret  string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DataDir = defaultDataDir()
	c.InstallSecret = "frostgate-local"
	c.RequestTimeout = 10 * time.Second
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".frostgate"
	}
	return filepath.Join(base, "frostgate")
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
