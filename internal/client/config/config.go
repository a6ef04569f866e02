package config

import "time"

// Config holds runtime settings for the Bocado CLI.
//
// Fields:
//   - APIBaseURL: root of the backend REST API, including the /api prefix.
//   - RequestTimeout: upper bound for a single request attempt.
//   - DatabaseFile: path of the local SQLite database (credentials).
//   - DownloadDir: where invoice PDFs are saved.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabaseFile   string
	DownloadDir    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.RequestTimeout = 15 * time.Second
	c.DatabaseFile = "bocado.db"
	c.DownloadDir = "downloads"
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
