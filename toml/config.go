// Package toml loads attfetch configuration from a TOML file.
package toml

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/attfetch/attfetch"
)

// Config holds application configuration.
type Config struct {
	// ListURL is the listing root; page n is ListURL?page=n.
	ListURL string `toml:"list_url"`

	// Cookies are the session cookies for the listing site.
	// Acquiring them is up to the user.
	Cookies map[string]string `toml:"cookies"`

	// DownloadDir is where attachments are saved.
	DownloadDir string `toml:"download_dir"`

	// Workers bounds the parallel page-fetch pool. Zero means the
	// default (a small multiple of hardware parallelism).
	Workers int `toml:"workers"`

	// RequestsPerSecond throttles requests per domain. Zero disables
	// throttling.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Tolerance is the local/remote mtime difference still considered
	// the same version. Zero means the default (1s).
	Tolerance Duration `toml:"tolerance"`

	// API holds optional JSON API credentials.
	API APIConfig `toml:"api"`
}

// APIConfig holds OAuth client credentials for the listing site's JSON API.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	UID     string `toml:"uid"`
	Secret  string `toml:"secret"`
}

// Duration wraps time.Duration for TOML decoding of strings like "1s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load reads a TOML config file and applies environment overrides.
// ATTFETCH_LIST_URL and ATTFETCH_DOWNLOAD_DIR override their file
// counterparts.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DownloadDir: ".",
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, attfetch.Errorf(attfetch.ENOTFOUND, "config file %q not found", path)
		}
		return nil, attfetch.Errorf(attfetch.EINVALID, "parse config %q: %v", path, err)
	}

	// Env overrides
	if v := os.Getenv("ATTFETCH_LIST_URL"); v != "" {
		cfg.ListURL = v
	}
	if v := os.Getenv("ATTFETCH_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the config is unusable.
func (c *Config) Validate() error {
	if c.ListURL == "" {
		return attfetch.Errorf(attfetch.EINVALID, "list_url is required")
	}
	return nil
}
