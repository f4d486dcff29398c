package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// APIKeyEnv names the environment variable holding the aggregator key. Only
// the proxy reads it.
const APIKeyEnv = "NEWS_API_KEY"

type ServerConfig struct {
	Listen         string   `yaml:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type UpstreamConfig struct {
	Provider     string `yaml:"provider"` // "newsapi" or "rss"
	BaseURL      string `yaml:"base_url"`
	RateInterval string `yaml:"rate_interval"`
	Timeout      string `yaml:"timeout"`
}

type ClientConfig struct {
	ProxyURL     string `yaml:"proxy_url"`
	Debounce     string `yaml:"debounce"`
	FetchTimeout string `yaml:"fetch_timeout"`
}

type SessionConfig struct {
	Restore   bool   `yaml:"restore"`
	Retention string `yaml:"retention"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Client   ClientConfig   `yaml:"client"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
}

// DebounceDuration is the search quiet period, 600ms unless configured.
func (c *Config) DebounceDuration() time.Duration {
	return parseDuration(c.Client.Debounce, 600*time.Millisecond)
}

func (c *Config) FetchTimeout() time.Duration {
	return parseDuration(c.Client.FetchTimeout, 30*time.Second)
}

func (c *Config) UpstreamTimeout() time.Duration {
	return parseDuration(c.Upstream.Timeout, 30*time.Second)
}

// RateInterval is the minimum spacing between upstream requests. Zero
// disables pacing.
func (c *Config) RateInterval() time.Duration {
	return parseDuration(c.Upstream.RateInterval, time.Second)
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Session.Retention == "" {
		return 30 * 24 * time.Hour
	}
	if d, ok := parseDays(c.Session.Retention); ok {
		return d
	}
	return parseDuration(c.Session.Retention, 30*24*time.Hour)
}

// APIKey returns the aggregator key from the environment.
func APIKey() string {
	return os.Getenv(APIKeyEnv)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "news-today", "config.yaml")
}

func SessionPath() string {
	return filepath.Join(xdg.DataHome, "news-today", "session.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "news-today", "news-today.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location), layered over the
// embedded defaults. A missing file is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: the embedded defaults still apply.
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	validProviders := map[string]bool{"newsapi": true, "rss": true}
	if !validProviders[cfg.Upstream.Provider] {
		return fmt.Errorf("upstream: unknown provider %q (valid: newsapi, rss)", cfg.Upstream.Provider)
	}
	if cfg.Upstream.BaseURL != "" {
		if err := checkHTTPURL(cfg.Upstream.BaseURL); err != nil {
			return fmt.Errorf("upstream: base_url: %w", err)
		}
	}
	if err := checkHTTPURL(cfg.Client.ProxyURL); err != nil {
		return fmt.Errorf("client: proxy_url: %w", err)
	}

	durations := map[string]string{
		"upstream.rate_interval": cfg.Upstream.RateInterval,
		"upstream.timeout":       cfg.Upstream.Timeout,
		"client.debounce":        cfg.Client.Debounce,
		"client.fetch_timeout":   cfg.Client.FetchTimeout,
	}
	for name, v := range durations {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return fmt.Errorf("%s: invalid duration %q", name, v)
		}
	}
	return nil
}

func checkHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}

// parseDays supports the "Nd" day syntax on top of time.ParseDuration.
func parseDays(s string) (time.Duration, bool) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, true
		}
	}
	return 0, false
}
