package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Source struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type FetchConfig struct {
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
	UserAgent   string `yaml:"user_agent"`
}

type SessionConfig struct {
	Backend      string `yaml:"backend"` // "memory" or "redis"
	TTL          string `yaml:"ttl"`
	CookieName   string `yaml:"cookie_name"`
	CookieSecure bool   `yaml:"cookie_secure"`
	RedisAddr    string `yaml:"redis_addr"`
}

// Pages holds the redirect targets of the login gate.
type Pages struct {
	Login      string `yaml:"login"`
	Onboarding string `yaml:"onboarding"`
	Main       string `yaml:"main"`
}

type Config struct {
	Listen    string        `yaml:"listen"`
	StaticDir string        `yaml:"static_dir"`
	Fetch     FetchConfig   `yaml:"fetch"`
	Session   SessionConfig `yaml:"session"`
	Pages     Pages         `yaml:"pages"`
	Sources   []Source      `yaml:"sources"`
}

func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// FetchConcurrency returns how many sources are fetched at once, defaulting to 1.
func (c *Config) FetchConcurrency() int {
	if c.Fetch.Concurrency <= 0 {
		return 1
	}
	return c.Fetch.Concurrency
}

func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Session.TTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.EnabledSources() {
		names = append(names, s.Name)
	}
	return names
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "benkyou", "config.yaml")
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

// Load reads the config at path on top of the embedded defaults, then
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Non-fatal: keep running on embedded defaults
		_ = writeDefaults(path)
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(cfg)

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

func applyEnv(cfg *Config) {
	cfg.Listen = getEnv("BENKYOU_LISTEN", cfg.Listen)
	cfg.StaticDir = getEnv("BENKYOU_STATIC_DIR", cfg.StaticDir)
	cfg.Session.Backend = getEnv("BENKYOU_SESSION_BACKEND", cfg.Session.Backend)
	cfg.Session.RedisAddr = getEnv("BENKYOU_REDIS_ADDR", cfg.Session.RedisAddr)
}

// getEnv returns the value of key, or the contents of the file named by
// key_FILE, or fallback.
func getEnv(key, fallback string) string {
	if file := os.Getenv(key + "_FILE"); file != "" {
		content, err := os.ReadFile(file)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func validate(cfg *Config) error {
	if cfg.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
	}
	if cfg.Fetch.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Fetch.Timeout); err != nil {
			return fmt.Errorf("fetch.timeout: %w", err)
		}
	}
	if cfg.Fetch.Concurrency < 0 {
		return fmt.Errorf("fetch.concurrency must not be negative, got %d", cfg.Fetch.Concurrency)
	}
	switch cfg.Session.Backend {
	case "memory":
	case "redis":
		if cfg.Session.RedisAddr == "" {
			return fmt.Errorf("session.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q (valid: memory, redis)", cfg.Session.Backend)
	}
	if cfg.Session.TTL != "" {
		if _, err := time.ParseDuration(cfg.Session.TTL); err != nil {
			return fmt.Errorf("session.ttl: %w", err)
		}
	}
	if cfg.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if cfg.Pages.Login == "" || cfg.Pages.Onboarding == "" || cfg.Pages.Main == "" {
		return fmt.Errorf("pages.login, pages.onboarding and pages.main are required")
	}
	return nil
}
