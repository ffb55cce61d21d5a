// Package config loads daycount settings from a YAML file overlaid with
// DAYCOUNT_* environment variables (a .env file in the working directory is
// read first when present).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/daycount/internal/countdown"
	"github.com/pfrederiksen/daycount/internal/state"
)

const (
	DefaultListen    = "127.0.0.1:8080"
	DefaultBaseURL   = "http://127.0.0.1:8080/"
	DefaultTemplates = "ja"
	DefaultLogLevel  = "info"
)

// Config is the top-level application configuration
type Config struct {
	// Listen is the HTTP listen address for `daycount serve`
	Listen string `yaml:"listen"`

	// BaseURL is the page shareable links point at
	BaseURL string `yaml:"base_url"`

	// Timezone is the IANA zone "today" is evaluated in. Empty means the system zone.
	Timezone string `yaml:"timezone"`

	// Templates names the wording set: ja, ja-long, en or dday
	Templates string `yaml:"templates"`

	// Theme is the theme used when none is given: cool or warm
	Theme string `yaml:"theme"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Listen:    DefaultListen,
		BaseURL:   DefaultBaseURL,
		Templates: DefaultTemplates,
		Theme:     string(state.DefaultTheme),
		LogLevel:  DefaultLogLevel,
	}
}

// Normalize fills in missing values and replaces unknown ones with defaults
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if _, ok := countdown.LookupTemplates(c.Templates); !ok {
		c.Templates = DefaultTemplates
	}
	c.Theme = string(state.ParseTheme(c.Theme))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Location resolves Timezone. An empty or unknown zone yields time.Local and,
// for an unknown zone, an error the caller can log.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// TemplateSet returns the configured wording set
func (c *Config) TemplateSet() countdown.Templates {
	if t, ok := countdown.LookupTemplates(c.Templates); ok {
		return t
	}
	return countdown.Japanese
}

// Load reads the YAML file at path (if any) and applies environment overrides.
// A missing file is not an error: defaults are used. An empty path skips the file.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(ExpandPath(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Listen = getEnv("DAYCOUNT_LISTEN", c.Listen)
	c.BaseURL = getEnv("DAYCOUNT_BASE_URL", c.BaseURL)
	c.Timezone = getEnv("DAYCOUNT_TIMEZONE", c.Timezone)
	c.Templates = getEnv("DAYCOUNT_TEMPLATES", c.Templates)
	c.Theme = getEnv("DAYCOUNT_THEME", c.Theme)
	c.LogLevel = getEnv("DAYCOUNT_LOG_LEVEL", c.LogLevel)
}

// Save writes cfg to path as YAML with 0600 permissions.
// The file is written to a temp file in the same directory and renamed into place.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	path = ExpandPath(path)

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".daycount-config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("setting config permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing config: %w", err)
	}

	return nil
}

// DefaultPath returns ~/.config/daycount/config.yaml
func DefaultPath() string {
	return "~/.config/daycount/config.yaml"
}

// ExpandPath replaces a leading ~/ with the user's home directory
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
