package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // zone data for hosts without a zoneinfo database

	"github.com/dtnitsch/clickwatch/internal/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone     = "Europe/Berlin"
	DefaultFetchTimeout = 20 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"
	DefaultListen       = ":8080"
)

// SourceKind selects which page layout a source serves.
type SourceKind string

const (
	// SourceCatalog is a page listing many sites in a data-table.
	SourceCatalog SourceKind = "catalog"
	// SourceSingleSite is a page that is itself one site's daily click log.
	SourceSingleSite SourceKind = "single-site"
)

// Source is one configured remote page.
type Source struct {
	Kind SourceKind `yaml:"kind"`
	URL  string     `yaml:"url"`

	// Overrides, honored for single-site sources only.
	Name   string `yaml:"name,omitempty"`
	Domain string `yaml:"domain,omitempty"`
	Type   string `yaml:"type,omitempty"`
}

// FetchConfig controls the HTTP transport.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// Config is built once at startup and passed by value; nothing mutates it afterwards.
type Config struct {
	Sources  []Source    `yaml:"sources"`
	Timezone string      `yaml:"timezone"`
	Fetch    FetchConfig `yaml:"fetch"`
	AuditDB  string      `yaml:"audit_db"`
	Listen   string      `yaml:"listen"`
}

// DefaultSources are the pages tracked when no config file is given.
func DefaultSources() []Source {
	return []Source{
		{Kind: SourceCatalog, URL: "https://khadimat.com/administrator/api.php"},
		{Kind: SourceCatalog, URL: "https://sdadi-qarde.com/administrator/api.php"},
		{
			Kind:   SourceSingleSite,
			URL:    "https://tasdedqard.com/view_clicks.php",
			Name:   "tasdedqard.com",
			Domain: "tasdedqard.com",
			Type:   "single",
		},
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Sources:  DefaultSources(),
		Timezone: DefaultTimezone,
		Fetch: FetchConfig{
			Timeout:   DefaultFetchTimeout,
			UserAgent: DefaultUserAgent,
		},
		Listen: DefaultListen,
	}
}

// LoadConfig reads a YAML config file, applies environment overrides and validates
// the result. An empty path yields the built-in defaults (plus overrides).
func LoadConfig(path string) (Config, error) {
	if err := loadDotEnv(".env", ".env.local"); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		cfg, err = ParseConfig(data)
		if err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv loads each env file that exists. Missing files are skipped; a file that
// exists but cannot be read or parsed is an error.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ParseConfig decodes YAML on top of the defaults. Sources from the document replace
// the default source list entirely.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	var doc Config
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(doc.Sources) > 0 {
		cfg.Sources = doc.Sources
	}
	if doc.Timezone != "" {
		cfg.Timezone = doc.Timezone
	}
	if doc.Fetch.Timeout > 0 {
		cfg.Fetch.Timeout = doc.Fetch.Timeout
	}
	if doc.Fetch.UserAgent != "" {
		cfg.Fetch.UserAgent = doc.Fetch.UserAgent
	}
	if doc.AuditDB != "" {
		cfg.AuditDB = doc.AuditDB
	}
	if doc.Listen != "" {
		cfg.Listen = doc.Listen
	}

	for i := range cfg.Sources {
		cfg.Sources[i].Kind = normalizeKind(cfg.Sources[i].Kind)
		cfg.Sources[i].URL = common.SanitizeURL(cfg.Sources[i].URL)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("CLICKWATCH_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := getenv("CLICKWATCH_AUDIT_DB"); v != "" {
		cfg.AuditDB = v
	}
	if v := getenv("CLICKWATCH_LISTEN"); v != "" {
		cfg.Listen = v
	}
}

// normalizeKind also accepts the "master" and "clicks" names used by older configs.
func normalizeKind(k SourceKind) SourceKind {
	switch strings.ToLower(strings.TrimSpace(string(k))) {
	case "catalog", "master":
		return SourceCatalog
	case "single-site", "single", "clicks":
		return SourceSingleSite
	}
	return k
}

// Validate checks that the configuration can drive an aggregation.
func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("config: at least one source is required")
	}
	for i, src := range c.Sources {
		if src.Kind != SourceCatalog && src.Kind != SourceSingleSite {
			return fmt.Errorf("config: source %d: unknown kind %q", i, src.Kind)
		}
		if !common.IsValidURL(src.URL) {
			return fmt.Errorf("config: source %d: invalid url %q", i, src.URL)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone used to compute "today".
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
