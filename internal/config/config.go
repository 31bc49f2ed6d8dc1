// Package config loads formdraft runtime configuration: built-in defaults,
// then an optional YAML file, then a .env file, then FORMDRAFT_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all formdraft configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Autosave  AutosaveConfig  `yaml:"autosave"`
	Assistant AssistantConfig `yaml:"assistant"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Form      FormConfig      `yaml:"form"`
}

type StoreConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	// Prefix scopes every storage key to one application origin.
	Prefix string `yaml:"prefix"`
}

type AutosaveConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

type AssistantConfig struct {
	Enabled     bool   `yaml:"enabled"`
	URL         string `yaml:"url"`
	ReconnectMs int    `yaml:"reconnect_ms"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" | "json"
}

type FormConfig struct {
	// SchemaPath overrides the embedded onboarding form schema.
	SchemaPath string `yaml:"schema_path"`
}

// Debounce returns the autosave quiet period.
func (c AutosaveConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Reconnect returns the assistant reconnect delay.
func (c AssistantConfig) Reconnect() time.Duration {
	return time.Duration(c.ReconnectMs) * time.Millisecond
}

// HomeDir returns the formdraft data directory: FORMDRAFT_HOME or ~/.formdraft.
func HomeDir() (string, error) {
	if v := os.Getenv("FORMDRAFT_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".formdraft"), nil
}

// DefaultConfig returns a Config with sensible defaults rooted at dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		Store: StoreConfig{
			Backend:  BackendSQLite,
			Path:     filepath.Join(dataDir, "formdraft.db"),
			RedisURL: "redis://localhost:6379/0",
			Prefix:   "formdraft",
		},
		Autosave: AutosaveConfig{DebounceMs: 1000},
		Assistant: AssistantConfig{
			Enabled:     false,
			URL:         "ws://localhost:8000/ws",
			ReconnectMs: 5000,
		},
		HTTP: HTTPConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:4200"},
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load builds the effective configuration. An empty path means the default
// file in the data directory, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	dataDir, err := HomeDir()
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig(dataDir)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dataDir, "config.yml")
	}
	if err := loadFile(&cfg, path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return Config{}, err
		}
	}

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FORMDRAFT_STORE"); v != "" {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("FORMDRAFT_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("FORMDRAFT_REDIS_URL"); v != "" {
		cfg.Store.RedisURL = v
	}
	if v, ok := os.LookupEnv("FORMDRAFT_STORE_PREFIX"); ok {
		cfg.Store.Prefix = v
	}
	if v := os.Getenv("FORMDRAFT_AUTOSAVE_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Autosave.DebounceMs = n
		}
	}
	if v := os.Getenv("FORMDRAFT_ASSISTANT_ENABLED"); v != "" {
		cfg.Assistant.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("FORMDRAFT_ASSISTANT_URL"); v != "" {
		cfg.Assistant.URL = v
	}
	if v := os.Getenv("FORMDRAFT_ASSISTANT_RECONNECT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Assistant.ReconnectMs = n
		}
	}
	if v := os.Getenv("FORMDRAFT_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("FORMDRAFT_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("FORMDRAFT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("FORMDRAFT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv("FORMDRAFT_FORM_SCHEMA"); v != "" {
		cfg.Form.SchemaPath = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for values that would fail at startup.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for the sqlite backend"))
		}
	case BackendRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, fmt.Errorf("store.redis_url is required for the redis backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("store.backend: invalid value %q", c.Store.Backend))
	}
	if c.Autosave.DebounceMs <= 0 {
		errs = append(errs, fmt.Errorf("autosave.debounce_ms must be positive"))
	}
	if c.Assistant.Enabled && c.Assistant.URL == "" {
		errs = append(errs, fmt.Errorf("assistant.url is required when the assistant is enabled"))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: invalid value %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
