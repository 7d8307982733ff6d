package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds portal's runtime settings.
type Config struct {
	APIBase        string
	RequestTimeout time.Duration
	// RateLimit caps requests per second; zero disables throttling.
	RateLimit      float64
	DatabasePath   string
	LogFile        string
	LogLevel       string
	SearchDebounce time.Duration
}

// StderrLog selects stderr instead of a log file.
const StderrLog = "-"

const (
	defaultConfigPath     = "~/.config/portal/config.toml"
	defaultAPIBase        = "https://rickandmortyapi.com/api"
	defaultRequestTimeout = 10 * time.Second
	defaultRateLimit      = 5.0
	defaultDatabasePath   = "~/.local/share/portal/portal.db"
	defaultLogFile        = "~/.local/state/portal/portal.log"
	defaultLogLevel       = "info"
	defaultSearchDebounce = 300 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		RequestTimeout: defaultRequestTimeout,
		RateLimit:      defaultRateLimit,
		DatabasePath:   mustExpand(defaultDatabasePath),
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		SearchDebounce: defaultSearchDebounce,
	}
}

// Load locates and parses the config file, falling back to defaults when it
// is missing and for every field left empty.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase        string   `toml:"api_base"`
		RequestTimeout string   `toml:"request_timeout"`
		RateLimit      *float64 `toml:"rate_limit"`
		DatabasePath   string   `toml:"database_path"`
		LogFile        string   `toml:"log_file"`
		LogLevel       string   `toml:"log_level"`
		SearchDebounce string   `toml:"search_debounce"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.SearchDebounce, err = parseDuration("search_debounce", raw.SearchDebounce, cfg.SearchDebounce); err != nil {
		return Config{}, err
	}
	if raw.RateLimit != nil {
		cfg.RateLimit = max(*raw.RateLimit, 0)
	}
	if v := strings.TrimSpace(raw.DatabasePath); v != "" {
		cfg.DatabasePath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
		if v != StderrLog {
			cfg.LogFile = mustExpand(v)
		}
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse config: %s must not be negative", field)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
