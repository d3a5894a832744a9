// Package config resolves client settings from defaults, the TOML config
// file and the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all client configuration.
type Config struct {
	// APIURL is the backend base URL. Default: http://localhost:8000.
	APIURL string

	// Timeout bounds every backend request. Default: 15s.
	Timeout time.Duration

	// Demo starts sessions in demo mode, which never touches the network.
	Demo bool

	// DBPath is the request log database.
	DBPath string

	// LogPath receives the debug log; the terminal belongs to the UI.
	LogPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIURL:   "http://localhost:8000",
		Timeout:  15 * time.Second,
		Demo:     true,
		DBPath:   DefaultDBPath(),
		LogPath:  DefaultLogPath(),
		LogLevel: "info",
	}
}

// Load builds a Config from defaults, then the TOML file at path (when
// non-empty), then the environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := fc.Apply(&cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays MIXINGO_* environment variables onto cfg.
func (c *Config) ApplyEnv() error {
	if u := os.Getenv("MIXINGO_API_URL"); u != "" {
		c.APIURL = u
	}
	if t := os.Getenv("MIXINGO_API_TIMEOUT"); t != "" {
		d, err := parseTimeout(t)
		if err != nil {
			return fmt.Errorf("MIXINGO_API_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("MIXINGO_DEMO"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MIXINGO_DEMO: %w", err)
		}
		c.Demo = b
	}
	if p := os.Getenv("MIXINGO_DB"); p != "" {
		c.DBPath = p
	}
	if p := os.Getenv("MIXINGO_LOG"); p != "" {
		c.LogPath = p
	}
	if l := os.Getenv("MIXINGO_LOG_LEVEL"); l != "" {
		c.LogLevel = l
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api url %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api url %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api url %q: missing host", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name onto a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// parseTimeout accepts a Go duration ("15s") or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
