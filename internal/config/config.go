// Package config resolves process settings from SHEETR_* environment
// variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sadopc/sheetr/internal/store"
)

// Source selects where users, projects and tasks come from.
type Source string

const (
	SourceSQLite  Source = "sqlite"
	SourceFixture Source = "fixture"
)

type AuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Config holds everything the CLI and the TUI need at startup.
type Config struct {
	DBPath     string
	Source     Source
	HourlyRate float64
	WeekStart  string
	PageSize   int
	LogFile    string
	Auth       AuthConfig
}

// DefaultConfig returns the built-in defaults. The database and log file
// live in the user config directory.
func DefaultConfig() Config {
	cfg := Config{
		Source:     SourceSQLite,
		HourlyRate: 85,
		WeekStart:  "monday",
		PageSize:   20,
	}
	if path, err := store.DefaultDBPath(); err == nil {
		cfg.DBPath = path
		cfg.LogFile = filepath.Join(filepath.Dir(path), "sheetr.log")
	}
	return cfg
}

// Load reads configuration from the environment, falling back to defaults
// for unset or malformed values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("SHEETR_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := strings.ToLower(os.Getenv("SHEETR_SOURCE")); v != "" {
		switch Source(v) {
		case SourceSQLite, SourceFixture:
			cfg.Source = Source(v)
		}
	}
	if v := os.Getenv("SHEETR_HOURLY_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.HourlyRate = f
		}
	}
	if v := strings.ToLower(os.Getenv("SHEETR_WEEK_START")); v == "monday" || v == "sunday" {
		cfg.WeekStart = v
	}
	if v := os.Getenv("SHEETR_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
	if v := os.Getenv("SHEETR_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	cfg.Auth.TokenURL = os.Getenv("SHEETR_AUTH_TOKEN_URL")
	cfg.Auth.ClientID = os.Getenv("SHEETR_AUTH_CLIENT_ID")
	cfg.Auth.ClientSecret = os.Getenv("SHEETR_AUTH_CLIENT_SECRET")

	return cfg
}
