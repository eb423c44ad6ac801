// Package config reads recall's settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/recall/internal/answermatch"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/store"
)

// Environment variable names.
const (
	EnvDB           = "RECALL_DB"
	EnvBanksDir     = "RECALL_BANKS_DIR"
	EnvPreset       = "RECALL_PRESET"
	EnvRandomSize   = "RECALL_RANDOM_SIZE"
	EnvSeed         = "RECALL_SEED"
	EnvLogLevel     = "RECALL_LOG_LEVEL"
	EnvHistoryLimit = "RECALL_HISTORY_LIMIT"
)

// Config holds every runtime setting.
type Config struct {
	// DBPath is the SQLite file. Empty means the XDG default.
	DBPath string

	// BanksDir is an extra directory of bank JSON files loaded on top of
	// the built-in banks.
	BanksDir string

	// Preset names the matcher preset for banks that don't pick one.
	Preset string

	// RandomSize is the number of questions in a random session.
	RandomSize int

	// Seed fixes the shuffle order. Zero seeds from the clock.
	Seed uint64

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// HistoryLimit caps the attempt history kept per bank.
	HistoryLimit int
}

// Error reports an environment variable with an unusable value.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Preset:       answermatch.PresetGeneric,
		RandomSize:   session.DefaultRandomSize,
		LogLevel:     "info",
		HistoryLimit: store.DefaultHistoryLimit,
	}
}

// LoadDotEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Malformed numbers are reported as *Error.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvBanksDir); v != "" {
		cfg.BanksDir = v
	}
	if v := os.Getenv(EnvPreset); v != "" {
		cfg.Preset = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvRandomSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, &Error{Key: EnvRandomSize, Err: err}
		}
		cfg.RandomSize = n
	}
	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, &Error{Key: EnvSeed, Err: err}
		}
		cfg.Seed = n
	}
	if v := os.Getenv(EnvHistoryLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, &Error{Key: EnvHistoryLimit, Err: err}
		}
		cfg.HistoryLimit = n
	}

	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if _, err := answermatch.Preset(c.Preset); err != nil {
		return &Error{Key: EnvPreset, Err: err}
	}
	if c.RandomSize < 1 {
		return &Error{Key: EnvRandomSize, Err: fmt.Errorf("must be at least 1, got %d", c.RandomSize)}
	}
	if c.HistoryLimit < 1 {
		return &Error{Key: EnvHistoryLimit, Err: fmt.Errorf("must be at least 1, got %d", c.HistoryLimit)}
	}
	if _, err := c.Level(); err != nil {
		return &Error{Key: EnvLogLevel, Err: err}
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return lvl, nil
}

// ResolveDBPath returns DBPath, or the XDG default when it is empty. The
// parent directory is created either way.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath == "" {
		return store.DefaultDBPath()
	}
	return c.DBPath, store.EnsureDir(c.DBPath)
}
