// Package config loads client settings from TOML files, the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/tada/internal/api"
)

// Default values.
const (
	DefaultTimeoutSeconds = 10
	DefaultLogLevel       = "info"
	DefaultTheme          = "classic"
	DirName               = ".tada"
	UserFileName          = "config.toml"
	ProjectFileName       = ".tada.toml"
	DefaultLogFileName    = "tada.log"
)

// Config holds everything the client needs to reach its account.
type Config struct {
	APIURL         string `toml:"api_url"`
	UserID         int    `toml:"user_id"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	Theme string `toml:"theme"`
	Group bool   `toml:"group"` // list grouped by pending/done
}

// Timeout is the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	return &Config{
		APIURL:         api.DefaultBaseURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogLevel:       DefaultLogLevel,
		Theme:          DefaultTheme,
	}
}

// Load builds the configuration in priority order:
// 1. Defaults
// 2. User config file (~/.tada/config.toml)
// 3. Project config file (.tada.toml in the current directory)
// 4. Environment variables (TADA_*)
// 5. CLI flags
//
// It returns the arguments left after flag parsing.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := Defaults()

	for _, path := range []string{userConfigFile(), ProjectFileName} {
		if path == "" {
			continue
		}
		if err := loadFile(cfg, path); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, nil, fmt.Errorf("reading environment: %w", err)
	}

	rest, err := parseFlags(cfg, fs, args)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalize(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

// Dir is ~/.tada, shared with the credentials file.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

func userConfigFile() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, UserFileName)
}

// loadFile decodes path over cfg. A missing file is not an error.
func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TADA_USER_ID"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TADA_USER_ID: %w", err)
		}
		cfg.UserID = n
	}
	if v := os.Getenv("TADA_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TADA_TIMEOUT_SECONDS: %w", err)
		}
		cfg.TimeoutSeconds = n
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	return nil
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) ([]string, error) {
	if fs == nil {
		return args, nil
	}
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "todo service base URL")
	fs.IntVar(&cfg.UserID, "user-id", cfg.UserID, "account the todos belong to")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "classic, neon or mono")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group output by pending/done")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

func finalize(cfg *Config) error {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return errors.New("api_url is empty")
	}
	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", cfg.TimeoutSeconds)
	}
	if cfg.LogFile == "" {
		if dir, err := Dir(); err == nil {
			cfg.LogFile = filepath.Join(dir, DefaultLogFileName)
		}
	}
	return nil
}
