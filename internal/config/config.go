package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/marcus/postadmin/internal/models"
)

const (
	configFile = ".posts/config.json"
	envFile    = ".env"
)

// Environment variables that override the config file.
const (
	EnvServer     = "POSTADMIN_SERVER"
	EnvToken      = "POSTADMIN_TOKEN"
	EnvDateFormat = "POSTADMIN_DATE_FORMAT"
	EnvTimeout    = "POSTADMIN_TIMEOUT"
	EnvLogLevel   = "POSTADMIN_LOG_LEVEL"
)

// Load reads the config from disk
func Load(baseDir string) (*models.Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return &cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *models.Config) error {
	configPath := filepath.Join(baseDir, configFile)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Resolve loads the config file and applies overrides from baseDir/.env and
// the process environment, in that order of increasing precedence. Unset
// fields get their defaults.
func Resolve(baseDir string) (*models.Config, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return nil, err
	}

	dotenv, err := godotenv.Read(filepath.Join(baseDir, envFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		// An empty variable counts as unset so it cannot mask .env.
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	overrides := []struct {
		env string
		key string
	}{
		{EnvServer, KeyServerURL},
		{EnvToken, KeyToken},
		{EnvDateFormat, KeyDateFormat},
		{EnvTimeout, KeyTimeoutSeconds},
		{EnvLogLevel, KeyLogLevel},
	}
	for _, o := range overrides {
		v, ok := lookup(o.env)
		if !ok || v == "" {
			continue
		}
		if err := Set(cfg, o.key, v); err != nil {
			return nil, fmt.Errorf("%s: %w", o.env, err)
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *models.Config) {
	if cfg.DateFormat == "" {
		cfg.DateFormat = models.DefaultDateFormat
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = models.DefaultTimeoutSeconds
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Timeout returns the request timeout as a duration.
func Timeout(cfg *models.Config) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return models.DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// ParseLevel converts a level name like "debug" or "WARN" to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Config keys accepted by Get and Set.
const (
	KeyServerURL      = "server_url"
	KeyToken          = "token"
	KeyDateFormat     = "date_format"
	KeyTimeoutSeconds = "timeout_seconds"
	KeyLogLevel       = "log_level"
)

// Keys returns the settable config keys, sorted.
func Keys() []string {
	keys := []string{KeyServerURL, KeyToken, KeyDateFormat, KeyTimeoutSeconds, KeyLogLevel}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a config value.
func Get(cfg *models.Config, key string) (string, error) {
	switch key {
	case KeyServerURL:
		return cfg.ServerURL, nil
	case KeyToken:
		return cfg.Token, nil
	case KeyDateFormat:
		return cfg.DateFormat, nil
	case KeyTimeoutSeconds:
		if cfg.TimeoutSeconds == 0 {
			return "", nil
		}
		return strconv.Itoa(cfg.TimeoutSeconds), nil
	case KeyLogLevel:
		return cfg.LogLevel, nil
	}
	return "", unknownKey(key)
}

// Set parses value and stores it under key.
func Set(cfg *models.Config, key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyServerURL:
		cfg.ServerURL = strings.TrimRight(value, "/")
	case KeyToken:
		cfg.Token = value
	case KeyDateFormat:
		cfg.DateFormat = value
	case KeyTimeoutSeconds:
		if value == "" {
			cfg.TimeoutSeconds = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("timeout_seconds must be a non-negative integer, got %q", value)
		}
		cfg.TimeoutSeconds = n
	case KeyLogLevel:
		if _, err := ParseLevel(value); err != nil {
			return err
		}
		cfg.LogLevel = strings.ToLower(value)
	default:
		return unknownKey(key)
	}
	return nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
}
