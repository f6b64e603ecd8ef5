package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session persistence backends
const (
	BackendSQLite = "sqlite"
	BackendValkey = "valkey"
	BackendMemory = "memory"
)

// Config aggregates runtime configuration used across the client.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Session   SessionConfig   `yaml:"session"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Log       LogConfig       `yaml:"log"`
}

// APIConfig points the gateway at the remote service.
type APIConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig controls the local sqlite database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig selects where the session record lives.
type SessionConfig struct {
	Backend string       `yaml:"backend"`
	Key     string       `yaml:"key"`
	Valkey  ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the valkey backend.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// DashboardConfig bounds what the dashboard renders.
type DashboardConfig struct {
	MaxReminders   int `yaml:"maxReminders"`
	MaxMedications int `yaml:"maxMedications"`
	MaxVitals      int `yaml:"maxVitals"`
	VitalsHistory  int `yaml:"vitalsHistory"`
}

// LogConfig sets the slog level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("HEALTHMATE_CONFIG"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if path, err := defaultConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := hydrateFromFile(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Dir returns the per-user healthmate directory
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".healthmate"), nil
}

func defaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	// REACT_APP_API_URL is what older installs exported
	if v := os.Getenv("REACT_APP_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HEALTHMATE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HEALTHMATE_API_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = parsed
		}
	}
	if v := os.Getenv("HEALTHMATE_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("HEALTHMATE_SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("HEALTHMATE_VALKEY_ADDR"); v != "" {
		cfg.Session.Valkey.Addr = v
	}
	if v := os.Getenv("HEALTHMATE_MAX_REMINDERS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Dashboard.MaxReminders = parsed
		}
	}
	if v := os.Getenv("HEALTHMATE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func defaultConfig() *Config {
	storagePath := "healthmate.db"
	if dir, err := Dir(); err == nil {
		storagePath = filepath.Join(dir, "healthmate.db")
	}
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Path: storagePath,
		},
		Session: SessionConfig{
			Backend: BackendSQLite,
			Key:     "healthmate_user",
			Valkey: ValkeyConfig{
				Prefix: "healthmate",
			},
		},
		Dashboard: DashboardConfig{
			MaxReminders:   3,
			MaxMedications: 3,
			MaxVitals:      3,
			VitalsHistory:  5,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.baseUrl cannot be empty")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if strings.TrimSpace(c.Session.Key) == "" {
		return errors.New("session.key cannot be empty")
	}
	switch c.Session.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return errors.New("storage.path cannot be empty when the sqlite backend is used")
		}
	case BackendValkey:
		if strings.TrimSpace(c.Session.Valkey.Addr) == "" {
			return errors.New("session.valkey.addr cannot be empty when the valkey backend is used")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("session.backend %q is not one of sqlite, valkey, memory", c.Session.Backend)
	}
	if c.Dashboard.MaxReminders <= 0 {
		return errors.New("dashboard.maxReminders must be positive")
	}
	if c.Dashboard.MaxMedications <= 0 {
		return errors.New("dashboard.maxMedications must be positive")
	}
	if c.Dashboard.MaxVitals <= 0 {
		return errors.New("dashboard.maxVitals must be positive")
	}
	if c.Dashboard.VitalsHistory <= 0 {
		return errors.New("dashboard.vitalsHistory must be positive")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps the configured level name onto slog
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelWarn, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}
