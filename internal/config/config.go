package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides; a local .env file is honored when present.
const (
	EnvBaseURL = "BEVAULT_BASE_URL"
	EnvToken   = "BEVAULT_TOKEN"
)

// Config contains runtime configuration for bevault-mcp.
type Config struct {
	ServerName                string `yaml:"server_name"`
	BaseURL                   string `yaml:"base_url"`
	Token                     string `yaml:"token"`
	DBPath                    string `yaml:"db_path"`
	LogLevel                  string `yaml:"log_level"`
	RequestTimeoutSeconds     int    `yaml:"request_timeout_seconds"`
	RetryMaxAttempts          int    `yaml:"retry_max_attempts"`
	AuditRetentionDays        int    `yaml:"audit_retention_days"`
	AuditSweepIntervalSeconds int    `yaml:"audit_sweep_interval_seconds"`
}

// Default returns a Config populated with safe defaults.
func Default() Config {
	return Config{
		ServerName:                "bevault-mcp",
		DBPath:                    filepath.Join(userHomeDir(), ".bevault-mcp", "audit.db"),
		LogLevel:                  "info",
		RequestTimeoutSeconds:     30,
		RetryMaxAttempts:          3,
		AuditRetentionDays:        30,
		AuditSweepIntervalSeconds: 3600,
	}
}

// Load loads config from disk; if path does not exist, default config is
// returned. Environment variables override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	_ = godotenv.Load()
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks configuration sanity. The base URL is checked separately
// by commands that talk to the service; admin-only commands run without it.
func (c *Config) Validate() error {
	if c.ServerName == "" {
		return errors.New("server_name must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return errors.New("request_timeout_seconds must be > 0")
	}
	if c.RetryMaxAttempts < 1 {
		return errors.New("retry_max_attempts must be >= 1")
	}
	if c.AuditRetentionDays <= 0 {
		return errors.New("audit_retention_days must be > 0")
	}
	if c.AuditSweepIntervalSeconds <= 0 {
		return errors.New("audit_sweep_interval_seconds must be > 0")
	}
	return nil
}

// RequireBaseURL fails when no service root is configured.
func (c *Config) RequireBaseURL() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url is required (set it in the config file or %s)", EnvBaseURL)
	}
	return nil
}

// EnsurePaths creates parent directories for config-managed paths.
func (c *Config) EnsurePaths() error {
	c.DBPath = ExpandPath(c.DBPath)
	parent := filepath.Dir(c.DBPath)
	if parent == "." {
		return nil
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create db parent dir: %w", err)
	}
	return nil
}

// ExpandPath expands "~/" to the current user's home directory.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p == "~" {
		return userHomeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(userHomeDir(), p[2:])
	}
	return p
}

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
