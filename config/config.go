// Package config provides CLI configuration management for the mins
// command-line tool. It supports loading configuration from a YAML file and
// environment variables, with later sources overriding earlier ones.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minutedesk/mins-cli/pkg/live"
	"github.com/minutedesk/mins-cli/pkg/store"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultOutputFormat = OutputFormatText
	DefaultConfigDir    = ".mins"
	DefaultConfigFile   = "config.yaml"

	// DefaultRestartDelay is the debounce before restarting a dictation
	// engine that ended on its own.
	DefaultRestartDelay = 500 * time.Millisecond
)

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`

	// RestartDelay is the engine restart debounce during recording.
	RestartDelay time.Duration `yaml:"-"`

	// SessionLogDir, when set, receives a per-session audit log file for
	// each recording session. Supports ~ expansion.
	SessionLogDir string `yaml:"session_log_dir,omitempty"`

	// DatabaseURL short-circuits the structured database config when set.
	// Environment-only (DATABASE_URL); never written to the config file.
	DatabaseURL string `yaml:"-"`

	// Database holds PostgreSQL connection settings.
	Database *store.Config `yaml:"database,omitempty"`

	// Redis holds live snapshot publishing settings.
	Redis *live.Config `yaml:"redis,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		OutputFormat: DefaultOutputFormat,
		RestartDelay: DefaultRestartDelay,
		Database:     store.DefaultConfig(),
		Redis:        live.DefaultConfig(),
	}
}

// ConfigDir returns the configuration directory path.
// Uses $MINS_CONFIG_DIR if set, otherwise ~/.mins
func ConfigDir() (string, error) {
	if dir := os.Getenv("MINS_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.mins/config.yaml or $MINS_CONFIG_DIR/config.yaml)
// 3. Environment variables (MINS_OUTPUT_FORMAT, MINS_DB_HOST, DATABASE_URL, ...)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// fileDatabase mirrors the database section with YAML-friendly types.
type fileDatabase struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

// fileRedis mirrors the redis section with durations as strings.
type fileRedis struct {
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`
	Channel string `yaml:"channel"`
	TTL     string `yaml:"ttl"`
}

// configFile is the on-disk schema, with durations as strings.
type configFile struct {
	OutputFormat  OutputFormat  `yaml:"output_format"`
	Debug         bool          `yaml:"debug"`
	RestartDelay  string        `yaml:"restart_delay"`
	SessionLogDir string        `yaml:"session_log_dir"`
	Database      *fileDatabase `yaml:"database"`
	Redis         *fileRedis    `yaml:"redis"`
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	cfg.Debug = fileCfg.Debug
	if fileCfg.RestartDelay != "" {
		delay, err := time.ParseDuration(fileCfg.RestartDelay)
		if err != nil {
			return fmt.Errorf("parsing restart_delay: %w", err)
		}
		cfg.RestartDelay = delay
	}
	if fileCfg.SessionLogDir != "" {
		cfg.SessionLogDir = fileCfg.SessionLogDir
	}

	if db := fileCfg.Database; db != nil {
		if db.Host != "" {
			cfg.Database.Host = db.Host
		}
		if db.Port != 0 {
			cfg.Database.Port = db.Port
		}
		if db.Name != "" {
			cfg.Database.Database = db.Name
		}
		if db.User != "" {
			cfg.Database.User = db.User
		}
		if db.SSLMode != "" {
			cfg.Database.SSLMode = db.SSLMode
		}
		if db.MaxConns != 0 {
			cfg.Database.MaxConns = db.MaxConns
		}
		if db.MinConns != 0 {
			cfg.Database.MinConns = db.MinConns
		}
	}

	if r := fileCfg.Redis; r != nil {
		if r.Addr != "" {
			cfg.Redis.Addr = r.Addr
		}
		if r.DB != 0 {
			cfg.Redis.DB = r.DB
		}
		if r.Channel != "" {
			cfg.Redis.Channel = r.Channel
		}
		if r.TTL != "" {
			ttl, err := time.ParseDuration(r.TTL)
			if err != nil {
				return fmt.Errorf("parsing redis ttl: %w", err)
			}
			cfg.Redis.TTL = ttl
		}
	}

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("MINS_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("MINS_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if v := os.Getenv("MINS_RESTART_DELAY"); v != "" {
		if delay, err := time.ParseDuration(v); err == nil {
			cfg.RestartDelay = delay
		}
	}

	if v := os.Getenv("MINS_SESSION_LOG_DIR"); v != "" {
		cfg.SessionLogDir = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	// Database environment variables.
	if v := os.Getenv("MINS_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MINS_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("MINS_DB_NAME"); v != "" {
		cfg.Database.Database = v
	}
	if v := os.Getenv("MINS_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("MINS_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MINS_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}

	// Redis environment variables.
	if v := os.Getenv("MINS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("MINS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("MINS_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("MINS_REDIS_CHANNEL"); v != "" {
		cfg.Redis.Channel = v
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	if c.RestartDelay <= 0 {
		return fmt.Errorf("restart delay must be positive")
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	fileCfg := configFile{
		OutputFormat:  cfg.OutputFormat,
		Debug:         cfg.Debug,
		RestartDelay:  cfg.RestartDelay.String(),
		SessionLogDir: cfg.SessionLogDir,
	}
	if cfg.Database != nil {
		fileCfg.Database = &fileDatabase{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Name:     cfg.Database.Database,
			User:     cfg.Database.User,
			SSLMode:  cfg.Database.SSLMode,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		}
	}
	if cfg.Redis != nil {
		fileCfg.Redis = &fileRedis{
			Addr:    cfg.Redis.Addr,
			DB:      cfg.Redis.DB,
			Channel: cfg.Redis.Channel,
			TTL:     cfg.Redis.TTL.String(),
		}
	}

	data, err := yaml.Marshal(&fileCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
