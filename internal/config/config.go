// Package config loads the fixtures tool configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/fixtures/internal/logging"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file-based configuration.
const (
	EnvEnvironment   = "FIXTURES_ENV"
	EnvDataDir       = "FIXTURES_DATA_DIR"
	EnvSchemaDir     = "FIXTURES_SCHEMA_DIR"
	EnvLogLevel      = "FIXTURES_LOG_LEVEL"
	EnvLogFormat     = "FIXTURES_LOG_FORMAT"
	EnvServerAddr    = "FIXTURES_SERVER_ADDR"
	EnvRedisAddr     = "FIXTURES_REDIS_ADDR"
	EnvRedisPassword = "FIXTURES_REDIS_PASSWORD"
	EnvRedisDB       = "FIXTURES_REDIS_DB"
	EnvRedisKey      = "FIXTURES_REDIS_KEY"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "fixtures.yaml"

// Config is the tool configuration.
type Config struct {
	Env       string       `yaml:"environment"`
	DataDir   string       `yaml:"data_dir"`
	SchemaDir string       `yaml:"schema_dir"`
	Log       LogConfig    `yaml:"log"`
	Server    ServerConfig `yaml:"server"`
	Redis     RedisConfig  `yaml:"redis"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ServerConfig controls the HTTP read API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RedisConfig enables the shared cache tier when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`

	// EncryptionKey is a base64 AES-256 key. When set, cached documents are
	// sealed before they reach Redis.
	EncryptionKey string `yaml:"encryption_key,omitempty"`
}

// Environment implements ports.EnvironmentProvider.
func (c *Config) Environment() string {
	return c.Env
}

// Load reads a YAML config file, expands ${VAR} references, applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(&cfg)
}

// LoadFromEnv creates configuration from environment variables and defaults only.
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

// LoadWithFallback loads path when it exists and falls back to LoadFromEnv otherwise.
// An empty path means DefaultFile.
func LoadWithFallback(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadFromEnv()
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}
	return Load(path)
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies FIXTURES_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvEnvironment); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvSchemaDir); v != "" {
		cfg.SchemaDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv(EnvRedisKey); v != "" {
		cfg.Redis.EncryptionKey = v
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "test_data"
	}
	if cfg.SchemaDir == "" {
		cfg.SchemaDir = filepath.Join(cfg.DataDir, "schemas")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "fixtures:cache:"
	}
}

func validate(cfg *Config) error {
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("redis db must be non-negative, got %d", cfg.Redis.DB)
	}
	if cfg.Redis.TTL < 0 {
		return fmt.Errorf("redis ttl must be non-negative, got %s", cfg.Redis.TTL)
	}
	return nil
}

// Logger builds the process logger described by the config. Output goes to stderr.
func (c *Config) Logger() *slog.Logger {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if strings.EqualFold(c.Log.Format, "json") {
		return logging.NewJSON(os.Stderr, level)
	}
	return logging.New(level)
}
