package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/anthanhphan/go-secure-file-storage/internal/policy"
	"github.com/anthanhphan/gosdk/conflux"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ClockSystem = "system"
	ClockRedis  = "redis"
)

// Config holds the file service configuration. It is built once at startup
// and never mutated afterwards.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Clock   ClockConfig   `json:"clock" yaml:"clock"`
	Redis   RedisConfig   `json:"redis" yaml:"redis"`
	Logger  logger.Config `json:"logger" yaml:"logger"`
}

type ServerConfig struct {
	Addr           string `json:"addr" yaml:"addr" env:"SERVER_ADDR"`
	ReadTimeoutMS  int    `json:"read_timeout_ms" yaml:"read_timeout_ms" env:"SERVER_READ_TIMEOUT_MS"`
	WriteTimeoutMS int    `json:"write_timeout_ms" yaml:"write_timeout_ms" env:"SERVER_WRITE_TIMEOUT_MS"`
}

type StorageConfig struct {
	RootDir           string   `json:"root_dir" yaml:"root_dir" env:"UPLOAD_FOLDER"`
	MaxFileSize       int64    `json:"max_file_size" yaml:"max_file_size" env:"MAX_FILE_SIZE"`
	AllowedExtensions []string `json:"allowed_extensions" yaml:"allowed_extensions" env:"ALLOWED_EXTENSIONS" envSeparator:","`
	FSync             bool     `json:"fsync" yaml:"fsync" env:"STORAGE_FSYNC"`
	ListWorkers       int      `json:"list_workers" yaml:"list_workers" env:"STORAGE_LIST_WORKERS"`
}

type ClockConfig struct {
	Source         string `json:"source" yaml:"source" env:"CLOCK_SOURCE"` // "system", "redis"
	RedisTimeoutMS int    `json:"redis_timeout_ms" yaml:"redis_timeout_ms" env:"CLOCK_REDIS_TIMEOUT_MS"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" env:"REDIS_ADDR"`
	Password string `json:"password" yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `json:"db" yaml:"db" env:"REDIS_DB"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":5000",
			ReadTimeoutMS:  30000,
			WriteTimeoutMS: 30000,
		},
		Storage: StorageConfig{
			RootDir:           "uploads",
			MaxFileSize:       5 * 1024 * 1024, // 5MB
			AllowedExtensions: append([]string(nil), policy.DefaultAllowed...),
			FSync:             true,
			ListWorkers:       4,
		},
		Clock: ClockConfig{
			Source:         ClockSystem,
			RedisTimeoutMS: 200,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Logger: logger.Config{
			LogLevel:    logger.LevelInfo,
			LogEncoding: logger.EncodingJSON,
		},
	}
}

// Load reads the config file, then overlays a .env file and environment variables.
func Load(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = "local"
		}
		configPath = filepath.Join("internal", "config", env+".yaml")
	}

	cfg := DefaultConfig()

	parsedCfg, err := conflux.ParseConfig(configPath, cfg)
	if err != nil {
		// The logger is not initialized yet.
		log.Printf("Config file not found or failed to parse, using defaults if file not specified. Path: %s, Error: %v", configPath, err)
		if path != "" {
			return nil, err
		}
		parsedCfg = cfg
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := env.Parse(parsedCfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := parsedCfg.Validate(); err != nil {
		return nil, err
	}
	return parsedCfg, nil
}

// MustLoad loads configuration or exits on error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Storage.RootDir == "" {
		return errors.New("storage.root_dir is required")
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("storage.max_file_size must be positive, got %d", c.Storage.MaxFileSize)
	}
	if len(policy.New(c.Storage.AllowedExtensions).Allowed()) == 0 {
		return errors.New("storage.allowed_extensions must not be empty")
	}
	switch c.Clock.Source {
	case ClockSystem:
	case ClockRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required when clock.source is redis")
		}
	default:
		return fmt.Errorf("unknown clock.source %q", c.Clock.Source)
	}
	return nil
}

// Workers returns the listing fan-out with a safe default.
func (c StorageConfig) Workers() int {
	if c.ListWorkers > 0 {
		return c.ListWorkers
	}
	return 4
}
