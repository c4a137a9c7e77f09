// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for kinship configuration.
	DefaultConfigDir = ".kinship"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite file name inside the config directory.
	DefaultDatabaseFile = "kinship.db"
)

// Lock backends.
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	SQLite    SQLiteConfig    `yaml:"sqlite,omitempty"`
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`
	Worker    WorkerConfig    `yaml:"worker,omitempty"`
	Lock      LockConfig      `yaml:"lock,omitempty"`
	Redis     RedisConfig     `yaml:"redis,omitempty"`
	Log       LogConfig       `yaml:"log,omitempty"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database. Empty means
	// .kinship/kinship.db under the base path.
	Path string `yaml:"path,omitempty"`
}

// SchedulerConfig holds suggestion scheduling parameters.
type SchedulerConfig struct {
	NewMemberDelay time.Duration `yaml:"new_member_delay,omitempty"`
	AddedByDelay   time.Duration `yaml:"added_by_delay,omitempty"`
	Retention      time.Duration `yaml:"retention,omitempty"`
	Limit          int           `yaml:"limit,omitempty"`
}

// WorkerConfig holds configuration for the background task runtime.
type WorkerConfig struct {
	Concurrency int           `yaml:"concurrency,omitempty"`
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
	RetryDelay  time.Duration `yaml:"retry_delay,omitempty"`
}

// LockConfig holds configuration for per-subject locking.
type LockConfig struct {
	Backend       string        `yaml:"backend,omitempty"`
	TTL           time.Duration `yaml:"ttl,omitempty"`
	RetryInterval time.Duration `yaml:"retry_interval,omitempty"`
	WaitTimeout   time.Duration `yaml:"wait_timeout,omitempty"`
}

// RedisConfig holds configuration for the Redis connection.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// MetricsConfig holds metrics output configuration.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics in Prometheus text format
	// after each command (node-exporter textfile collector).
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			NewMemberDelay: 5 * time.Second,
			AddedByDelay:   10 * time.Second,
			Retention:      7 * 24 * time.Hour,
			Limit:          5,
		},
		Worker: WorkerConfig{
			Concurrency: 4,
			MaxAttempts: 3,
			RetryDelay:  2 * time.Second,
		},
		Lock: LockConfig{
			Backend:       LockBackendMemory,
			TTL:           30 * time.Second,
			RetryInterval: 100 * time.Millisecond,
			WaitTimeout:   10 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Load loads configuration from the .kinship directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'kinship init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DatabasePath(basePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would make the pipeline misbehave.
func (c *Config) Validate() error {
	switch c.Lock.Backend {
	case LockBackendMemory, LockBackendRedis:
	default:
		return fmt.Errorf("invalid lock backend %q (valid: memory, redis)", c.Lock.Backend)
	}
	if c.Scheduler.Limit < 1 {
		return fmt.Errorf("scheduler.limit must be positive, got %d", c.Scheduler.Limit)
	}
	if c.Scheduler.Retention <= 0 {
		return fmt.Errorf("scheduler.retention must be positive, got %s", c.Scheduler.Retention)
	}
	if c.Scheduler.NewMemberDelay < 0 || c.Scheduler.AddedByDelay < 0 {
		return fmt.Errorf("scheduler delays must not be negative")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("worker.concurrency must be positive, got %d", c.Worker.Concurrency)
	}
	if c.Worker.MaxAttempts < 1 {
		return fmt.Errorf("worker.max_attempts must be positive, got %d", c.Worker.MaxAttempts)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("KINSHIP_REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if pw := os.Getenv("KINSHIP_REDIS_PASSWORD"); pw != "" && c.Redis.Password == "" {
		c.Redis.Password = pw
	}
	if level := os.Getenv("KINSHIP_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// ConfigDir returns the path to the .kinship config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// DatabasePath returns the default SQLite database path.
func DatabasePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}
