package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Kinship Configuration

sqlite:
  # path: /var/lib/kinship/kinship.db (defaults to .kinship/kinship.db)

scheduler:
  new_member_delay: 5s
  added_by_delay: 10s
  retention: 168h
  limit: 5

worker:
  concurrency: 4
  max_attempts: 3
  retry_delay: 2s

lock:
  backend: memory # or redis, for several instances sharing a database
  ttl: 30s
  retry_interval: 100ms
  wait_timeout: 10s

redis:
  addr: localhost:6379
  # password: secret (or set KINSHIP_REDIS_PASSWORD env var)

log:
  level: info # or set KINSHIP_LOG_LEVEL env var
  format: console
  output: stderr

metrics:
  # textfile: /var/lib/node_exporter/kinship.prom
`

// WriteDefault creates the .kinship directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Exists checks if a kinship config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
