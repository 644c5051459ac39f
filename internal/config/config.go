// Package config loads memory-gate settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// ValidBackends lists the supported storage backends.
var ValidBackends = []string{BackendMemory, BackendSQLite, BackendFile}

// Config holds all settings.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects and locates the backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite, file
	DBPath  string `yaml:"db_path"` // sqlite only
	Dir     string `yaml:"dir"`     // file only
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".memory-gate")
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  filepath.Join(base, "memory.db"),
			Dir:     filepath.Join(base, "data"),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads path if it exists and applies environment overrides. An empty
// path or a missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MEMORY_GATE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("MEMORY_GATE_DB"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("MEMORY_GATE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("MEMORY_GATE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks that the selected backend is known and located.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return fmt.Errorf("sqlite backend requires storage.db_path")
		}
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("file backend requires storage.dir")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (valid: %v)", c.Storage.Backend, ValidBackends)
	}
	return nil
}
