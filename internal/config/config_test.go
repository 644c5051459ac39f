package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"MEMORY_GATE_BACKEND", "MEMORY_GATE_DB", "MEMORY_GATE_DIR", "MEMORY_GATE_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "memory.db", filepath.Base(cfg.Storage.DBPath))
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: file\n  dir: /tmp/gate\nlogging:\n  level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/gate", cfg.Storage.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset keys keep defaults")
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("env beats file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: file\n"), 0644))
		t.Setenv("MEMORY_GATE_BACKEND", "memory")
		t.Setenv("MEMORY_GATE_LOG_LEVEL", "error")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, BackendMemory, cfg.Storage.Backend)
		assert.Equal(t, "error", cfg.Logging.Level)
	})

	t.Run("paths", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEMORY_GATE_DB", "/data/gate.db")
		t.Setenv("MEMORY_GATE_DIR", "/data/owners")

		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "/data/gate.db", cfg.Storage.DBPath)
		assert.Equal(t, "/data/owners", cfg.Storage.Dir)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		storage StorageConfig
		wantErr bool
	}{
		{"memory", StorageConfig{Backend: BackendMemory}, false},
		{"sqlite", StorageConfig{Backend: BackendSQLite, DBPath: "x.db"}, false},
		{"sqlite without path", StorageConfig{Backend: BackendSQLite}, true},
		{"file without dir", StorageConfig{Backend: BackendFile}, true},
		{"unknown", StorageConfig{Backend: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{Storage: tt.storage}).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendFile

	require.NoError(t, cfg.Save(path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
