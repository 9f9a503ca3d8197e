package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	assert.Equal(t, `.*`, cfg.Sync.Patterns)
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Zero(t, cfg.Performance.Workers)
	assert.False(t, cfg.Sync.DryRun)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, NewDefault(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
sync:
  source: /data/src
  target: /data/dst
  patterns: '\.txt$;\.log$'
performance:
  workers: 8
logging:
  quiet: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/src", cfg.Sync.Source)
	assert.Equal(t, `\.txt$;\.log$`, cfg.Sync.Patterns)
	assert.Equal(t, 8, cfg.Performance.Workers)
	assert.True(t, cfg.Logging.Quiet)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("sync: ["), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := NewDefault()
		cfg.Sync.Source = "/src"
		cfg.Sync.Target = "/dst"
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	t.Run("blank source", func(t *testing.T) {
		cfg := valid()
		cfg.Sync.Source = "  "
		require.Error(t, cfg.Validate())
	})

	t.Run("blank target", func(t *testing.T) {
		cfg := valid()
		cfg.Sync.Target = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("blank patterns", func(t *testing.T) {
		cfg := valid()
		cfg.Sync.Patterns = " "
		require.Error(t, cfg.Validate())
	})

	t.Run("negative retries", func(t *testing.T) {
		cfg := valid()
		cfg.Sync.MaxRetries = -1
		require.Error(t, cfg.Validate())
	})

	t.Run("negative workers", func(t *testing.T) {
		cfg := valid()
		cfg.Performance.Workers = -2
		require.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "verbose"
		require.Error(t, cfg.Validate())
	})
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", ConfigFileName)
	require.NoError(t, WriteTemplate(path))

	// The template must parse back into the default configuration.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, `.*`, cfg.Sync.Patterns)
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.Equal(t, "info", cfg.Logging.Level)

	// A second write must refuse to overwrite.
	err = WriteTemplate(path)
	require.ErrorIs(t, err, ErrExists)
}
