package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("no config file returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), DefaultConfigFile))
		require.NoError(t, err)

		assert.Equal(t, DefaultTaskFile, cfg.DefaultFile)
		assert.Equal(t, DefaultAutoload, cfg.Autoload)
		assert.Equal(t, DefaultShowTiming, cfg.ShowTiming)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
		assert.Nil(t, cfg.Color)
	})

	t.Run("full yaml config loads all values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `default_file: data/todo.yaml
autoload: true
show_timing: false
color: false
log_level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "data/todo.yaml", cfg.DefaultFile)
		assert.True(t, cfg.Autoload)
		assert.False(t, cfg.ShowTiming)
		require.NotNil(t, cfg.Color)
		assert.False(t, *cfg.Color)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("partial config merges with defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte("autoload: true\n"), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.True(t, cfg.Autoload)
		assert.Equal(t, DefaultTaskFile, cfg.DefaultFile)
		assert.Equal(t, DefaultShowTiming, cfg.ShowTiming)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	})

	t.Run("empty default_file falls back to default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte("default_file: \"\"\n"), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultTaskFile, cfg.DefaultFile)
	})

	t.Run("toml config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tm.toml")
		content := `default_file = "todo.yaml"
show_timing = false
color = true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "todo.yaml", cfg.DefaultFile)
		assert.False(t, cfg.ShowTiming)
		require.NotNil(t, cfg.Color)
		assert.True(t, *cfg.Color)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte("autoload: [\n"), 0644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("invalid toml returns error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tm.toml")
		require.NoError(t, os.WriteFile(path, []byte("autoload = \n"), 0644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("wrong type returns error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte("show_timing: sometimes\n"), 0644))

		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}
