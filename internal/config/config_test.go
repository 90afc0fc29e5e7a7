package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults apply to keys missing from the file", func(t *testing.T) {
		// Given: a config file that only sets the log level
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("log-level: debug\n"), 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: the rest falls back to the defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 500*time.Millisecond, conf.Game.ComputerDelay)
		assert.Equal(t, 24*time.Hour, conf.Game.SessionTTL)
		assert.False(t, conf.Game.KeepScoreOnModeChange)
	})

	t.Run("File values are read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "storage: redis\nredis:\n  host: cache\n  port: \"6380\"\ngame:\n  computer-delay: 1s\n  keep-score-on-mode-change: true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Second, conf.Game.ComputerDelay)
		assert.True(t, conf.Game.KeepScoreOnModeChange)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("http-port: \"8000\"\n"), 0o600))
		t.Setenv("HTTP_PORT", "8001")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "8001", conf.HTTPPort)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yml")) })
	})
}
