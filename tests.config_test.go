package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: "3000"},
		BoltDB: BoltDBConfig{FilePath: "test.flash.db", BucketName: "flashes"},
	}
}

// TestInitConfig_Defaults ensures missing optional settings get their defaults.
func TestInitConfig_Defaults(t *testing.T) {
	config := validTestConfig()
	require.NoError(t, InitConfig(config, "abc123", "v0.1.0", "2023-07-02"))

	assert.Equal(t, "abc123", config.GitCommit)
	assert.Equal(t, "v0.1.0", config.GitTag)
	assert.Equal(t, "2023-07-02", config.BuildTime)
	assert.Equal(t, "logs", config.LogFolder)
	assert.Equal(t, 10, config.LogMaxSize)
	assert.Equal(t, "http://localhost:8080", config.Backend.BaseURL)
	assert.Equal(t, "bookshelf-ui", config.Backend.UserAgent)
	assert.Equal(t, FlashDriverBolt, config.Flash.Driver)
	assert.Equal(t, 5*time.Minute, config.Flash.TTL)
	assert.Equal(t, "bookshelf.sid", config.Flash.CookieName)
}

// TestInitConfig_Errors ensures invalid settings are rejected.
func TestInitConfig_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing server port", func(c *Config) { c.Server.Port = "" }},
		{"relative backend url", func(c *Config) { c.Backend.BaseURL = "books.local" }},
		{"missing bolt bucket", func(c *Config) { c.BoltDB.BucketName = "" }},
		{"missing redis host", func(c *Config) { c.Flash.Driver = FlashDriverRedis }},
		{"unknown flash driver", func(c *Config) { c.Flash.Driver = "memcached" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := validTestConfig()
			tc.modify(config)
			assert.Error(t, InitConfig(config, "", "", ""))
		})
	}

	t.Run("redis driver", func(t *testing.T) {
		config := validTestConfig()
		config.Flash.Driver = FlashDriverRedis
		config.Redis = RedisConfig{Host: "127.0.0.1", Port: "6379"}
		assert.NoError(t, InitConfig(config, "", "", ""))
	})
}

// TestLoadConfigFile ensures the yaml settings are decoded.
func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte(`
log_level: debug
server:
  host: 0.0.0.0
  port: "8000"
  request_timeout: 15s
backend:
  base_url: http://books:8080
  timeout: 3s
flash:
  driver: redis
  ttl: 2m
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, config.LogLevel)
	assert.Equal(t, "8000", config.Server.Port)
	assert.Equal(t, 15*time.Second, config.Server.RequestTimeout)
	assert.Equal(t, "http://books:8080", config.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, config.Backend.Timeout)
	assert.Equal(t, FlashDriverRedis, config.Flash.Driver)
	assert.Equal(t, 2*time.Minute, config.Flash.TTL)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

// TestLoadConfigEnvs ensures environment variables override the file settings.
func TestLoadConfigEnvs(t *testing.T) {
	t.Setenv("BKUI_BACKEND_BASE_URL", "http://backend:9000")
	t.Setenv("BKUI_FLASH_TTL", "30s")
	t.Setenv("BKUI_OPS_ENDPOINTS_ENABLE", "true")

	config := validTestConfig()
	config.Backend.BaseURL = "http://localhost:8080"
	require.NoError(t, LoadConfigEnvs("BKUI", config))
	assert.Equal(t, "http://backend:9000", config.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, config.Flash.TTL)
	assert.True(t, config.OpsEndpointsEnable)
	assert.Equal(t, "3000", config.Server.Port)
}
