package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "@daily", cfg.Cleanup.Cron)
	assert.Equal(t, 7*24*time.Hour, cfg.Cleanup.Retention)
	assert.False(t, cfg.Recommendation.Dedup)
}

func TestLoadConfigFrom_YAMLKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"9090\"\nrecommendation:\n  dedup: true\n  cacheTTL: 1m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := LoadConfigFrom(path)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Recommendation.Dedup)
	assert.Equal(t, time.Minute, cfg.Recommendation.CacheTTL)
	// 未配置的字段保持默认
	assert.Equal(t, "gamehub", cfg.JWT.Issuer)
	assert.Equal(t, 30*time.Second, cfg.WebSocket.PingInterval)
}

func TestLoadConfigFrom_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o644))

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("CLEANUP_RETENTION", "48h")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("UPLOAD_DIR", "/var/gamehub/images")

	cfg := LoadConfigFrom(path)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 48*time.Hour, cfg.Cleanup.Retention)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "/var/gamehub/images", cfg.Upload.Dir)
}

func TestValidate(t *testing.T) {
	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, cfg.Validate())

	cfg.JWT.Secret = ""
	cfg.Upload.URLPrefix = "images"
	cfg.RateLimit.Burst = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.Contains(t, err.Error(), "upload.urlPrefix")
	assert.Contains(t, err.Error(), "rateLimit")
}
