package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
feature: counter
store:
  backend: redis
  ttl: 1h
  redis:
    addr: redis:6379
    db: 2
runtime:
  tick_interval: 250ms
fact:
  offline: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "counter", cfg.Feature)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 250*time.Millisecond, cfg.Runtime.TickInterval)
	assert.True(t, cfg.Fact.Offline)

	// Untouched keys keep their defaults.
	assert.Equal(t, "vine:session:", cfg.Store.Prefix)
	assert.Equal(t, 3, cfg.Fact.Attempts)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "featur: counter\n"))
	assert.ErrorContains(t, err, "featur")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvEncryptionKey, "from-env")
	t.Setenv(EnvRedisPassword, "hunter2")

	cfg, err := Load(writeConfig(t, "store:\n  encryption_key: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Store.EncryptionKey)
	assert.Equal(t, "hunter2", cfg.Store.Redis.Password)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Feature = "todo"
	cfg.Store.Backend = "s3"
	cfg.Fact.Attempts = 0
	cfg.Store.MaskFields = []string{"(email"}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{`feature "todo"`, `store.backend "s3"`, "fact.attempts 0", "store.mask_fields"} {
		assert.True(t, strings.Contains(msg, want), "missing %q in %q", want, msg)
	}

	assert.NoError(t, Default().Validate())
}
