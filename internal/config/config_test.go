package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every AZDOPANEL_ env var that Load() reads.
var allConfigKeys = []string{
	"AZDOPANEL_ORG_URL",
	"AZDOPANEL_TOKEN",
	"AZDOPANEL_PROJECT",
	"AZDOPANEL_REPO",
	"AZDOPANEL_LISTEN_ADDR",
	"AZDOPANEL_DB_PATH",
	"AZDOPANEL_REQUEST_TIMEOUT",
	"AZDOPANEL_SECRET_KEY",
}

// isolateConfigEnv saves and unsets all AZDOPANEL_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("AZDOPANEL_ORG_URL", "https://dev.azure.com/contoso")
	t.Setenv("AZDOPANEL_TOKEN", "pat-test123")
	t.Setenv("AZDOPANEL_PROJECT", "platform")
	t.Setenv("AZDOPANEL_REPO", "frontend")
	t.Setenv("AZDOPANEL_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("AZDOPANEL_DB_PATH", "/tmp/test.db")
	t.Setenv("AZDOPANEL_REQUEST_TIMEOUT", "30s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://dev.azure.com/contoso", cfg.OrgURL)
	assert.Equal(t, "pat-test123", cfg.Token)
	assert.Equal(t, "platform", cfg.Project)
	assert.Equal(t, "frontend", cfg.Repository)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.HasConnection())
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "azdopanel.db", cfg.DBPath)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

// A missing connection is not an error; the app starts unconfigured and the
// identifiers can come from the settings store.
func TestLoad_MissingConnection(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("AZDOPANEL_ORG_URL", "https://dev.azure.com/contoso")

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.HasConnection())
}

func TestLoad_InvalidTimeout(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("AZDOPANEL_REQUEST_TIMEOUT", "not-a-duration")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZDOPANEL_REQUEST_TIMEOUT")
}

func TestLoad_NegativeTimeout(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("AZDOPANEL_REQUEST_TIMEOUT", "-5s")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")
}

func TestLoad_SecretKey_Absent(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Nil(t, cfg.SecretKey)
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	isolateConfigEnv(t)
	// 64 hex chars = 32 bytes
	t.Setenv("AZDOPANEL_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_SecretKey_TooShort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("AZDOPANEL_SECRET_KEY", "deadbeef")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZDOPANEL_SECRET_KEY")
}

func TestLoad_SecretKey_NotHex(t *testing.T) {
	isolateConfigEnv(t)
	// 64 chars but not valid hex
	t.Setenv("AZDOPANEL_SECRET_KEY", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZDOPANEL_SECRET_KEY")
}
