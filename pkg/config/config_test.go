package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DIRECTORY_TRANSPORT", "")
	t.Setenv("STORAGE_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportSheets, cfg.Directory.Transport)
	assert.False(t, cfg.Directory.UsesProxy())
	assert.Equal(t, 10*time.Second, cfg.Directory.Timeout)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "cm_bookings_v1", cfg.Storage.BookingsKey)
	assert.Equal(t, 30, cfg.Booking.WindowDays)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr())
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("DIRECTORY_TRANSPORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://chikitsamitra.in ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://chikitsamitra.in"}, cfg.Server.AllowedOrigins)
}

func TestLoad_ProxyTransport(t *testing.T) {
	t.Setenv("DIRECTORY_TRANSPORT", "PROXY")
	t.Setenv("PROXY_BASE_URL", "http://proxy.local:5000")
	t.Setenv("DIRECTORY_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Directory.UsesProxy())
	assert.Equal(t, "http://proxy.local:5000", cfg.Directory.ProxyBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Directory.Timeout)
}

func TestLoad_RejectsUnknownTransport(t *testing.T) {
	t.Setenv("DIRECTORY_TRANSPORT", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown DIRECTORY_TRANSPORT")
}

func TestLoad_RejectsUnknownStorageBackend(t *testing.T) {
	t.Setenv("DIRECTORY_TRANSPORT", "")
	t.Setenv("STORAGE_BACKEND", "floppy")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORAGE_BACKEND")
}

func TestLoad_RedisBackendEnablesRedis(t *testing.T) {
	t.Setenv("DIRECTORY_TRANSPORT", "")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled)
}

func TestValidate_RejectsMalformedSheetsURL(t *testing.T) {
	cfg := &Config{
		Directory: DirectoryConfig{Transport: TransportSheets, SheetsExecURL: "not a url"},
		Storage:   StorageConfig{Backend: StorageRedis, BookingsKey: "cm_bookings_v1"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Directory.SheetsExecURL = ""
	assert.NoError(t, cfg.Validate())
}

func TestTrustedProxyPrefixes(t *testing.T) {
	t.Setenv("DIRECTORY_TRANSPORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1,::1")

	cfg, err := Load()
	require.NoError(t, err)

	prefixes, err := cfg.Server.TrustedProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "127.0.0.1/32", prefixes[1].String())
	assert.Equal(t, "::1/128", prefixes[2].String())

	cfg.Server.TrustedProxies = []string{"proxy.internal"}
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "cm", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cm sslmode=disable", cfg.DatabaseDSN())
}
