package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_BASE_URL", "LISTEN_ADDR", "SESSION_SECRET", "TLS_CERT_FILE",
		"TLS_KEY_FILE", "ALLOW_INSECURE_HTTP", "POLL_INTERVAL",
		"SLOW_QUERY_LIMIT", "LOG_LEVEL", "ENV", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 500, cfg.SlowQueryLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.NotEmpty(t, cfg.Warnings, "insecure defaults should warn")
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.querypulse.dev")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("POLL_INTERVAL", "2m")
	t.Setenv("SLOW_QUERY_LIMIT", "100")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.querypulse.dev", cfg.APIBaseURL)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 2*time.Minute, cfg.PollInterval)
	assert.Equal(t, 100, cfg.SlowQueryLimit)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnvBadPollInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLL_INTERVAL", "every-so-often")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
}

func TestLoadFromEnvTLSPairRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("TLS_CERT_FILE", "/tmp/cert.pem")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestProductionRejectsInsecureDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://console.querypulse.dev")
	t.Setenv("ALLOW_INSECURE_HTTP", "true")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestProductionRejectsCORSWildcard(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "real-secret")
	t.Setenv("ALLOW_INSECURE_HTTP", "true")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS")
}

func TestProductionRequiresTLSUnlessAllowed(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "real-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://console.querypulse.dev")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TLS_CERT_FILE")

	t.Setenv("ALLOW_INSECURE_HTTP", "true")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), "level %q", in)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nAPI_BASE_URL=https://from-file.example\nLOG_LEVEL=\"debug\"\n\nBROKEN LINE\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("LOG_LEVEL", "error") // pre-set env wins over the file

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "https://from-file.example", os.Getenv("API_BASE_URL"))
	assert.Equal(t, "error", os.Getenv("LOG_LEVEL"))
}

func TestLoadDotEnvMissingFileIsFine(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
