package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/sacsbot/internal/calc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_DEBUG", "TELEGRAM_POLL_TIMEOUT", "PORT", "ADMIN_TOKEN",
	"LOG_LEVEL", "LOG_FORMAT", "SESSION_BACKEND", "SESSION_TTL", "MONGO_URI", "MONGO_DB",
	"RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "LINES_MIN", "LINES_MAX", "BAGS_MIN", "BAGS_MAX",
}

// clearEnv unsets config variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 60, c.PollTimeout)
	assert.Equal(t, "memory", c.SessionBackend)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, calc.DefaultLimits(), c.Limits())
	assert.ErrorIs(t, c.RequireToken(), ErrMissingToken)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_RPM", "123")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_BACKEND", "mongo")
	t.Setenv("BAGS_MAX", "17")
	t.Setenv("LOG_FORMAT", "json")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, 123, c.RateLimitRPM)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, "mongo", c.SessionBackend)
	assert.Equal(t, calc.Range{Min: 1, Max: 17}, c.Limits().Bags)
	assert.NoError(t, c.RequireToken())
}

func TestLoad_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name, key, value string
	}{
		{"unknown backend", "SESSION_BACKEND", "redis"},
		{"lines max below min", "LINES_MAX", "0"},
		{"lines max above 17", "LINES_MAX", "18"},
		{"lines max huge", "LINES_MAX", "9223372036854775807"},
		{"lines min above 17", "LINES_MIN", "18"},
		{"bags min zero", "BAGS_MIN", "0"},
		{"bags max above 100", "BAGS_MAX", "101"},
		{"log format", "LOG_FORMAT", "xml"},
		{"port", "PORT", "http"},
		{"rpm", "RATE_LIMIT_RPM", "not-a-number"},
		{"burst zero", "RATE_LIMIT_BURST", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TELEGRAM_BOT_TOKEN=from-file\nBAGS_MAX=12\n"), 0o600))
	t.Setenv("BAGS_MAX", "11")
	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("TELEGRAM_BOT_TOKEN") })

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", c.TelegramToken)
	assert.Equal(t, 11, c.BagsMax, "environment wins over file")
}
