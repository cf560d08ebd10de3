package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ALLOWED_ORIGINS", "FRONTEND_URL",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL",
		"ARK_TEMPERATURE", "ARK_TOP_P", "ARK_MAX_TOKENS", "ARK_STREAM",
		"SCORE_WEEKLY_MEETING_MAX", "LOG_LEVEL", "LOG_DEVELOPMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.InDelta(t, 0.7, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, 300, cfg.AI.MaxTokens)
	assert.True(t, cfg.AI.StreamResponse)
	assert.False(t, cfg.AI.Enabled())
	assert.Equal(t, 480, cfg.Score.MaxWeeklyMeetingTime)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:3000")
	t.Setenv("FRONTEND_URL", "http://localhost:5173")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_MODEL", "doubao-pro")
	t.Setenv("ARK_TEMPERATURE", "0.2")
	t.Setenv("ARK_MAX_TOKENS", "128")
	t.Setenv("ARK_STREAM", "false")
	t.Setenv("SCORE_WEEKLY_MEETING_MAX", "600")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:3000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.AI.Enabled())
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, 128, cfg.AI.MaxTokens)
	assert.False(t, cfg.AI.StreamResponse)
	assert.Equal(t, 600, cfg.Score.MaxWeeklyMeetingTime)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestAllowedOriginsList(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("FRONTEND_URL", "http://ignored")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                     "80 80",
		"ARK_TEMPERATURE":          "warm",
		"ARK_MAX_TOKENS":           "0",
		"ARK_STREAM":               "maybe",
		"SCORE_WEEKLY_MEETING_MAX": "-5",
		"LOG_DEVELOPMENT":          "yes please",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
