package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults apply when nothing is set", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("FRONTEND_URL", "")
		t.Setenv("ALLOWED_ORIGINS", "")
		t.Setenv("CLEANUP_SCHEDULE", "")
		t.Setenv("FINISHED_SESSION_TTL_MINUTES", "")

		cfg := LoadConfig()

		assert.Equal(t, "8080", cfg.Port)
		assert.Empty(t, cfg.DatabaseURL)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
		assert.Equal(t, "@hourly", cfg.CleanupSchedule)
		assert.Equal(t, time.Hour, cfg.FinishedSessionTTL)
	})

	t.Run("Allowed origins are appended to the frontend URL", func(t *testing.T) {
		t.Setenv("FRONTEND_URL", "https://play.example.com")
		t.Setenv("ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

		cfg := LoadConfig()

		assert.Equal(t, []string{
			"https://play.example.com",
			"https://a.example.com",
			"https://b.example.com",
		}, cfg.AllowedOrigins)
	})

	t.Run("Durations are read in their unit", func(t *testing.T) {
		t.Setenv("REPLAY_CACHE_TTL_SECONDS", "90")
		t.Setenv("SESSION_IDLE_TTL_MINUTES", "15")

		cfg := LoadConfig()

		assert.Equal(t, 90*time.Second, cfg.ReplayCacheTTL)
		assert.Equal(t, 15*time.Minute, cfg.SessionIdleTTL)
	})
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("C4_TEST_INT", "not-a-number")
	assert.Equal(t, 7, GetEnvAsInt("C4_TEST_INT", 7))

	t.Setenv("C4_TEST_INT", "12")
	assert.Equal(t, 12, GetEnvAsInt("C4_TEST_INT", 7))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("C4_TEST_DURATION", "0")
	assert.Equal(t, time.Minute, GetEnvAsDuration("C4_TEST_DURATION", time.Minute, time.Second))

	t.Setenv("C4_TEST_DURATION", "3")
	assert.Equal(t, 3*time.Second, GetEnvAsDuration("C4_TEST_DURATION", time.Minute, time.Second))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	logger, err = NewLogger("development", "bogus")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}
