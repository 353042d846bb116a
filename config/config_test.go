package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("UPSTASH_REDIS_URL", "")
	t.Setenv("USAGE_STORE", "")
	t.Setenv("ATS_FREE_TIER_LIMIT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, UsageStoreMemory, cfg.UsageStore)
	assert.Equal(t, 5, cfg.ATSFreeTierLimit)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("UPSTASH_REDIS_URL", "redis://localhost:6379")
	t.Setenv("USAGE_STORE", "")
	t.Setenv("ATS_FREE_TIER_LIMIT", "10")
	t.Setenv("RATE_LIMIT_FAIL_CLOSED", "true")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://app.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, UsageStoreRedis, cfg.UsageStore)
	assert.Equal(t, 10, cfg.ATSFreeTierLimit)
	assert.True(t, cfg.RateLimitFailClosed)
	assert.Equal(t, []string{"https://app.example.com", "https://a.example.com"}, cfg.AllowedOrigins())
}

func TestLoadConfig_InvalidLimitFallsBack(t *testing.T) {
	t.Setenv("ATS_FREE_TIER_LIMIT", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ATSFreeTierLimit)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 7, getEnvInt("X_INT", 7))
	assert.False(t, getEnvBool("X_BOOL", false))
	assert.Nil(t, getEnvList("X_MISSING_LIST"))
}
