package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRateLimitConfig_Defaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, 60, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	require.Equal(t, time.Second, cfg.RefillInterval)
	require.Equal(t, 10*time.Minute, cfg.TTL)
	require.Equal(t, "ip_user", cfg.KeyStrategy)
	require.Equal(t, "rental-api:rl", cfg.Prefix)
}

func TestLoadRateLimitConfig_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_CAPACITY", "5")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "250ms")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "route")

	cfg := LoadRateLimitConfig()
	require.False(t, cfg.Enabled)
	require.Equal(t, 5, cfg.Capacity)
	require.Equal(t, 250*time.Millisecond, cfg.RefillInterval)
	require.Equal(t, "route", cfg.KeyStrategy)
}

func TestLoadRateLimitConfig_ClampsNonsense(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	// TTL gets floored to five refill cycles so idle buckets do not
	// reset between requests.
	require.Equal(t, 5*time.Minute, cfg.TTL)
}
