package config

import "time"

// RateLimitConfig drives the Redis token bucket in front of the API.
// Capacity is the burst a bucket holds; RefillTokens are added back
// every RefillInterval. TTL bounds how long an idle bucket survives in
// Redis. KeyStrategy selects the bucket identity (ip, user, route,
// ip_route, or the ip_user default) and Prefix namespaces the keys so
// several services can share one Redis.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables. The defaults
// suit a rental desk terminal: enough burst for a checkout-and-return
// flurry, sustained one request per second per clerk.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rental-api:rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}

	// Nonsense values are clamped rather than failing startup; the
	// limiter is a guard rail, not a reason the service cannot boot.
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// An idle bucket must outlive several refill cycles, or limits
	// quietly reset between a clerk's requests.
	if floor := 5 * cfg.RefillInterval; cfg.TTL < floor {
		cfg.TTL = floor
	}
	return cfg
}
