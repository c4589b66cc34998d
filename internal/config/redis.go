package config

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the Redis client used by the rate limiter and
// the catalog response cache.  Connection parameters come from the
// environment:
//
//	REDIS_ADDR          host:port (default localhost:6379)
//	REDIS_HOST/PORT     alternative to REDIS_ADDR, wins when both set
//	REDIS_PASSWORD      optional
//	REDIS_DB            database number
//	REDIS_TLS           enable TLS when truthy
//
// When the ping fails nil is returned and the limiter and cache run as
// pass-through middleware; the server never refuses to start over a
// missing Redis.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host := envStr("REDIS_HOST", ""); host != "" {
		addr = host + ":" + envStr("REDIS_PORT", "6379")
	}

	opts := &redis.Options{
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable at %s, rate limiting and caching disabled: %v", addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
