package ioc

import (
	"time"

	"github.com/gotomicro/ego/core/econf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"campaign-dispatcher/internal/pkg/idempotent"
	"campaign-dispatcher/internal/pkg/ratelimit"
)

func InitLimiterConfig() ratelimit.Config {
	cfg := ratelimit.DefaultConfig()
	if err := econf.UnmarshalKey("ratelimit", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

func InitLimiter(client *redis.Client, cfg ratelimit.Config, reg prometheus.Registerer) ratelimit.Limiter {
	return ratelimit.NewMetricsLimiter(ratelimit.NewRedisTokenBucketLimiter(client, cfg), reg)
}

func InitIdempotencyService(client *redis.Client) idempotent.IdempotencyService {
	expiry := econf.GetDuration("idempotency.expiry")
	if expiry <= 0 {
		expiry = 48 * time.Hour
	}
	return idempotent.NewRedisIdempotencyService(client, expiry)
}
