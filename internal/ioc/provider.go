package ioc

import (
	"time"

	"github.com/go-kratos/aegis/circuitbreaker/sre"
	"github.com/gotomicro/ego/core/econf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"campaign-dispatcher/internal/pkg/ratelimit"
	"campaign-dispatcher/internal/service/provider"
	"campaign-dispatcher/internal/service/provider/circuitbreaker"
	"campaign-dispatcher/internal/service/provider/console"
	"campaign-dispatcher/internal/service/provider/metrics"
	"campaign-dispatcher/internal/service/provider/pool"
	"campaign-dispatcher/internal/service/provider/throttle"
	"campaign-dispatcher/internal/service/provider/tracing"
)

// InitProvider 每个发送号码一条装饰链：号码限流 -> 熔断 -> 指标 -> 链路 -> 实际发送
func InitProvider(client *redis.Client, reg prometheus.Registerer) provider.Provider {
	type MemberConfig struct {
		Name string `yaml:"name"`
		// ThrottleRate 每个 ThrottleInterval 内最多发多少条
		ThrottleRate     int           `yaml:"throttleRate"`
		ThrottleInterval time.Duration `yaml:"throttleInterval"`
	}
	type Config struct {
		Pool    pool.Config    `yaml:"pool"`
		Members []MemberConfig `yaml:"members"`
	}
	cfg := Config{Pool: pool.DefaultConfig()}
	if err := econf.UnmarshalKey("provider", &cfg); err != nil {
		panic(err)
	}
	if len(cfg.Members) == 0 {
		panic("provider.members 至少要配置一个发送号码")
	}

	collector := metrics.NewCollector(reg)
	members := make(map[string]provider.Provider, len(cfg.Members))
	for _, m := range cfg.Members {
		var p provider.Provider = console.NewProvider()
		p = tracing.NewProvider(p, m.Name)
		p = metrics.NewProvider(m.Name, p, collector)
		p = circuitbreaker.NewProvider(p, sre.NewBreaker())
		if m.ThrottleRate > 0 && m.ThrottleInterval > 0 {
			limiter := ratelimit.NewRedisSlidingWindowLimiter(client, "provider:throttle:", m.ThrottleInterval, m.ThrottleRate)
			p = throttle.NewProvider(p, limiter, m.Name)
		}
		members[m.Name] = p
	}
	return pool.NewProvider(members, cfg.Pool)
}
