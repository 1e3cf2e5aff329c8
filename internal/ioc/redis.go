package ioc

import (
	"time"

	"github.com/gotomicro/ego/core/econf"
	"github.com/meoying/dlock-go"
	dlockredis "github.com/meoying/dlock-go/redis"
	ca "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

func InitRedisClient() *redis.Client {
	type Config struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}
	var cfg Config
	if err := econf.UnmarshalKey("redis", &cfg); err != nil {
		panic(err)
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func InitDistributedLock(client *redis.Client) dlock.Client {
	return dlockredis.NewClient(client)
}

// InitLocalCache 活动详情的本地缓存
func InitLocalCache() *ca.Cache {
	const (
		defaultExpiration = 30 * time.Second
		cleanupInterval   = time.Minute
	)
	return ca.New(defaultExpiration, cleanupInterval)
}
