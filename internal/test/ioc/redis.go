package ioc

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func InitRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	const timeout = 3 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(err)
	}
	return client
}
