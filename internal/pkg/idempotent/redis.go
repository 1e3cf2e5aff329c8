package idempotent

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ IdempotencyService = (*RedisIdempotencyService)(nil)

type RedisIdempotencyService struct {
	client redis.Cmdable
	expiry time.Duration
}

func (c *RedisIdempotencyService) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.client.SetNX(ctx, c.getKey(key), "1", c.expiry).Result()
	if err != nil {
		return false, err
	}
	return !result, nil
}

func (c *RedisIdempotencyService) Release(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.getKey(key)).Err()
}

func (c *RedisIdempotencyService) getKey(key string) string {
	return fmt.Sprintf("idempotency:%s", key)
}

// NewRedisIdempotencyService expiry 要比消息最长的重试周期长
func NewRedisIdempotencyService(client redis.Cmdable, expiry time.Duration) *RedisIdempotencyService {
	return &RedisIdempotencyService{
		client: client,
		expiry: expiry,
	}
}
