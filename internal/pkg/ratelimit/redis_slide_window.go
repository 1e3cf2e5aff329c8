package ratelimit

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	//go:embed lua/slide_window.lua
	slidingWindowScript string

	//go:embed lua/last_limit_time.lua
	lastLimitTimeScript string

	_ WindowLimiter = (*RedisSlidingWindowLimiter)(nil)
)

// RedisSlidingWindowLimiter 基于 Redis 的滑动窗口，interval 内最多放行 rate 次
type RedisSlidingWindowLimiter struct {
	cmd       redis.Cmdable
	interval  time.Duration
	rate      int
	keyPrefix string
	now       func() time.Time
}

func NewRedisSlidingWindowLimiter(cmd redis.Cmdable, keyPrefix string, interval time.Duration, rate int) *RedisSlidingWindowLimiter {
	return &RedisSlidingWindowLimiter{
		cmd:       cmd,
		interval:  interval,
		rate:      rate,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

func (r *RedisSlidingWindowLimiter) Limit(ctx context.Context, key string) (bool, error) {
	// 同一毫秒内可能有多次请求，成员不能只用时间戳
	return r.cmd.Eval(ctx, slidingWindowScript,
		[]string{r.getCountKey(key), r.getLimitedEventKey(key)},
		r.interval.Milliseconds(),
		r.rate,
		r.now().UnixMilli(),
		uuid.NewString(),
	).Bool()
}

func (r *RedisSlidingWindowLimiter) LastLimitTime(ctx context.Context, key string) (time.Time, error) {
	result, err := r.cmd.Eval(ctx, lastLimitTimeScript,
		[]string{r.getLimitedEventKey(key)}).Int64()
	if err != nil {
		return time.Time{}, err
	}
	if result == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(result), nil
}

func (r *RedisSlidingWindowLimiter) getCountKey(key string) string {
	return fmt.Sprintf("%s:count:%s", r.keyPrefix, key)
}

func (r *RedisSlidingWindowLimiter) getLimitedEventKey(key string) string {
	return fmt.Sprintf("%s:limitedEvent:%s", r.keyPrefix, key)
}
