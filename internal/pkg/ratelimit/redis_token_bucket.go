package ratelimit

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/ecodeclub/ekit/syncx"
	"github.com/gotomicro/ego/core/elog"
	"github.com/redis/go-redis/v9"

	"campaign-dispatcher/internal/errs"
)

var (
	//go:embed lua/token_bucket.lua
	tokenBucketScript string

	//go:embed lua/load_factor.lua
	loadFactorScript string

	//go:embed lua/cleanup.lua
	cleanupScript string

	_ Limiter = (*RedisTokenBucketLimiter)(nil)
)

type Config struct {
	// MaxTokens 每个窗口的令牌上限，也就是每天的发送上限
	MaxTokens int64 `yaml:"maxTokens"`
	// RefillWindow 令牌从零补满需要的时间，同时也是令牌桶的过期时间
	RefillWindow time.Duration `yaml:"refillWindow"`
	MinInterval  time.Duration `yaml:"minInterval"`
	MaxInterval  time.Duration `yaml:"maxInterval"`

	LoadFactorStepUp   float64 `yaml:"loadFactorStepUp"`
	LoadFactorStepDown float64 `yaml:"loadFactorStepDown"`
	MinLoadFactor      float64 `yaml:"minLoadFactor"`
	MaxLoadFactor      float64 `yaml:"maxLoadFactor"`
	// CleanupBatch 一次 Lua 调用最多清理多少个桶
	CleanupBatch int `yaml:"cleanupBatch"`
}

func DefaultConfig() Config {
	const (
		defaultMaxTokens    = 1000
		defaultCleanupBatch = 500
	)
	return Config{
		MaxTokens:          defaultMaxTokens,
		RefillWindow:       24 * time.Hour,
		MinInterval:        60 * time.Second,
		MaxInterval:        120 * time.Second,
		LoadFactorStepUp:   0.1,
		LoadFactorStepDown: 0.2,
		MinLoadFactor:      0.1,
		MaxLoadFactor:      1.0,
		CleanupBatch:       defaultCleanupBatch,
	}
}

type intervalBounds struct {
	min time.Duration
	max time.Duration
}

// RedisTokenBucketLimiter 基于 Redis Lua 的令牌桶，多个实例共享同一个桶
type RedisTokenBucketLimiter struct {
	cmd       redis.Cmdable
	cfg       Config
	keyPrefix string
	registry  string
	bounds    syncx.Map[string, intervalBounds]
	now       func() time.Time
	logger    *elog.Component
}

func NewRedisTokenBucketLimiter(cmd redis.Cmdable, cfg Config) *RedisTokenBucketLimiter {
	return &RedisTokenBucketLimiter{
		cmd:       cmd,
		cfg:       cfg,
		keyPrefix: "ratelimit:bucket:",
		registry:  "ratelimit:buckets",
		now:       time.Now,
		logger:    elog.DefaultLogger,
	}
}

func (r *RedisTokenBucketLimiter) CheckAndConsume(ctx context.Context, key string) (Result, error) {
	if key == "" {
		return Result{}, fmt.Errorf("%w: 限流 key 不能为空", errs.ErrInvalidParameter)
	}
	res, err := r.cmd.Eval(ctx, tokenBucketScript,
		[]string{r.bucketKey(key), r.registry},
		r.cfg.MaxTokens,
		r.cfg.RefillWindow.Milliseconds(),
		r.now().UnixMilli(),
		key,
	).Int64Slice()
	if err == nil && len(res) != 3 {
		err = fmt.Errorf("令牌桶脚本返回值异常 %v", res)
	}
	if err != nil {
		// 存储不可用时放行，WhatsApp 本身也会拒绝超限的发送
		r.logger.Warn("令牌桶检查失败，放行",
			elog.String("key", key),
			elog.FieldErr(err))
		return Result{Allowed: true}, nil
	}
	return Result{
		Allowed:   res[0] == 1,
		Wait:      time.Duration(res[1]) * time.Millisecond,
		Remaining: res[2],
	}, nil
}

func (r *RedisTokenBucketLimiter) RecordOutcome(ctx context.Context, key string, success bool) {
	if key == "" {
		return
	}
	flag := "0"
	if success {
		flag = "1"
	}
	lf, err := r.cmd.Eval(ctx, loadFactorScript,
		[]string{r.bucketKey(key), r.registry},
		flag,
		r.cfg.LoadFactorStepUp,
		r.cfg.LoadFactorStepDown,
		r.cfg.MinLoadFactor,
		r.cfg.MaxLoadFactor,
		r.cfg.RefillWindow.Milliseconds(),
		r.now().UnixMilli(),
		key,
	).Text()
	if err != nil {
		r.logger.Warn("更新负载系数失败",
			elog.String("key", key),
			elog.Any("success", success),
			elog.FieldErr(err))
		return
	}
	r.logger.Debug("更新负载系数", elog.String("key", key), elog.String("loadFactor", lf))
}

// LoadFactor 当前负载系数，桶不存在的时候返回上限
func (r *RedisTokenBucketLimiter) LoadFactor(ctx context.Context, key string) (float64, error) {
	val, err := r.cmd.HGet(ctx, r.bucketKey(key), "load_factor").Result()
	if errors.Is(err, redis.Nil) {
		return r.cfg.MaxLoadFactor, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(val, 64)
}

func (r *RedisTokenBucketLimiter) NextInterval(ctx context.Context, key string) time.Duration {
	lf, err := r.LoadFactor(ctx, key)
	if err != nil {
		r.logger.Warn("读取负载系数失败，按照满负载计算间隔",
			elog.String("key", key),
			elog.FieldErr(err))
		lf = r.cfg.MaxLoadFactor
	}
	b := r.intervalBounds(key)
	scale := 2 - lf
	lo := time.Duration(float64(b.min) * scale)
	hi := time.Duration(float64(b.max) * scale)
	if hi <= lo {
		return lo
	}
	//nolint:gosec // 发送间隔的抖动不需要安全随机数
	return lo + time.Duration(rand.Int64N(int64(hi-lo)+1))
}

func (r *RedisTokenBucketLimiter) SetIntervalBounds(key string, minInterval, maxInterval time.Duration) {
	if minInterval <= 0 || maxInterval < minInterval {
		r.logger.Warn("非法的发送间隔，忽略",
			elog.String("key", key),
			elog.Any("min", minInterval),
			elog.Any("max", maxInterval))
		return
	}
	r.bounds.Store(key, intervalBounds{min: minInterval, max: maxInterval})
}

func (r *RedisTokenBucketLimiter) intervalBounds(key string) intervalBounds {
	if b, ok := r.bounds.Load(key); ok {
		return b
	}
	return intervalBounds{min: r.cfg.MinInterval, max: r.cfg.MaxInterval}
}

func (r *RedisTokenBucketLimiter) Cleanup(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.cfg.RefillWindow).UnixMilli()
	batch := r.cfg.CleanupBatch
	if batch <= 0 {
		batch = DefaultConfig().CleanupBatch
	}
	total := 0
	for {
		cnt, err := r.cmd.Eval(ctx, cleanupScript,
			[]string{r.registry},
			cutoff,
			r.keyPrefix,
			batch,
		).Int()
		if err != nil {
			return total, fmt.Errorf("%w: 清理令牌桶失败 %w", errs.ErrStoreUnavailable, err)
		}
		total += cnt
		if cnt < batch {
			return total, nil
		}
	}
}

// Forget 活动结束之后丢掉本地的间隔配置
func (r *RedisTokenBucketLimiter) Forget(key string) {
	r.bounds.Delete(key)
}

func (r *RedisTokenBucketLimiter) bucketKey(key string) string {
	return r.keyPrefix + key
}
