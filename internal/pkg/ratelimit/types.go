package ratelimit

import (
	"context"
	"time"
)

// Result 一次令牌检查的结果，被限流不是错误
type Result struct {
	Allowed bool
	// Wait 被限流时建议等待的时间
	Wait time.Duration
	// Remaining 乘以负载系数之后剩余的令牌数
	Remaining int64
}

// Limiter 活动维度的令牌桶限流器。
// 共享存储出问题时一律放行，只记录告警。
//
//go:generate mockgen -source=./types.go -package=limitmocks -destination=./mocks/limiter.mock.go Limiter,WindowLimiter
type Limiter interface {
	// CheckAndConsume 有令牌就消耗一个并放行，否则返回需要等待的时间
	CheckAndConsume(ctx context.Context, key string) (Result, error)
	// RecordOutcome 根据发送结果调整负载系数，成功慢慢恢复，失败快速退让
	RecordOutcome(ctx context.Context, key string, success bool)
	// NextInterval 两次发送之间的随机间隔，负载系数越低间隔越大
	NextInterval(ctx context.Context, key string) time.Duration
	// SetIntervalBounds 设置某个 key 的发送间隔上下限，不设置就用默认值
	SetIntervalBounds(key string, minInterval, maxInterval time.Duration)
	// Forget 丢掉 key 在本地的间隔配置
	Forget(key string)
	// Cleanup 清理长时间没有活动的令牌桶，返回清理的数量
	Cleanup(ctx context.Context) (int, error)
}

// WindowLimiter 滑动窗口限流
type WindowLimiter interface {
	// Limit 判断是否应该限流
	Limit(ctx context.Context, key string) (bool, error)
	// LastLimitTime 获取最近一次限流发生的时间，如果没有发生过限流则返回零值
	LastLimitTime(ctx context.Context, key string) (time.Time, error)
}
