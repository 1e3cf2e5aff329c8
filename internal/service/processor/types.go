package processor

import (
	"context"
	"strconv"
	"time"

	"campaign-dispatcher/internal/domain"
)

// BatchProcessor 消费某个活动的主队列和重试队列
//
//go:generate mockgen -source=./types.go -package=processormocks -destination=./mocks/processor.mock.go BatchProcessor
type BatchProcessor interface {
	// ProcessBatch 从主队列取一批消息按顺序发送。
	// 单条消息的失败只会进入重试队列，遇到无法识别的错误才会中止本轮并返回 errs.ErrFatalBatch
	ProcessBatch(ctx context.Context, campaignID int64) (domain.BatchMetrics, error)
	// ProcessRetryQueue 把到期的重试消息挪回主队列，返回挪动的数量
	ProcessRetryQueue(ctx context.Context, campaignID int64) (int, error)
	// QueueDepth 主队列和重试队列的长度
	QueueDepth(ctx context.Context, campaignID int64) (primary int64, retry int64, err error)
	// Forget 丢掉活动在本地的发送节奏记录
	Forget(campaignID int64)
	Ping(ctx context.Context) error
}

type Config struct {
	BatchSize     int `yaml:"batchSize"`
	MaxRetries    int `yaml:"maxRetries"`
	BackoffFactor int `yaml:"backoffFactor"`
	// MaxRateLimitWait 被限流时最多等多久再检查一次
	MaxRateLimitWait time.Duration `yaml:"maxRateLimitWait"`
	SendTimeout      time.Duration `yaml:"sendTimeout"`
	// PromoteLimit 每次脚本调用最多挪动多少条重试消息
	PromoteLimit int `yaml:"promoteLimit"`
}

func DefaultConfig() Config {
	return Config{
		BatchSize:        100,
		MaxRetries:       3,
		BackoffFactor:    2,
		MaxRateLimitWait: 2 * time.Minute,
		SendTimeout:      30 * time.Second,
		PromoteLimit:     500,
	}
}

// LimiterKey 活动在限流器里的 key
func LimiterKey(campaignID int64) string {
	return strconv.FormatInt(campaignID, 10)
}

type heartbeatKey struct{}

// WithHeartbeat 每处理完一条消息或者开始等待之前都会调用 beat，调度器靠它判断活动是否卡死
func WithHeartbeat(ctx context.Context, beat func()) context.Context {
	return context.WithValue(ctx, heartbeatKey{}, beat)
}

func heartbeat(ctx context.Context) {
	if beat, ok := ctx.Value(heartbeatKey{}).(func()); ok && beat != nil {
		beat()
	}
}
