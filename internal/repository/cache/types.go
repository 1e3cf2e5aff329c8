package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campaign-dispatcher/internal/domain"
)

var ErrKeyNotFound = errors.New("key not found")

const (
	CampaignPrefix     = "campaign"
	DefaultExpiredTime = 10 * time.Second
)

func CampaignKey(id int64) string {
	return fmt.Sprintf("%s:%d", CampaignPrefix, id)
}

// MessageQueueCache 活动的主队列和重试队列，多个进程共享
//
// 主队列是 FIFO 的 list；重试队列是按照下一次重试时间排序的 zset，
// 消息内容放在单独的 hash 里面，重试次数也是一个 hash。
type MessageQueueCache interface {
	// Push 追加到主队列末尾
	Push(ctx context.Context, campaignID int64, msgs ...domain.QueuedMessage) error
	// PopBatch 原子地从主队列头部取出最多 n 条
	PopBatch(ctx context.Context, campaignID int64, n int) ([]domain.QueuedMessage, error)
	// Requeue 放回主队列头部，保持原来的顺序
	Requeue(ctx context.Context, campaignID int64, msgs ...domain.QueuedMessage) error
	// Attempts 已经重试过的次数
	Attempts(ctx context.Context, campaignID int64, msgID string) (int, error)
	// ScheduleRetry 放入重试队列并且重试次数加一，返回加一之后的次数
	ScheduleRetry(ctx context.Context, msg domain.QueuedMessage, nextRetryAt time.Time) (int, error)
	// ClearAttempts 消息到达终态之后删除重试计数
	ClearAttempts(ctx context.Context, campaignID int64, msgID string) error
	// PromoteDue 把到期的重试消息移回主队列末尾，返回移动的数量
	PromoteDue(ctx context.Context, campaignID int64, now time.Time, limit int) (int, error)
	// Depth 主队列和重试队列的长度
	Depth(ctx context.Context, campaignID int64) (primary int64, retry int64, err error)
	Ping(ctx context.Context) error
}

// CampaignCache 活动的本地缓存
type CampaignCache interface {
	Get(ctx context.Context, id int64) (domain.Campaign, error)
	Set(ctx context.Context, c domain.Campaign) error
	Del(ctx context.Context, id int64) error
}
