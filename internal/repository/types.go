package repository

import (
	"context"
	"time"

	"campaign-dispatcher/internal/domain"
)

// CampaignRepository 活动的持久化，状态和计数器都在事务里更新
//
//go:generate mockgen -source=./types.go -package=repomocks -destination=./mocks/repository.mock.go CampaignRepository,MessageQueueRepository
type CampaignRepository interface {
	GetCampaign(ctx context.Context, id int64) (domain.Campaign, error)
	FindByStatuses(ctx context.Context, statuses ...domain.CampaignStatus) ([]domain.Campaign, error)
	// UpdateStatus 非法的状态流转返回 errs.ErrInvalidStatusTransition，存储的状态不变
	UpdateStatus(ctx context.Context, id int64, from, to domain.CampaignStatus, meta domain.StatusMeta) error
	UpdateMetrics(ctx context.Context, id int64, metrics domain.CampaignMetrics) error
	MarkDelivered(ctx context.Context, id int64, latency time.Duration, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, entry domain.ErrorLogEntry) error
}

// MessageQueueRepository 主队列加重试队列
type MessageQueueRepository interface {
	Push(ctx context.Context, campaignID int64, msgs ...domain.QueuedMessage) error
	PopBatch(ctx context.Context, campaignID int64, n int) ([]domain.QueuedMessage, error)
	Requeue(ctx context.Context, campaignID int64, msgs ...domain.QueuedMessage) error
	Attempts(ctx context.Context, campaignID int64, msgID string) (int, error)
	ScheduleRetry(ctx context.Context, msg domain.QueuedMessage, nextRetryAt time.Time) (int, error)
	ClearAttempts(ctx context.Context, campaignID int64, msgID string) error
	PromoteDue(ctx context.Context, campaignID int64, now time.Time, limit int) (int, error)
	Depth(ctx context.Context, campaignID int64) (primary int64, retry int64, err error)
	Ping(ctx context.Context) error
}
