package dao

import (
	"context"
)

type CampaignDAO interface {
	GetByID(ctx context.Context, id int64) (Campaign, error)
	// FindByStatuses 按照 ID 升序分页查找处于指定状态的活动
	FindByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]Campaign, error)
	// FindErrorLogs 最近的错误日志，按照时间倒序
	FindErrorLogs(ctx context.Context, campaignID int64, limit int) ([]CampaignErrorLog, error)

	// CASStatus 只有当前状态等于 from 的时候才更新，errLog 不为空的时候在同一个事务里写入错误日志
	CASStatus(ctx context.Context, id int64, from, to string, errLog *CampaignErrorLog) error
	UpdateMetrics(ctx context.Context, id int64, metrics CampaignMetrics) error

	// MarkDelivered sent 和 delivered 加一，同时增量维护平均投递耗时
	MarkDelivered(ctx context.Context, id int64, latencyMs int64, sentAt int64) error
	// MarkFailed failed 加一并写入错误日志
	MarkFailed(ctx context.Context, errLog CampaignErrorLog) error
}
