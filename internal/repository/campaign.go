package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/gotomicro/ego/core/elog"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/repository/cache"
	"campaign-dispatcher/internal/repository/dao"
)

const (
	errorLogLimit   = 50
	findStatusBatch = 100
)

type campaignRepository struct {
	dao    dao.CampaignDAO
	cache  cache.CampaignCache
	logger *elog.Component
}

func (repo *campaignRepository) GetCampaign(ctx context.Context, id int64) (domain.Campaign, error) {
	c, err := repo.cache.Get(ctx, id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		repo.logger.Warn("读取本地缓存失败", elog.Int64("campaignID", id), elog.FieldErr(err))
	}

	entity, err := repo.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, err
	}
	logs, err := repo.dao.FindErrorLogs(ctx, id, errorLogLimit)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("查询错误日志失败: %w", err)
	}
	c = repo.toDomain(entity, logs)
	_ = repo.cache.Set(ctx, c)
	return c, nil
}

func (repo *campaignRepository) FindByStatuses(ctx context.Context, statuses ...domain.CampaignStatus) ([]domain.Campaign, error) {
	strs := slice.Map(statuses, func(_ int, src domain.CampaignStatus) string {
		return src.String()
	})
	var res []domain.Campaign
	for offset := 0; ; offset += findStatusBatch {
		entities, err := repo.dao.FindByStatuses(ctx, strs, offset, findStatusBatch)
		if err != nil {
			return nil, err
		}
		for i := range entities {
			res = append(res, repo.toDomain(entities[i], nil))
		}
		if len(entities) < findStatusBatch {
			return res, nil
		}
	}
}

func (repo *campaignRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.CampaignStatus, meta domain.StatusMeta) error {
	if err := from.CheckTransition(to); err != nil {
		return fmt.Errorf("活动 %d: %w", id, err)
	}
	var errLog *dao.CampaignErrorLog
	if meta.Reason != "" {
		errLog = &dao.CampaignErrorLog{
			ErrorClass: meta.ErrorClass,
			Error:      meta.Reason,
		}
	}
	defer repo.invalidate(ctx, id)
	return repo.dao.CASStatus(ctx, id, from.String(), to.String(), errLog)
}

func (repo *campaignRepository) UpdateMetrics(ctx context.Context, id int64, metrics domain.CampaignMetrics) error {
	defer repo.invalidate(ctx, id)
	return repo.dao.UpdateMetrics(ctx, id, dao.CampaignMetrics{
		SuccessRate:       metrics.SuccessRate,
		BounceRate:        metrics.BounceRate,
		CompletionPercent: metrics.CompletionPercent,
	})
}

func (repo *campaignRepository) MarkDelivered(ctx context.Context, id int64, latency time.Duration, sentAt time.Time) error {
	defer repo.invalidate(ctx, id)
	return repo.dao.MarkDelivered(ctx, id, latency.Milliseconds(), sentAt.UnixMilli())
}

func (repo *campaignRepository) MarkFailed(ctx context.Context, id int64, entry domain.ErrorLogEntry) error {
	defer repo.invalidate(ctx, id)
	return repo.dao.MarkFailed(ctx, dao.CampaignErrorLog{
		CampaignID: id,
		MessageID:  entry.MessageID,
		Recipient:  entry.Recipient,
		ErrorClass: entry.ErrorClass,
		Error:      entry.Error,
		Attempts:   entry.Attempts,
	})
}

func (repo *campaignRepository) invalidate(ctx context.Context, id int64) {
	if err := repo.cache.Del(ctx, id); err != nil {
		repo.logger.Warn("删除本地缓存失败", elog.Int64("campaignID", id), elog.FieldErr(err))
	}
}

func (repo *campaignRepository) toDomain(c dao.Campaign, logs []dao.CampaignErrorLog) domain.Campaign {
	var tpl domain.MessageTemplate
	if c.Template != "" {
		if err := json.Unmarshal([]byte(c.Template), &tpl); err != nil {
			repo.logger.Error("活动模板反序列化失败", elog.Int64("campaignID", c.ID), elog.FieldErr(err))
		}
	}
	var filter map[string]string
	if c.TargetFilter != "" {
		if err := json.Unmarshal([]byte(c.TargetFilter), &filter); err != nil {
			repo.logger.Error("目标筛选条件反序列化失败", elog.Int64("campaignID", c.ID), elog.FieldErr(err))
		}
	}
	counters := domain.CampaignCounters{
		TotalRecipients: c.TotalRecipients,
		Sent:            c.Sent,
		Delivered:       c.Delivered,
		Failed:          c.Failed,
	}
	return domain.Campaign{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		Name:         c.Name,
		Kind:         domain.CampaignKind(c.Kind),
		Template:     tpl,
		TargetFilter: filter,
		Schedule: domain.ScheduleConfig{
			StartTime:  fromMilli(c.StartTime),
			EndTime:    fromMilli(c.EndTime),
			Recurrence: c.Recurrence,
			RateLimit:  c.RateLimit,
			AutoStart:  c.AutoStart,
		},
		Status:     domain.CampaignStatus(c.Status),
		Counters:   counters,
		Metrics:    counters.DeriveMetrics(time.Duration(c.AvgDeliveryMs) * time.Millisecond),
		LastSentAt: fromMilli(c.LastSentAt),
		ErrorLog: slice.Map(logs, func(_ int, src dao.CampaignErrorLog) domain.ErrorLogEntry {
			return domain.ErrorLogEntry{
				Time:       time.UnixMilli(src.Ctime),
				MessageID:  src.MessageID,
				Recipient:  src.Recipient,
				ErrorClass: src.ErrorClass,
				Error:      src.Error,
				Attempts:   src.Attempts,
			}
		}),
		Version: c.Version,
	}
}

func fromMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func NewCampaignRepository(d dao.CampaignDAO, c cache.CampaignCache) CampaignRepository {
	return &campaignRepository{
		dao:    d,
		cache:  c,
		logger: elog.DefaultLogger,
	}
}
