package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campaign-dispatcher/internal/errs"
)

type campaignDAO struct {
	db *egorm.Component
}

func (dao *campaignDAO) GetByID(ctx context.Context, id int64) (Campaign, error) {
	var c Campaign
	err := dao.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Campaign{}, fmt.Errorf("%w: id=%d", errs.ErrCampaignNotFound, id)
		}
		return Campaign{}, err
	}
	return c, nil
}

func (dao *campaignDAO) FindByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]Campaign, error) {
	var res []Campaign
	err := dao.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	if err != nil {
		return nil, fmt.Errorf("查询活动列表失败: %w", err)
	}
	return res, nil
}

func (dao *campaignDAO) FindErrorLogs(ctx context.Context, campaignID int64, limit int) ([]CampaignErrorLog, error) {
	var res []CampaignErrorLog
	err := dao.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("id DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (dao *campaignDAO) CASStatus(ctx context.Context, id int64, from, to string, errLog *CampaignErrorLog) error {
	now := time.Now().UnixMilli()
	return dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Campaign{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]any{
				"status":  to,
				"version": gorm.Expr("version + 1"),
				"utime":   now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected < 1 {
			return fmt.Errorf("并发竞争失败 %w, id %d, %s -> %s", errs.ErrCampaignVersionMismatch, id, from, to)
		}
		if errLog == nil {
			return nil
		}
		errLog.CampaignID = id
		errLog.Ctime = now
		return tx.Create(errLog).Error
	})
}

func (dao *campaignDAO) UpdateMetrics(ctx context.Context, id int64, metrics CampaignMetrics) error {
	result := dao.db.WithContext(ctx).Model(&Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"success_rate":       metrics.SuccessRate,
			"bounce_rate":        metrics.BounceRate,
			"completion_percent": metrics.CompletionPercent,
			"utime":              time.Now().UnixMilli(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected < 1 {
		return fmt.Errorf("%w: id=%d", errs.ErrCampaignNotFound, id)
	}
	return nil
}

func (dao *campaignDAO) MarkDelivered(ctx context.Context, id int64, latencyMs int64, sentAt int64) error {
	return dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := dao.lockForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err = c.checkCapacity(); err != nil {
			return err
		}
		// 增量平均，不需要回溯历史消息
		avg := (c.AvgDeliveryMs*c.Delivered + latencyMs) / (c.Delivered + 1)
		return tx.Model(&Campaign{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"sent":            c.Sent + 1,
				"delivered":       c.Delivered + 1,
				"avg_delivery_ms": avg,
				"last_sent_at":    sentAt,
				"utime":           time.Now().UnixMilli(),
			}).Error
	})
}

func (dao *campaignDAO) MarkFailed(ctx context.Context, errLog CampaignErrorLog) error {
	now := time.Now().UnixMilli()
	return dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := dao.lockForUpdate(tx, errLog.CampaignID)
		if err != nil {
			return err
		}
		if err = c.checkCapacity(); err != nil {
			return err
		}
		err = tx.Model(&Campaign{}).
			Where("id = ?", c.ID).
			Updates(map[string]any{
				"failed": c.Failed + 1,
				"utime":  now,
			}).Error
		if err != nil {
			return err
		}
		errLog.Ctime = now
		return tx.Create(&errLog).Error
	})
}

func (dao *campaignDAO) lockForUpdate(tx *gorm.DB, id int64) (Campaign, error) {
	var c Campaign
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Campaign{}, fmt.Errorf("%w: id=%d", errs.ErrCampaignNotFound, id)
	}
	return c, err
}

func NewCampaignDAO(db *egorm.Component) CampaignDAO {
	return &campaignDAO{db: db}
}

// Campaign 活动表，模板和筛选条件以 JSON 存储
type Campaign struct {
	ID           int64  `gorm:"primaryKey;autoIncrement;comment:'活动ID'"`
	OwnerID      int64  `gorm:"type:BIGINT;NOT NULL;index:idx_owner_id;comment:'所属组织'"`
	Name         string `gorm:"type:VARCHAR(256);NOT NULL;comment:'活动名称'"`
	Kind         string `gorm:"type:ENUM('broadcast','sequential','triggered');NOT NULL;comment:'活动类型'"`
	Template     string `gorm:"type:TEXT;NOT NULL;comment:'消息模板，JSON'"`
	TargetFilter string `gorm:"type:TEXT;comment:'目标筛选条件，JSON'"`

	StartTime  int64  `gorm:"comment:'发送窗口开始时间，毫秒'"`
	EndTime    int64  `gorm:"comment:'发送窗口结束时间，毫秒'"`
	Recurrence string `gorm:"type:VARCHAR(128);comment:'cron 表达式'"`
	RateLimit  int    `gorm:"type:INT;NOT NULL;DEFAULT:60;comment:'两条消息之间的间隔，秒'"`
	AutoStart  bool   `gorm:"NOT NULL;DEFAULT:false"`

	Status string `gorm:"type:ENUM('DRAFT','SCHEDULED','RUNNING','PAUSED','COMPLETED','FAILED');NOT NULL;DEFAULT:'DRAFT';index:idx_status;comment:'活动状态'"`

	TotalRecipients   int64   `gorm:"NOT NULL;DEFAULT:0"`
	Sent              int64   `gorm:"NOT NULL;DEFAULT:0"`
	Delivered         int64   `gorm:"NOT NULL;DEFAULT:0"`
	Failed            int64   `gorm:"NOT NULL;DEFAULT:0"`
	AvgDeliveryMs     int64   `gorm:"NOT NULL;DEFAULT:0;comment:'平均投递耗时，增量维护'"`
	SuccessRate       float64 `gorm:"NOT NULL;DEFAULT:0"`
	BounceRate        float64 `gorm:"NOT NULL;DEFAULT:0"`
	CompletionPercent float64 `gorm:"NOT NULL;DEFAULT:0"`
	LastSentAt        int64

	Version int `gorm:"type:INT;NOT NULL;DEFAULT:1;comment:'版本号，每次状态变更加一'"`
	Ctime   int64
	Utime   int64
}

func (c *Campaign) TableName() string {
	return "campaigns"
}

// checkCapacity sent + failed 不能超过 total_recipients，total 为 0 表示不限制
func (c *Campaign) checkCapacity() error {
	if c.TotalRecipients > 0 && c.Sent+c.Failed >= c.TotalRecipients {
		return fmt.Errorf("%w: 活动 %d 的 sent(%d) + failed(%d) 已经达到 total(%d)",
			errs.ErrInvalidParameter, c.ID, c.Sent, c.Failed, c.TotalRecipients)
	}
	return nil
}

type CampaignMetrics struct {
	SuccessRate       float64
	BounceRate        float64
	CompletionPercent float64
}

// CampaignErrorLog 永久失败的消息，以及活动本身失败的原因
type CampaignErrorLog struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	CampaignID int64  `gorm:"type:BIGINT;NOT NULL;index:idx_campaign_id"`
	MessageID  string `gorm:"type:VARCHAR(128)"`
	Recipient  string `gorm:"type:VARCHAR(64)"`
	ErrorClass string `gorm:"type:VARCHAR(32);NOT NULL"`
	Error      string `gorm:"type:TEXT"`
	Attempts   int
	Ctime      int64
}

func (l *CampaignErrorLog) TableName() string {
	return "campaign_error_logs"
}
