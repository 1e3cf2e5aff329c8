package domain

import (
	"fmt"
	"time"

	"campaign-dispatcher/internal/errs"
)

const (
	// MinRateLimit 两条消息之间至少间隔 60 秒，WhatsApp 的限制
	MinRateLimit = 60
	MaxRateLimit = 120
)

// CampaignKind 活动类型
type CampaignKind string

const (
	CampaignKindBroadcast  CampaignKind = "broadcast"
	CampaignKindSequential CampaignKind = "sequential"
	CampaignKindTriggered  CampaignKind = "triggered"
)

func (k CampaignKind) String() string {
	return string(k)
}

func (k CampaignKind) IsValid() bool {
	switch k {
	case CampaignKindBroadcast, CampaignKindSequential, CampaignKindTriggered:
		return true
	}
	return false
}

// MessageTemplate 消息模板，Variables 是模板里的变量占位
type MessageTemplate struct {
	Content   string   `json:"content"`
	Variables []string `json:"variables"`
}

// ScheduleConfig 排期配置
type ScheduleConfig struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	// Recurrence 标准 cron 表达式，为空表示只执行一次
	Recurrence string `json:"recurrence"`
	// RateLimit 两条消息之间的间隔，单位秒
	RateLimit int  `json:"rateLimit"`
	AutoStart bool `json:"autoStart"`
}

// HasWindowEnded 发送窗口是否已经结束
func (s ScheduleConfig) HasWindowEnded(now time.Time) bool {
	return !s.EndTime.IsZero() && now.After(s.EndTime)
}

func (s ScheduleConfig) RateLimitInterval() time.Duration {
	return time.Duration(s.RateLimit) * time.Second
}

// CampaignCounters 计数器
type CampaignCounters struct {
	TotalRecipients int64 `json:"totalRecipients"`
	Sent            int64 `json:"sent"`
	Delivered       int64 `json:"delivered"`
	Failed          int64 `json:"failed"`
}

// CampaignMetrics 派生的投递指标
type CampaignMetrics struct {
	SuccessRate       float64       `json:"successRate"`
	BounceRate        float64       `json:"bounceRate"`
	AvgDeliveryTime   time.Duration `json:"avgDeliveryTime"`
	CompletionPercent float64       `json:"completionPercent"`
}

// ErrorLogEntry 永久失败的记录
type ErrorLogEntry struct {
	Time       time.Time `json:"time"`
	MessageID  string    `json:"messageId"`
	Recipient  string    `json:"recipient"`
	ErrorClass string    `json:"errorClass"`
	Error      string    `json:"error"`
	Attempts   int       `json:"attempts"`
}

// StatusMeta 状态变更时附带的信息，Reason 不为空会记录到错误日志
type StatusMeta struct {
	Reason     string
	ErrorClass string
}

// Campaign 活动领域模型
type Campaign struct {
	ID           int64             `json:"id"`
	OwnerID      int64             `json:"ownerId"`
	Name         string            `json:"name"`
	Kind         CampaignKind      `json:"kind"`
	Template     MessageTemplate   `json:"template"`
	TargetFilter map[string]string `json:"targetFilter"`
	Schedule     ScheduleConfig    `json:"schedule"`
	Status       CampaignStatus    `json:"status"`
	Counters     CampaignCounters  `json:"counters"`
	Metrics      CampaignMetrics   `json:"metrics"`
	LastSentAt   time.Time         `json:"lastSentAt"`
	ErrorLog     []ErrorLogEntry   `json:"errorLog"`
	Version      int               `json:"version"`
}

func (c *Campaign) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: ID = %d", errs.ErrInvalidParameter, c.ID)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: Name = %q", errs.ErrInvalidParameter, c.Name)
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("%w: Kind = %q", errs.ErrInvalidParameter, c.Kind)
	}
	if c.Schedule.RateLimit < MinRateLimit || c.Schedule.RateLimit > MaxRateLimit {
		return fmt.Errorf("%w: Schedule.RateLimit = %d, 取值范围 [%d, %d]",
			errs.ErrInvalidParameter, c.Schedule.RateLimit, MinRateLimit, MaxRateLimit)
	}
	if !c.Schedule.StartTime.IsZero() && !c.Schedule.EndTime.IsZero() &&
		!c.Schedule.EndTime.After(c.Schedule.StartTime) {
		return fmt.Errorf("%w: Schedule.EndTime 必须晚于 StartTime", errs.ErrInvalidParameter)
	}
	if c.Counters.Sent+c.Counters.Failed > c.Counters.TotalRecipients && c.Counters.TotalRecipients > 0 {
		return fmt.Errorf("%w: sent(%d) + failed(%d) > total(%d)", errs.ErrInvalidParameter,
			c.Counters.Sent, c.Counters.Failed, c.Counters.TotalRecipients)
	}
	return nil
}

// DeriveMetrics 根据计数器计算派生指标，平均投递耗时由持久层增量维护
func (c CampaignCounters) DeriveMetrics(avgDelivery time.Duration) CampaignMetrics {
	m := CampaignMetrics{AvgDeliveryTime: avgDelivery}
	finished := c.Sent + c.Failed
	if finished > 0 {
		m.SuccessRate = float64(c.Delivered) / float64(finished)
		m.BounceRate = float64(c.Failed) / float64(finished)
	}
	if c.TotalRecipients > 0 {
		m.CompletionPercent = float64(finished) * 100 / float64(c.TotalRecipients)
	}
	return m
}
