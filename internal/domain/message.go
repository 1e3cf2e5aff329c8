package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/slice"

	"campaign-dispatcher/internal/errs"
)

// MessageStatus 单条消息的状态
type MessageStatus string

const (
	MessageStatusPending         MessageStatus = "pending"
	MessageStatusSending         MessageStatus = "sending"
	MessageStatusDelivered       MessageStatus = "delivered"
	MessageStatusRetryScheduled  MessageStatus = "retry_scheduled"
	MessageStatusFailedPermanent MessageStatus = "failed_permanent"
)

func (s MessageStatus) String() string {
	return string(s)
}

// ContentType 消息内容类型
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeTemplate ContentType = "template"
)

// MessageContent 渲染好的消息内容
type MessageContent struct {
	Type         ContentType       `json:"type"`
	Body         string            `json:"body,omitempty"`
	TemplateName string            `json:"templateName,omitempty"`
	Language     string            `json:"language,omitempty"`
	Params       map[string]string `json:"params,omitempty"`
}

// QueuedMessage 队列里的一条待发送消息
type QueuedMessage struct {
	ID          string         `json:"id"`
	CampaignID  int64          `json:"campaignId"`
	Recipient   string         `json:"recipient"`
	Content     MessageContent `json:"content"`
	Ctime       time.Time      `json:"ctime"`
	Attempts    int            `json:"attempts"`
	NextRetryAt time.Time      `json:"nextRetryAt,omitzero"`
	// LastError 和 LastErrorClass 只在重试用尽、但是永久失败还没记下来时才有值
	LastError      string `json:"lastError,omitempty"`
	LastErrorClass string `json:"lastErrorClass,omitempty"`
}

// Exhausted 重试次数已经用完，不能再发送
func (m *QueuedMessage) Exhausted(maxRetries int) bool {
	return m.Attempts > maxRetries
}

func (m *QueuedMessage) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: ID = %q", errs.ErrInvalidParameter, m.ID)
	}
	if m.CampaignID <= 0 {
		return fmt.Errorf("%w: CampaignID = %d", errs.ErrInvalidParameter, m.CampaignID)
	}
	if m.Recipient == "" {
		return fmt.Errorf("%w: Recipient = %q", errs.ErrInvalidParameter, m.Recipient)
	}
	return nil
}

func (m *QueuedMessage) Marshal() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func UnmarshalQueuedMessage(val string) (QueuedMessage, error) {
	var m QueuedMessage
	err := json.Unmarshal([]byte(val), &m)
	return m, err
}

// MessageIDs 打日志用
func MessageIDs(msgs []QueuedMessage) []string {
	return slice.Map(msgs, func(_ int, src QueuedMessage) string {
		return src.ID
	})
}

// BatchMetrics 一次 ProcessBatch 的统计
type BatchMetrics struct {
	Processed   int
	Successful  int
	Failed      int
	Retried     int
	RateLimited int
	// ProcessingTime 平均每条消息的处理耗时
	ProcessingTime time.Duration
}

func (b BatchMetrics) IsEmpty() bool {
	return b.Processed == 0
}
