package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campaign-dispatcher/internal/domain"
)

const (
	StatusChangedTopic = "campaign_status_changed"
	MessageFailedTopic = "campaign_message_failed"
	CommandTopic       = "campaign_commands"
)

// StatusChangedEvent 活动状态变更，给外部的看板和通知用
type StatusChangedEvent struct {
	EventID    string                `json:"eventId"`
	CampaignID int64                 `json:"campaignId"`
	From       domain.CampaignStatus `json:"from"`
	To         domain.CampaignStatus `json:"to"`
	Reason     string                `json:"reason,omitempty"`
	Time       int64                 `json:"time"`
}

func NewStatusChangedEvent(id int64, from, to domain.CampaignStatus, reason string) StatusChangedEvent {
	return StatusChangedEvent{
		EventID:    uuid.NewString(),
		CampaignID: id,
		From:       from,
		To:         to,
		Reason:     reason,
		Time:       time.Now().UnixMilli(),
	}
}

// MessageFailedEvent 消息重试耗尽，永久失败
type MessageFailedEvent struct {
	EventID    string `json:"eventId"`
	CampaignID int64  `json:"campaignId"`
	MessageID  string `json:"messageId"`
	Recipient  string `json:"recipient"`
	ErrorClass string `json:"errorClass"`
	Error      string `json:"error"`
	Attempts   int    `json:"attempts"`
	Time       int64  `json:"time"`
}

func NewMessageFailedEvent(entry domain.ErrorLogEntry, campaignID int64) MessageFailedEvent {
	return MessageFailedEvent{
		EventID:    uuid.NewString(),
		CampaignID: campaignID,
		MessageID:  entry.MessageID,
		Recipient:  entry.Recipient,
		ErrorClass: entry.ErrorClass,
		Error:      entry.Error,
		Attempts:   entry.Attempts,
		Time:       entry.Time.UnixMilli(),
	}
}

//go:generate mockgen -source=./types.go -package=evtmocks -destination=./mocks/campaign_event.mock.go Producer,CommandHandler
type Producer interface {
	ProduceStatusChanged(ctx context.Context, evt StatusChangedEvent) error
	ProduceMessageFailed(ctx context.Context, evt MessageFailedEvent) error
}

// CommandAction 外部系统对活动的操作
type CommandAction string

const (
	CommandActionSchedule CommandAction = "schedule"
	CommandActionStop     CommandAction = "stop"
	CommandActionPause    CommandAction = "pause"
	CommandActionResume   CommandAction = "resume"
)

// Command CRUD 服务发过来的活动操作指令
type Command struct {
	Action     CommandAction `json:"action"`
	CampaignID int64         `json:"campaignId"`
}

// CommandHandler 由调度器实现
type CommandHandler interface {
	ScheduleCampaign(ctx context.Context, c domain.Campaign) error
	StopCampaign(ctx context.Context, id int64) error
	PauseCampaign(ctx context.Context, id int64) error
	ResumeCampaign(ctx context.Context, id int64) error
}
