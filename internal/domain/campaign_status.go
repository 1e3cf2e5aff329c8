package domain

import (
	"fmt"

	"campaign-dispatcher/internal/errs"
)

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "DRAFT"     // 草稿
	CampaignStatusScheduled CampaignStatus = "SCHEDULED" // 已排期
	CampaignStatusRunning   CampaignStatus = "RUNNING"   // 发送中
	CampaignStatusPaused    CampaignStatus = "PAUSED"    // 已暂停
	CampaignStatusCompleted CampaignStatus = "COMPLETED" // 已完成
	CampaignStatusFailed    CampaignStatus = "FAILED"    // 失败
)

// campaignTransitions 合法的状态流转表，不在表里的流转一律拒绝
var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignStatusDraft:     {CampaignStatusScheduled, CampaignStatusFailed},
	CampaignStatusScheduled: {CampaignStatusRunning, CampaignStatusFailed},
	CampaignStatusRunning:   {CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusFailed},
	CampaignStatusPaused:    {CampaignStatusRunning, CampaignStatusFailed},
	// COMPLETED 只留了一个转 FAILED 的口子
	CampaignStatusCompleted: {CampaignStatusFailed},
	// 人工重启
	CampaignStatusFailed: {CampaignStatusDraft},
}

func (s CampaignStatus) String() string {
	return string(s)
}

func (s CampaignStatus) IsValid() bool {
	_, ok := campaignTransitions[s]
	return ok
}

// IsTerminal COMPLETED 和 FAILED 是终态
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusCompleted || s == CampaignStatusFailed
}

// IsActive 处于调度器管理范围内的状态
func (s CampaignStatus) IsActive() bool {
	return s == CampaignStatusScheduled || s == CampaignStatusRunning || s == CampaignStatusPaused
}

func (s CampaignStatus) CanTransitTo(next CampaignStatus) bool {
	for _, allowed := range campaignTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition 校验 s -> next 是否合法
func (s CampaignStatus) CheckTransition(next CampaignStatus) error {
	if !s.CanTransitTo(next) {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidStatusTransition, s, next)
	}
	return nil
}

// AllCampaignStatuses 返回全部状态，顺序固定
func AllCampaignStatuses() []CampaignStatus {
	return []CampaignStatus{
		CampaignStatusDraft,
		CampaignStatusScheduled,
		CampaignStatusRunning,
		CampaignStatusPaused,
		CampaignStatusCompleted,
		CampaignStatusFailed,
	}
}
