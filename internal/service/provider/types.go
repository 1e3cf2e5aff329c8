package provider

import (
	"context"

	"campaign-dispatcher/internal/domain"
)

// Provider 消息供应商，比如 WhatsApp Business API 的某一个发送号码。
// 各种装饰器都不做重试，重试统一走重试队列。
//
//go:generate mockgen -source=./types.go -package=providermocks -destination=./mocks/provider.mock.go Provider
type Provider interface {
	// Send 发送一条消息，返回供应商侧的消息 ID
	Send(ctx context.Context, recipient string, content domain.MessageContent) (string, error)
}
