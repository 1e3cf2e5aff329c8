package console

import (
	"context"

	"github.com/google/uuid"
	"github.com/gotomicro/ego/core/elog"

	"campaign-dispatcher/internal/domain"
)

// Provider 只把消息打到日志里，演练活动的时候用

type Provider struct {
	logger *elog.Component
}

func NewProvider() *Provider {
	return &Provider{
		logger: elog.DefaultLogger,
	}
}

func (p *Provider) Send(_ context.Context, recipient string, content domain.MessageContent) (string, error) {
	id := uuid.NewString()
	p.logger.Info("发送消息",
		elog.String("recipient", recipient),
		elog.String("providerMessageID", id),
		elog.Any("content", content))
	return id, nil
}
