package pool

import (
	"context"
	"sync/atomic"
	"time"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/pkg/bitring"
	"campaign-dispatcher/internal/service/provider"
)

// member 池子里的一个发送号码，连续出错或者出错率过高就摘掉一段时间
type member struct {
	provider.Provider
	name     string
	healthy  atomic.Bool
	events   *bitring.BitRing
	cooldown time.Duration
}

func (m *member) Send(ctx context.Context, recipient string, content domain.MessageContent) (string, error) {
	id, err := m.Provider.Send(ctx, recipient, content)
	// 只有可重试的错误才说明号码本身有问题
	m.events.Add(err != nil && errs.IsRetryable(err))
	if m.events.IsConditionMet() && m.healthy.CompareAndSwap(true, false) {
		time.AfterFunc(m.cooldown, func() {
			m.events.Reset()
			m.healthy.Store(true)
		})
	}
	return id, err
}

func (m *member) isHealthy() bool {
	return m.healthy.Load()
}

func newMember(name string, p provider.Provider, cfg Config) *member {
	m := &member{
		Provider: p,
		name:     name,
		events:   bitring.NewBitRing(cfg.WindowSize, cfg.FailRate, cfg.ConsecutiveFailures),
		cooldown: cfg.Cooldown,
	}
	m.healthy.Store(true)
	return m
}
