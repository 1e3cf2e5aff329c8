package circuitbreaker

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/aegis/circuitbreaker"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/service/provider"
)

// Provider 熔断装饰器。熔断打开时直接返回 errs.ErrCircuitBreaker，
// 这个错误是可以重试的，消息会进入重试队列。
type Provider struct {
	provider provider.Provider
	breaker  circuitbreaker.CircuitBreaker
}

func (p *Provider) Send(ctx context.Context, recipient string, content domain.MessageContent) (string, error) {
	if err := p.breaker.Allow(); err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrCircuitBreaker, err)
	}
	id, err := p.provider.Send(ctx, recipient, content)
	// 对方明确拒绝说明服务端是正常的，只有其余错误才算故障
	if err != nil && !errors.Is(err, errs.ErrSendRejected) {
		p.breaker.MarkFailed()
		return id, err
	}
	p.breaker.MarkSuccess()
	return id, err
}

func NewProvider(p provider.Provider, breaker circuitbreaker.CircuitBreaker) *Provider {
	return &Provider{
		provider: p,
		breaker:  breaker,
	}
}
