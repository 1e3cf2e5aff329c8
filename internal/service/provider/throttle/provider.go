package throttle

import (
	"context"
	"fmt"

	"github.com/gotomicro/ego/core/elog"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/pkg/ratelimit"
	"campaign-dispatcher/internal/service/provider"
)

// Provider 单个发送号码的滑动窗口限流。
// 活动维度的令牌桶管不到多个活动共用同一个号码的情况，这里兜底。
type Provider struct {
	provider provider.Provider
	limiter  ratelimit.WindowLimiter
	key      string
	logger   *elog.Component
}

func (p *Provider) Send(ctx context.Context, recipient string, content domain.MessageContent) (string, error) {
	limited, err := p.limiter.Limit(ctx, p.key)
	if err != nil {
		// 限流器不可用就放行
		p.logger.Warn("号码限流检查失败", elog.String("key", p.key), elog.FieldErr(err))
	} else if limited {
		return "", fmt.Errorf("%w: 发送号码 %s", errs.ErrRateLimited, p.key)
	}
	return p.provider.Send(ctx, recipient, content)
}

// NewProvider key 一般是发送号码
func NewProvider(p provider.Provider, limiter ratelimit.WindowLimiter, key string) *Provider {
	return &Provider{
		provider: p,
		limiter:  limiter,
		key:      key,
		logger:   elog.DefaultLogger,
	}
}
