package pool

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/service/provider"
)

var _ provider.Provider = (*Provider)(nil)

type Config struct {
	// WindowSize 统计最近多少次发送
	WindowSize int `yaml:"windowSize"`
	// FailRate 窗口写满之后出错率达到多少摘掉号码
	FailRate float64 `yaml:"failRate"`
	// ConsecutiveFailures 连续出错多少次摘掉号码
	ConsecutiveFailures int `yaml:"consecutiveFailures"`
	// Cooldown 摘掉之后多久恢复
	Cooldown time.Duration `yaml:"cooldown"`
}

func DefaultConfig() Config {
	return Config{
		WindowSize:          64,
		FailRate:            0.5,
		ConsecutiveFailures: 5,
		Cooldown:            time.Minute,
	}
}

// Provider 多个发送号码轮询发送，自动跳过不健康的号码。
// 每条消息只会交给一个号码发一次，失败了不会换号码再发。
type Provider struct {
	members []*member
	count   atomic.Uint64
}

func (p *Provider) Send(ctx context.Context, recipient string, content domain.MessageContent) (string, error) {
	cnt := len(p.members)
	if cnt == 0 {
		return "", fmt.Errorf("%w: 没有配置发送号码", errs.ErrNoAvailableProvider)
	}
	current := p.count.Add(1) - 1
	for i := 0; i < cnt; i++ {
		m := p.members[(int(current%uint64(cnt))+i)%cnt]
		if m.isHealthy() {
			return m.Send(ctx, recipient, content)
		}
	}
	return "", fmt.Errorf("%w: %d 个发送号码全部被摘除", errs.ErrNoAvailableProvider, cnt)
}

// Healthy 当前健康的号码
func (p *Provider) Healthy() []string {
	res := make([]string, 0, len(p.members))
	for _, m := range p.members {
		if m.isHealthy() {
			res = append(res, m.name)
		}
	}
	return res
}

// NewProvider providers 的 key 是号码名字
func NewProvider(providers map[string]provider.Provider, cfg Config) *Provider {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	// 固定顺序，方便排查
	slices.Sort(names)
	members := make([]*member, 0, len(names))
	for _, name := range names {
		members = append(members, newMember(name, providers[name], cfg))
	}
	return &Provider{members: members}
}
