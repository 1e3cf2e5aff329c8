package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/service/provider"
)

// 定义Prometheus指标配置常量
const (
	// 摘要指标的分位数配置
	median = 0.5
	p90    = 0.9
	p99    = 0.99

	medianError = 0.05
	p90Error    = 0.01
	p99Error    = 0.001

	// 摘要指标的最大保留时间
	maxAgeDuration = 5 * time.Minute
)

// Collector 所有发送号码共用一组指标，用 provider 标签区分
type Collector struct {
	sendDurationSummary *prometheus.SummaryVec
	sendStatusCounter   *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	sendDurationSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "dispatcher_provider_send_duration_seconds",
			Help: "供应商发送消息耗时统计（秒）",
			Objectives: map[float64]float64{
				median: medianError,
				p90:    p90Error,
				p99:    p99Error,
			},
			MaxAge: maxAgeDuration,
		},
		[]string{"provider", "content_type", "status"},
	)
	sendStatusCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_provider_send_total",
			Help: "供应商发送消息状态统计，status 为 success 或者错误分类",
		},
		[]string{"provider", "content_type", "status"},
	)
	reg.MustRegister(sendDurationSummary, sendStatusCounter)
	return &Collector{
		sendDurationSummary: sendDurationSummary,
		sendStatusCounter:   sendStatusCounter,
	}
}

// Provider 为供应商实现添加指标收集的装饰器
type Provider struct {
	provider  provider.Provider
	collector *Collector
	name      string
}

func (p *Provider) Send(ctx context.Context, recipient string, content domain.MessageContent) (string, error) {
	startTime := time.Now()
	id, err := p.provider.Send(ctx, recipient, content)
	duration := time.Since(startTime).Seconds()

	status := "success"
	if err != nil {
		status = errs.Class(err)
	}
	p.collector.sendStatusCounter.WithLabelValues(p.name, string(content.Type), status).Inc()
	p.collector.sendDurationSummary.WithLabelValues(p.name, string(content.Type), status).Observe(duration)
	return id, err
}

// NewProvider 创建一个新的带有指标收集的供应商
func NewProvider(name string, p provider.Provider, collector *Collector) *Provider {
	return &Provider{
		provider:  p,
		collector: collector,
		name:      name,
	}
}
