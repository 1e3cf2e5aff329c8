package processor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
)

var _ BatchProcessor = (*MetricsProcessor)(nil)

const (
	metricsMaxAge        = 5 * time.Minute
	metricsP50Percentile = 0.5
	metricsP50Error      = 0.05
	metricsP90Percentile = 0.9
	metricsP90Error      = 0.01
	metricsP99Percentile = 0.99
	metricsP99Error      = 0.001
)

// MetricsProcessor 为批次处理添加指标收集的装饰器
type MetricsProcessor struct {
	BatchProcessor
	batchDurationSummary *prometheus.SummaryVec
	messageCounter       *prometheus.CounterVec
	promotedCounter      prometheus.Counter
}

func (m *MetricsProcessor) ProcessBatch(ctx context.Context, campaignID int64) (domain.BatchMetrics, error) {
	startTime := time.Now()
	res, err := m.BatchProcessor.ProcessBatch(ctx, campaignID)
	status := "success"
	if err != nil {
		status = errs.Class(err)
	}
	m.batchDurationSummary.WithLabelValues(status).Observe(time.Since(startTime).Seconds())
	m.messageCounter.WithLabelValues("successful").Add(float64(res.Successful))
	m.messageCounter.WithLabelValues("failed").Add(float64(res.Failed))
	m.messageCounter.WithLabelValues("retried").Add(float64(res.Retried))
	m.messageCounter.WithLabelValues("rate_limited").Add(float64(res.RateLimited))
	return res, err
}

func (m *MetricsProcessor) ProcessRetryQueue(ctx context.Context, campaignID int64) (int, error) {
	cnt, err := m.BatchProcessor.ProcessRetryQueue(ctx, campaignID)
	m.promotedCounter.Add(float64(cnt))
	return cnt, err
}

func NewMetricsProcessor(p BatchProcessor, reg prometheus.Registerer) *MetricsProcessor {
	batchDurationSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "dispatcher_batch_duration_seconds",
			Help: "一轮批次处理的耗时（秒），包含发送间隔的等待",
			Objectives: map[float64]float64{
				metricsP50Percentile: metricsP50Error,
				metricsP90Percentile: metricsP90Error,
				metricsP99Percentile: metricsP99Error,
			},
			MaxAge: metricsMaxAge,
		},
		[]string{"status"},
	)
	messageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_batch_messages_total",
			Help: "批次处理的消息数，按结果分类",
		},
		[]string{"result"},
	)
	promotedCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatcher_retry_promoted_total",
		Help: "从重试队列挪回主队列的消息数",
	})
	reg.MustRegister(batchDurationSummary, messageCounter, promotedCounter)
	return &MetricsProcessor{
		BatchProcessor:       p,
		batchDurationSummary: batchDurationSummary,
		messageCounter:       messageCounter,
		promotedCounter:      promotedCounter,
	}
}
