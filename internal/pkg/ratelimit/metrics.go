package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Limiter = (*MetricsLimiter)(nil)

// MetricsLimiter 给令牌桶加上限流次数和负载系数调整的统计
type MetricsLimiter struct {
	Limiter
	checkCounter   *prometheus.CounterVec
	outcomeCounter *prometheus.CounterVec
	waitSummary    prometheus.Summary
}

func (m *MetricsLimiter) CheckAndConsume(ctx context.Context, key string) (Result, error) {
	res, err := m.Limiter.CheckAndConsume(ctx, key)
	if err != nil {
		return res, err
	}
	result := "allowed"
	if !res.Allowed {
		result = "exceeded"
		m.waitSummary.Observe(res.Wait.Seconds())
	}
	m.checkCounter.WithLabelValues(result).Inc()
	return res, nil
}

func (m *MetricsLimiter) RecordOutcome(ctx context.Context, key string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.outcomeCounter.WithLabelValues(outcome).Inc()
	m.Limiter.RecordOutcome(ctx, key, success)
}

func NewMetricsLimiter(l Limiter, reg prometheus.Registerer) *MetricsLimiter {
	const maxAge = 5 * time.Minute
	checkCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatcher_ratelimit_check_total",
		Help: "令牌桶检查次数，result 为 allowed 或者 exceeded",
	}, []string{"result"})
	outcomeCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatcher_ratelimit_outcome_total",
		Help: "负载系数调整次数",
	}, []string{"outcome"})
	waitSummary := prometheus.NewSummary(prometheus.SummaryOpts{
		Name:       "dispatcher_ratelimit_wait_seconds",
		Help:       "被限流时建议等待的时间（秒）",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		MaxAge:     maxAge,
	})
	reg.MustRegister(checkCounter, outcomeCounter, waitSummary)
	return &MetricsLimiter{
		Limiter:        l,
		checkCounter:   checkCounter,
		outcomeCounter: outcomeCounter,
		waitSummary:    waitSummary,
	}
}
