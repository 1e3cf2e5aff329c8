package maintenance

import (
	"context"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"campaign-dispatcher/internal/service/processor"
	"campaign-dispatcher/internal/service/scheduler"
)

// QueueDepthReporter 定时把活跃活动的队列长度写到 Prometheus
type QueueDepthReporter struct {
	sched     scheduler.CampaignScheduler
	processor processor.BatchProcessor
	depth     *prometheus.GaugeVec
	active    prometheus.Gauge
}

// Report 作为 ecron 的任务执行，单个活动查询失败不影响其他活动
func (r *QueueDepthReporter) Report(ctx context.Context) error {
	ids := r.sched.ActiveCampaigns()
	r.active.Set(float64(len(ids)))
	// 已经结束的活动不再上报
	r.depth.Reset()

	var result *multierror.Error
	for _, id := range ids {
		primary, retry, err := r.processor.QueueDepth(ctx, id)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		label := strconv.FormatInt(id, 10)
		r.depth.WithLabelValues(label, "primary").Set(float64(primary))
		r.depth.WithLabelValues(label, "retry").Set(float64(retry))
	}
	return result.ErrorOrNil()
}

func NewQueueDepthReporter(sched scheduler.CampaignScheduler, p processor.BatchProcessor, reg prometheus.Registerer) *QueueDepthReporter {
	r := &QueueDepthReporter{
		sched:     sched,
		processor: p,
		depth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dispatcher_queue_depth",
			Help: "活动主队列和重试队列里的消息数",
		}, []string{"campaign", "queue"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatcher_active_campaigns",
			Help: "调度器正在管理的活动数",
		}),
	}
	reg.MustRegister(r.depth, r.active)
	return r
}
