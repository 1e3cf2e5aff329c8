package ioc

import (
	"io"

	"github.com/ego-component/eetcd"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
	"github.com/prometheus/client_golang/prometheus"

	campaignevt "campaign-dispatcher/internal/event/campaign"
	"campaign-dispatcher/internal/pkg/idempotent"
	"campaign-dispatcher/internal/pkg/loopjob"
	"campaign-dispatcher/internal/pkg/ratelimit"
	"campaign-dispatcher/internal/repository"
	"campaign-dispatcher/internal/service/processor"
	"campaign-dispatcher/internal/service/provider"
	"campaign-dispatcher/internal/service/scheduler"
)

func InitBatchProcessor(
	queue repository.MessageQueueRepository,
	repo repository.CampaignRepository,
	limiter ratelimit.Limiter,
	p provider.Provider,
	idempotentSvc idempotent.IdempotencyService,
	producer campaignevt.Producer,
	reg prometheus.Registerer,
) processor.BatchProcessor {
	cfg := processor.DefaultConfig()
	if err := econf.UnmarshalKey("processor", &cfg); err != nil {
		panic(err)
	}
	return processor.NewMetricsProcessor(
		processor.NewBatchProcessor(queue, repo, limiter, p, idempotentSvc, producer, cfg), reg)
}

func InitCampaignScheduler(
	repo repository.CampaignRepository,
	p processor.BatchProcessor,
	limiter ratelimit.Limiter,
	producer campaignevt.Producer,
	etcdClient *eetcd.Component,
	closer io.Closer,
) scheduler.CampaignScheduler {
	type Config struct {
		// MaxConcurrentKey etcd 里动态调整并发活动数的 key
		MaxConcurrentKey string `yaml:"maxConcurrentKey"`
		MaxConcurrent    int    `yaml:"maxConcurrent"`
	}
	const defaultMaxConcurrent = 5
	cfg := Config{MaxConcurrent: defaultMaxConcurrent}
	if err := econf.UnmarshalKey("scheduler", &cfg); err != nil {
		panic(err)
	}
	schedCfg := scheduler.DefaultConfig()
	if err := econf.UnmarshalKey("scheduler", &schedCfg); err != nil {
		panic(err)
	}

	sem := loopjob.NewResourceSemaphore(cfg.MaxConcurrent)
	watchInt(etcdClient, cfg.MaxConcurrentKey, func(val int) {
		elog.DefaultLogger.Info("调整最大并发活动数", elog.Int("from", sem.MaxCount()), elog.Int("to", val))
		sem.UpdateMaxCount(val)
	})
	return scheduler.NewCampaignScheduler(repo, p, limiter, sem, producer, closer, schedCfg)
}
