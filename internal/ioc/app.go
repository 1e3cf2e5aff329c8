package ioc

import (
	"context"

	"github.com/gotomicro/ego/task/ecron"
	"github.com/prometheus/client_golang/prometheus"

	campaignevt "campaign-dispatcher/internal/event/campaign"
	"campaign-dispatcher/internal/repository"
	"campaign-dispatcher/internal/repository/cache/local"
	redisqueue "campaign-dispatcher/internal/repository/cache/redis"
	"campaign-dispatcher/internal/repository/dao"
	"campaign-dispatcher/internal/service/maintenance"
	"campaign-dispatcher/internal/service/scheduler"
)

type Task interface {
	Start(ctx context.Context)
}

type App struct {
	Scheduler scheduler.CampaignScheduler
	Tasks     []Task
	Crons     []ecron.Ecron
}

func (a *App) StartTasks(ctx context.Context) {
	for _, t := range a.Tasks {
		go func(t Task) {
			t.Start(ctx)
		}(t)
	}
}

// InitApp 组装整个调度服务，指标注册到 Prometheus 默认的 registry，由 governor 暴露
func InitApp() *App {
	reg := prometheus.DefaultRegisterer

	db := InitDB()
	redisClient := InitRedisClient()
	etcdClient := InitEtcdClient()
	dclient := InitDistributedLock(redisClient)

	campaignRepo := repository.NewCampaignRepository(dao.NewCampaignDAO(db), local.NewCampaignCache(InitLocalCache()))
	queueRepo := repository.NewMessageQueueRepository(redisqueue.NewMessageQueueCache(redisClient))

	limiterCfg := InitLimiterConfig()
	limiter := InitLimiter(redisClient, limiterCfg, reg)
	producer, commandConsumer := InitEvents()

	p := InitBatchProcessor(queueRepo, campaignRepo, limiter,
		InitProvider(redisClient, reg), InitIdempotencyService(redisClient), producer, reg)
	sched := InitCampaignScheduler(campaignRepo, p, limiter, producer, etcdClient, redisClient)

	return &App{
		Scheduler: sched,
		Tasks: InitTasks(
			sched,
			campaignevt.NewCommandConsumer(commandConsumer, campaignRepo, sched),
			InitLimiterCleanupTask(dclient, limiter, limiterCfg),
		),
		Crons: Crons(maintenance.NewQueueDepthReporter(sched, p, reg)),
	}
}
