package ioc

import (
	"time"

	"github.com/gotomicro/ego/core/econf"
	"github.com/meoying/dlock-go"

	campaignevt "campaign-dispatcher/internal/event/campaign"
	"campaign-dispatcher/internal/pkg/ratelimit"
	"campaign-dispatcher/internal/service/maintenance"
	"campaign-dispatcher/internal/service/scheduler"
)

func InitLimiterCleanupTask(dclient dlock.Client, limiter ratelimit.Limiter, cfg ratelimit.Config) *maintenance.LimiterCleanupTask {
	idle := econf.GetDuration("maintenance.limiterCleanupIdle")
	if idle <= 0 {
		idle = time.Minute
	}
	return maintenance.NewLimiterCleanupTask(dclient, limiter, cfg.CleanupBatch, idle)
}

func InitTasks(
	t1 scheduler.CampaignScheduler,
	t2 *campaignevt.CommandConsumer,
	t3 *maintenance.LimiterCleanupTask,
) []Task {
	return []Task{
		t1,
		t2,
		t3,
	}
}
