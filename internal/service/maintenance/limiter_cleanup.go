package maintenance

import (
	"context"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"github.com/meoying/dlock-go"

	"campaign-dispatcher/internal/pkg/loopjob"
	"campaign-dispatcher/internal/pkg/ratelimit"
)

// LimiterCleanupTask 清理过期的令牌桶，多实例部署时靠分布式锁保证只有一个实例在清理
type LimiterCleanupTask struct {
	dclient dlock.Client
	limiter ratelimit.Limiter
	batch   int
	idle    time.Duration
	logger  *elog.Component
}

func (t *LimiterCleanupTask) Cleanup(ctx context.Context) error {
	n, err := t.limiter.Cleanup(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		t.logger.Info("清理过期令牌桶", elog.Int("cnt", n))
	}
	// 没清满一批，说明过期的不多，歇一会
	if n < t.batch {
		timer := time.NewTimer(t.idle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
	return nil
}

func (t *LimiterCleanupTask) Start(ctx context.Context) {
	const key = "campaign_dispatcher_limiter_cleanup"
	lj := loopjob.NewInfiniteLoop(t.dclient, t.Cleanup, key)
	lj.Run(ctx)
}

// NewLimiterCleanupTask batch 要和限流器一次清理的上限保持一致
func NewLimiterCleanupTask(dclient dlock.Client, limiter ratelimit.Limiter, batch int, idle time.Duration) *LimiterCleanupTask {
	return &LimiterCleanupTask{
		dclient: dclient,
		limiter: limiter,
		batch:   batch,
		idle:    idle,
		logger:  elog.DefaultLogger,
	}
}
