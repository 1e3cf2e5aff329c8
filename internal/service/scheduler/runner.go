package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gotomicro/ego/core/elog"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/pkg/bitring"
	"campaign-dispatcher/internal/service/processor"
)

// runner 一个活动的调度协程
type runner struct {
	id       int64
	schedule domain.ScheduleConfig

	cancel context.CancelFunc
	done   chan struct{}

	// mu 保证同一个活动的状态变更串行执行
	mu     sync.Mutex
	status domain.CampaignStatus

	lastBeat    atomic.Int64
	fatalEvents *bitring.BitRing
	releaseOnce sync.Once

	// started 等到开始时间之后才置为 true，之前不检查心跳
	started atomic.Bool
}

func newRunner(c domain.Campaign, cancel context.CancelFunc, cfg ErrorEventConfig) *runner {
	r := &runner{
		id:          c.ID,
		schedule:    c.Schedule,
		cancel:      cancel,
		done:        make(chan struct{}),
		status:      c.Status,
		fatalEvents: bitring.NewBitRing(cfg.BitRingSize, cfg.RateThreshold, cfg.ConsecutiveCount),
	}
	r.beat()
	return r
}

func (r *runner) beat() {
	r.lastBeat.Store(time.Now().UnixNano())
}

func (r *runner) sinceLastBeat() time.Duration {
	return time.Since(time.Unix(0, r.lastBeat.Load()))
}

func (r *runner) currentStatus() domain.CampaignStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *runner) exited() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// loop 等到开始时间，之后每个 CheckInterval 跑一轮，直到活动结束或者被停止
func (s *campaignScheduler) loop(ctx context.Context, r *runner, startAt time.Time) {
	defer close(r.done)
	if err := s.sleep(ctx, startAt.Sub(s.now())); err != nil {
		return
	}
	r.beat()
	r.started.Store(true)
	if r.currentStatus() == domain.CampaignStatusScheduled {
		if err := s.transit(ctx, r, domain.CampaignStatusRunning, domain.StatusMeta{}); err != nil {
			s.logger.Error("活动启动失败", elog.Int64("campaignID", r.id), elog.FieldErr(err))
			s.detach(ctx, r)
			return
		}
	}

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()
	for {
		if s.cycle(ctx, r) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *campaignScheduler) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cycle 跑一轮：先把到期的重试消息挪回主队列，再消费一批。返回 true 表示调度协程应该退出
func (s *campaignScheduler) cycle(ctx context.Context, r *runner) bool {
	r.beat()
	switch r.currentStatus() {
	case domain.CampaignStatusPaused:
		return false
	case domain.CampaignStatusRunning:
	default:
		return true
	}

	if r.schedule.HasWindowEnded(s.now()) {
		return s.finish(ctx, r, true)
	}

	if _, err := s.processor.ProcessRetryQueue(ctx, r.id); err != nil {
		if ctx.Err() != nil {
			return true
		}
		s.logger.Warn("重试队列处理失败", elog.Int64("campaignID", r.id), elog.FieldErr(err))
	}

	m, err := s.processor.ProcessBatch(processor.WithHeartbeat(ctx, r.beat), r.id)
	if ctx.Err() != nil {
		return true
	}
	r.fatalEvents.Add(err != nil)
	if err != nil {
		s.logger.Error("批量发送失败",
			elog.Int64("campaignID", r.id),
			elog.String("class", errs.Class(err)),
			elog.FieldErr(err))
		return false
	}
	if !m.IsEmpty() {
		s.logger.Info("批量发送完成",
			elog.Int64("campaignID", r.id),
			elog.Int("processed", m.Processed),
			elog.Int("successful", m.Successful),
			elog.Int("failed", m.Failed),
			elog.Int("retried", m.Retried),
			elog.Int("rateLimited", m.RateLimited))
		s.refreshMetrics(ctx, r.id)
	}
	if m.RateLimited > 0 {
		return false
	}
	return s.finish(ctx, r, false)
}

// finish 两个队列都空了就结束活动。windowEnded 时还有剩余消息直接判定失败
func (s *campaignScheduler) finish(ctx context.Context, r *runner, windowEnded bool) bool {
	ctx = context.WithoutCancel(ctx)
	primary, retry, err := s.processor.QueueDepth(ctx, r.id)
	if err != nil {
		s.logger.Warn("查询队列长度失败", elog.Int64("campaignID", r.id), elog.FieldErr(err))
		return false
	}
	pending := primary + retry
	if pending > 0 && !windowEnded {
		return false
	}

	to := domain.CampaignStatusCompleted
	var meta domain.StatusMeta
	if pending > 0 {
		to = domain.CampaignStatusFailed
		meta = domain.StatusMeta{
			Reason:     fmt.Sprintf("发送窗口已结束，还有 %d 条消息未发送", pending),
			ErrorClass: "window_ended",
		}
	} else {
		c, er := s.repo.GetCampaign(ctx, r.id)
		if er != nil {
			s.logger.Warn("查询活动失败", elog.Int64("campaignID", r.id), elog.FieldErr(er))
			return false
		}
		if c.Counters.Failed > 0 {
			to = domain.CampaignStatusFailed
			meta = domain.StatusMeta{
				Reason:     fmt.Sprintf("%d 条消息最终发送失败", c.Counters.Failed),
				ErrorClass: "delivery_failed",
			}
		}
	}
	s.refreshMetrics(ctx, r.id)
	if err = s.transit(ctx, r, to, meta); err != nil {
		s.logger.Error("结束活动失败", elog.Int64("campaignID", r.id), elog.FieldErr(err))
		return false
	}
	s.detach(ctx, r)
	return true
}

func (s *campaignScheduler) refreshMetrics(ctx context.Context, id int64) {
	ctx = context.WithoutCancel(ctx)
	c, err := s.repo.GetCampaign(ctx, id)
	if err == nil {
		err = s.repo.UpdateMetrics(ctx, id, c.Counters.DeriveMetrics(c.Metrics.AvgDeliveryTime))
	}
	if err != nil {
		s.logger.Warn("刷新活动指标失败", elog.Int64("campaignID", id), elog.FieldErr(err))
	}
}
