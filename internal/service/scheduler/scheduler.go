package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/ecodeclub/ekit/syncx"
	"github.com/gotomicro/ego/core/elog"
	"github.com/hashicorp/go-multierror"
	"github.com/robfig/cron/v3"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	campaignevt "campaign-dispatcher/internal/event/campaign"
	"campaign-dispatcher/internal/pkg/loopjob"
	"campaign-dispatcher/internal/pkg/ratelimit"
	"campaign-dispatcher/internal/repository"
	"campaign-dispatcher/internal/service/processor"
)

var (
	_ CampaignScheduler          = (*campaignScheduler)(nil)
	_ campaignevt.CommandHandler = (*campaignScheduler)(nil)
)

type campaignScheduler struct {
	repo      repository.CampaignRepository
	processor processor.BatchProcessor
	limiter   ratelimit.Limiter
	sem       loopjob.ResourceSemaphore
	producer  campaignevt.Producer
	closer    io.Closer
	cfg       Config

	runners syncx.Map[int64, *runner]
	// mu 串行化排期，避免同一个活动被排两次
	mu     sync.Mutex
	parser cron.Parser

	hkMu     sync.Mutex
	hkCancel context.CancelFunc

	now    func() time.Time
	jitter func() time.Duration
	logger *elog.Component
}

func (s *campaignScheduler) ScheduleCampaign(ctx context.Context, c domain.Campaign) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Status.IsActive() {
		return fmt.Errorf("%w: 活动 %d 当前状态 %s", errs.ErrCampaignAlreadyActive, c.ID, c.Status)
	}
	if c.Status != domain.CampaignStatusDraft {
		return fmt.Errorf("%w: 活动 %d 当前状态 %s 不能排期", errs.ErrInvalidStatusTransition, c.ID, c.Status)
	}
	now := s.now()
	if c.Schedule.HasWindowEnded(now) {
		return fmt.Errorf("%w: 活动 %d 的发送窗口已经结束", errs.ErrInvalidParameter, c.ID)
	}
	startAt, err := s.startTime(c.Schedule, now)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runners.Load(c.ID); ok {
		return fmt.Errorf("%w: %d", errs.ErrCampaignAlreadyActive, c.ID)
	}
	if err = s.sem.Acquire(ctx); err != nil {
		if errors.Is(err, errs.ErrExceedLimit) {
			return fmt.Errorf("%w: 活动 %d: %w", errs.ErrCapacityExceeded, c.ID, err)
		}
		return err
	}

	err = s.repo.UpdateStatus(ctx, c.ID, domain.CampaignStatusDraft, domain.CampaignStatusScheduled, domain.StatusMeta{})
	if err != nil {
		_ = s.sem.Release(ctx)
		return err
	}
	c.Status = domain.CampaignStatusScheduled
	s.publish(ctx, campaignevt.NewStatusChangedEvent(c.ID, domain.CampaignStatusDraft, domain.CampaignStatusScheduled, ""))

	if c.Schedule.AutoStart {
		// 立即进入 RUNNING，第一轮仍然错开启动
		err = s.repo.UpdateStatus(ctx, c.ID, domain.CampaignStatusScheduled, domain.CampaignStatusRunning, domain.StatusMeta{})
		if err != nil {
			s.logger.Warn("自动启动失败，等到开始时间再启动", elog.Int64("campaignID", c.ID), elog.FieldErr(err))
		} else {
			c.Status = domain.CampaignStatusRunning
			s.publish(ctx, campaignevt.NewStatusChangedEvent(c.ID, domain.CampaignStatusScheduled, domain.CampaignStatusRunning, ""))
		}
	}
	s.attach(c, startAt)
	s.logger.Info("活动已排期",
		elog.Int64("campaignID", c.ID),
		elog.String("status", c.Status.String()),
		elog.Any("startAt", startAt))
	return nil
}

// startTime max(now, StartTime 或者 cron 的下一次触发时间) 再加上随机错峰
func (s *campaignScheduler) startTime(sc domain.ScheduleConfig, now time.Time) (time.Time, error) {
	start := now
	if sc.StartTime.After(start) {
		start = sc.StartTime
	}
	if sc.Recurrence != "" {
		sched, err := s.parser.Parse(sc.Recurrence)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: Recurrence = %q: %w", errs.ErrInvalidParameter, sc.Recurrence, err)
		}
		start = sched.Next(start)
	}
	return start.Add(s.jitter()), nil
}

// attach 登记 runner 并启动调度协程，调用方需要已经占到名额
func (s *campaignScheduler) attach(c domain.Campaign, startAt time.Time) *runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := newRunner(c, cancel, s.cfg.ErrorEvents)
	unit := s.cfg.IntervalUnit
	minInterval := time.Duration(c.Schedule.RateLimit) * unit
	s.limiter.SetIntervalBounds(processor.LimiterKey(c.ID), minInterval, 2*minInterval)
	s.runners.Store(c.ID, r)
	go s.loop(ctx, r, startAt)
	return r
}

func (s *campaignScheduler) StopCampaign(ctx context.Context, id int64) error {
	r, ok := s.runners.LoadAndDelete(id)
	if !ok {
		return nil
	}
	err := s.halt(ctx, r)
	s.release(ctx, r)
	s.logger.Info("活动已停止", elog.Int64("campaignID", id), elog.FieldErr(err))
	return err
}

// halt 通知调度协程退出，最多等 StopGracePeriod，正在发送的消息会发完
func (s *campaignScheduler) halt(ctx context.Context, r *runner) error {
	r.cancel()
	timer := time.NewTimer(s.cfg.StopGracePeriod)
	defer timer.Stop()
	select {
	case <-r.done:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: 活动 %d", errs.ErrStopTimeout, r.id)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release 归还名额，清理限流器和处理器里的本地状态，只会执行一次
func (s *campaignScheduler) release(ctx context.Context, r *runner) {
	r.releaseOnce.Do(func() {
		s.limiter.Forget(processor.LimiterKey(r.id))
		s.processor.Forget(r.id)
		if err := s.sem.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("归还并发名额失败", elog.Int64("campaignID", r.id), elog.FieldErr(err))
		}
	})
}

// detach 调度协程自己结束时调用
func (s *campaignScheduler) detach(ctx context.Context, r *runner) {
	if cur, ok := s.runners.Load(r.id); ok && cur == r {
		s.runners.Delete(r.id)
	}
	s.release(ctx, r)
}

func (s *campaignScheduler) PauseCampaign(ctx context.Context, id int64) error {
	r, ok := s.runners.Load(id)
	if !ok {
		return fmt.Errorf("%w: %d", errs.ErrCampaignNotActive, id)
	}
	return s.transit(ctx, r, domain.CampaignStatusPaused, domain.StatusMeta{})
}

func (s *campaignScheduler) ResumeCampaign(ctx context.Context, id int64) error {
	r, ok := s.runners.Load(id)
	if !ok {
		return fmt.Errorf("%w: %d", errs.ErrCampaignNotActive, id)
	}
	if r.currentStatus() != domain.CampaignStatusPaused {
		return fmt.Errorf("%w: 活动 %d 当前状态 %s", errs.ErrInvalidStatusTransition, id, r.currentStatus())
	}
	return s.transit(ctx, r, domain.CampaignStatusRunning, domain.StatusMeta{})
}

// transit 以 runner 记录的状态为准做一次 CAS 状态变更
func (s *campaignScheduler) transit(ctx context.Context, r *runner, to domain.CampaignStatus, meta domain.StatusMeta) error {
	ctx = context.WithoutCancel(ctx)
	r.mu.Lock()
	from := r.status
	err := s.repo.UpdateStatus(ctx, r.id, from, to, meta)
	if err == nil {
		r.status = to
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(ctx, campaignevt.NewStatusChangedEvent(r.id, from, to, meta.Reason))
	s.logger.Info("活动状态变更",
		elog.Int64("campaignID", r.id),
		elog.String("from", from.String()),
		elog.String("to", to.String()),
		elog.String("reason", meta.Reason))
	return nil
}

func (s *campaignScheduler) publish(ctx context.Context, evt campaignevt.StatusChangedEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.ProduceStatusChanged(ctx, evt); err != nil {
		s.logger.Warn("发送状态变更事件失败", elog.Int64("campaignID", evt.CampaignID), elog.FieldErr(err))
	}
}

func (s *campaignScheduler) ActiveCampaigns() []int64 {
	var ids []int64
	s.runners.Range(func(id int64, _ *runner) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)
	return ids
}

func (s *campaignScheduler) Recover(ctx context.Context) (int, error) {
	campaigns, err := s.repo.FindByStatuses(ctx,
		domain.CampaignStatusScheduled, domain.CampaignStatusRunning, domain.CampaignStatusPaused)
	if err != nil {
		return 0, err
	}
	var (
		result *multierror.Error
		cnt    int
	)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range campaigns {
		c := campaigns[i]
		if _, ok := s.runners.Load(c.ID); ok {
			continue
		}
		if err = s.sem.Acquire(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: 活动 %d: %w", errs.ErrCapacityExceeded, c.ID, err))
			continue
		}
		now := s.now()
		start := now
		if c.Schedule.StartTime.After(start) {
			start = c.Schedule.StartTime
		}
		startAt := start.Add(s.jitter())
		if c.Status == domain.CampaignStatusScheduled {
			if startAt, err = s.startTime(c.Schedule, now); err != nil {
				_ = s.sem.Release(ctx)
				result = multierror.Append(result, err)
				continue
			}
		}
		s.attach(c, startAt)
		cnt++
	}
	s.logger.Info("接管未结束的活动", elog.Int("total", len(campaigns)), elog.Int("recovered", cnt))
	return cnt, result.ErrorOrNil()
}

func (s *campaignScheduler) Shutdown(ctx context.Context) error {
	s.hkMu.Lock()
	if s.hkCancel != nil {
		s.hkCancel()
	}
	s.hkMu.Unlock()

	var result *multierror.Error
	for _, id := range s.ActiveCampaigns() {
		if err := s.StopCampaign(ctx, id); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("关闭存储连接失败: %w", err))
		}
	}
	return result.ErrorOrNil()
}

// NewCampaignScheduler producer 和 closer 都可以为 nil
func NewCampaignScheduler(
	repo repository.CampaignRepository,
	p processor.BatchProcessor,
	limiter ratelimit.Limiter,
	sem loopjob.ResourceSemaphore,
	producer campaignevt.Producer,
	closer io.Closer,
	cfg Config,
) CampaignScheduler {
	return newCampaignScheduler(repo, p, limiter, sem, producer, closer, cfg)
}

func newCampaignScheduler(
	repo repository.CampaignRepository,
	p processor.BatchProcessor,
	limiter ratelimit.Limiter,
	sem loopjob.ResourceSemaphore,
	producer campaignevt.Producer,
	closer io.Closer,
	cfg Config,
) *campaignScheduler {
	def := DefaultConfig()
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = def.CheckInterval
	}
	if cfg.HealthCheckInterval <= 0 {
		cfg.HealthCheckInterval = def.HealthCheckInterval
	}
	if cfg.StopGracePeriod <= 0 {
		cfg.StopGracePeriod = def.StopGracePeriod
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = def.ProbeTimeout
	}
	if cfg.StallTimeout <= 0 {
		cfg.StallTimeout = def.StallTimeout
	}
	if cfg.IntervalUnit <= 0 {
		cfg.IntervalUnit = def.IntervalUnit
	}
	if cfg.StaggerMax < cfg.StaggerMin {
		cfg.StaggerMax = cfg.StaggerMin
	}
	return &campaignScheduler{
		repo:      repo,
		processor: p,
		limiter:   limiter,
		sem:       sem,
		producer:  producer,
		closer:    closer,
		cfg:       cfg,
		parser:    cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		now:       time.Now,
		jitter:    staggerJitter(cfg.StaggerMin, cfg.StaggerMax),
		logger:    elog.DefaultLogger,
	}
}

func staggerJitter(lo, hi time.Duration) func() time.Duration {
	return func() time.Duration {
		if hi <= lo {
			return lo
		}
		return lo + rand.N(hi-lo+1)
	}
}
