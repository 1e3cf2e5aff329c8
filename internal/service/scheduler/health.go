package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
)

func (s *campaignScheduler) HealthCheck(ctx context.Context) domain.HealthReport {
	report := domain.HealthReport{
		Status:    domain.HealthStatusHealthy,
		Store:     domain.ComponentHealth{Healthy: true},
		Campaigns: make(map[int64]domain.ComponentHealth),
		CheckedAt: s.now(),
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	if err := s.processor.Ping(ctx); err != nil {
		report.Store = domain.ComponentHealth{Error: err.Error()}
	}

	var (
		mu sync.Mutex
		eg errgroup.Group
	)
	s.runners.Range(func(id int64, r *runner) bool {
		eg.Go(func() error {
			h := s.probe(ctx, r)
			mu.Lock()
			report.Campaigns[id] = h
			mu.Unlock()
			return nil
		})
		return true
	})
	_ = eg.Wait()

	switch {
	case !report.Store.Healthy:
		report.Status = domain.HealthStatusUnhealthy
	case len(report.UnhealthyCampaigns()) > 0:
		report.Status = domain.HealthStatusDegraded
	}
	return report
}

func (s *campaignScheduler) probe(ctx context.Context, r *runner) domain.ComponentHealth {
	if r.exited() {
		return domain.ComponentHealth{Error: "调度协程已经退出"}
	}
	if r.started.Load() && r.currentStatus() == domain.CampaignStatusRunning {
		if idle := r.sinceLastBeat(); idle > s.cfg.StallTimeout {
			return domain.ComponentHealth{Error: fmt.Sprintf("已经 %s 没有心跳", idle.Truncate(time.Second))}
		}
	}
	if r.fatalEvents.IsConditionMet() {
		return domain.ComponentHealth{Error: errs.ErrErrorConditionIsMet.Error()}
	}
	if _, _, err := s.processor.QueueDepth(ctx, r.id); err != nil {
		return domain.ComponentHealth{Error: err.Error()}
	}
	return domain.ComponentHealth{Healthy: true}
}

func (s *campaignScheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.hkMu.Lock()
	if s.hkCancel != nil {
		s.hkMu.Unlock()
		cancel()
		return
	}
	s.hkCancel = cancel
	s.hkMu.Unlock()

	go func() {
		ticker := time.NewTicker(s.cfg.HealthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.housekeep(ctx)
			}
		}
	}()
}

// housekeep 把不健康的活动停掉并置为 FAILED。存储不可用时没法判断，整轮跳过
func (s *campaignScheduler) housekeep(ctx context.Context) {
	report := s.HealthCheck(ctx)
	if !report.Store.Healthy {
		s.logger.Warn("存储不可用，跳过本轮健康检查", elog.String("error", report.Store.Error))
		return
	}
	for _, id := range report.UnhealthyCampaigns() {
		s.failUnhealthy(ctx, id, report.Campaigns[id].Error)
	}
}

func (s *campaignScheduler) failUnhealthy(ctx context.Context, id int64, reason string) {
	r, ok := s.runners.LoadAndDelete(id)
	if !ok {
		return
	}
	if err := s.halt(ctx, r); err != nil {
		s.logger.Warn("停止不健康的活动超时", elog.Int64("campaignID", id), elog.FieldErr(err))
	}
	s.release(ctx, r)
	if r.currentStatus().IsTerminal() {
		return
	}
	err := s.transit(ctx, r, domain.CampaignStatusFailed, domain.StatusMeta{
		Reason:     "活动不健康: " + reason,
		ErrorClass: "unhealthy",
	})
	if err != nil {
		s.logger.Error("标记活动失败出错", elog.Int64("campaignID", id), elog.FieldErr(err))
	}
}
