package processor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ecodeclub/ekit/syncx"
	"github.com/gotomicro/ego/core/elog"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	campaignevt "campaign-dispatcher/internal/event/campaign"
	"campaign-dispatcher/internal/pkg/idempotent"
	"campaign-dispatcher/internal/pkg/ratelimit"
	"campaign-dispatcher/internal/repository"
	"campaign-dispatcher/internal/service/provider"
)

var _ BatchProcessor = (*batchProcessor)(nil)

type batchProcessor struct {
	queue      repository.MessageQueueRepository
	repo       repository.CampaignRepository
	limiter    ratelimit.Limiter
	provider   provider.Provider
	idempotent idempotent.IdempotencyService
	producer   campaignevt.Producer
	cfg        Config

	// lastSent 每个活动最近一次发送的时间，用来控制两次发送的间隔
	lastSent syncx.Map[int64, time.Time]
	now      func() time.Time
	logger   *elog.Component
}

func (p *batchProcessor) ProcessBatch(ctx context.Context, campaignID int64) (domain.BatchMetrics, error) {
	var metrics domain.BatchMetrics
	if campaignID <= 0 {
		return metrics, fmt.Errorf("%w: campaignID = %d", errs.ErrInvalidParameter, campaignID)
	}
	msgs, err := p.queue.PopBatch(ctx, campaignID, p.cfg.BatchSize)
	if err != nil {
		return metrics, fmt.Errorf("拉取主队列失败: %w", err)
	}
	if len(msgs) == 0 {
		return metrics, nil
	}

	key := LimiterKey(campaignID)
	var elapsed time.Duration
	defer func() {
		if metrics.Processed > 0 {
			metrics.ProcessingTime = elapsed / time.Duration(metrics.Processed)
		}
	}()

	for i := range msgs {
		heartbeat(ctx)
		if msgs[i].Exhausted(p.cfg.MaxRetries) {
			// 上一轮没记下来的永久失败，不再发送，也不占令牌
			if _, err = p.markFailed(context.WithoutCancel(ctx), &msgs[i]); err != nil {
				return metrics, errors.Join(err, p.putBack(ctx, campaignID, msgs[i:]))
			}
			metrics.Processed++
			metrics.Failed++
			continue
		}
		if err = p.pace(ctx, campaignID, key); err != nil {
			// 活动被停止，没发出去的都放回去
			return metrics, errors.Join(err, p.putBack(ctx, campaignID, msgs[i:]))
		}

		start := p.now()
		allowed, err := p.acquire(ctx, key)
		if err != nil {
			return metrics, errors.Join(err, p.putBack(ctx, campaignID, msgs[i:]))
		}
		if !allowed {
			metrics.RateLimited = len(msgs) - i
			p.logger.Info("令牌不足，本轮剩余消息放回队列",
				elog.Int64("campaignID", campaignID),
				elog.Int("remaining", metrics.RateLimited))
			return metrics, p.putBack(ctx, campaignID, msgs[i:])
		}

		outcome, err := p.process(ctx, key, &msgs[i])
		elapsed += p.now().Sub(start)
		if err != nil {
			p.logger.Error("批次处理中止",
				elog.Int64("campaignID", campaignID),
				elog.String("messageID", msgs[i].ID),
				elog.Any("unsent", domain.MessageIDs(msgs[i:])),
				elog.FieldErr(err))
			return metrics, errors.Join(err, p.putBack(ctx, campaignID, msgs[i:]))
		}
		switch outcome {
		case domain.MessageStatusDelivered:
			metrics.Processed++
			metrics.Successful++
		case domain.MessageStatusRetryScheduled:
			metrics.Processed++
			metrics.Retried++
		case domain.MessageStatusFailedPermanent:
			metrics.Processed++
			metrics.Failed++
		}
	}
	heartbeat(ctx)
	return metrics, nil
}

// process 发送一条消息并记账。返回 error 表示本轮必须中止，当前消息会和剩下的一起放回主队列
func (p *batchProcessor) process(ctx context.Context, key string, msg *domain.QueuedMessage) (domain.MessageStatus, error) {
	// 已经开始的发送和记账不受停止信号影响
	ctx = context.WithoutCancel(ctx)

	idemKey := idempotencyKey(*msg)
	dup, err := p.idempotent.Exists(ctx, idemKey)
	if err != nil {
		p.logger.Warn("幂等检查失败，继续发送", elog.String("messageID", msg.ID), elog.FieldErr(err))
	}
	if dup {
		// 不计入本轮统计
		p.logger.Warn("消息已经发送过，跳过", elog.String("messageID", msg.ID))
		return "", nil
	}

	start := p.now()
	sendCtx, cancel := context.WithTimeout(ctx, p.cfg.SendTimeout)
	_, sendErr := p.provider.Send(sendCtx, msg.Recipient, msg.Content)
	cancel()
	sentAt := p.now()
	p.lastSent.Store(msg.CampaignID, sentAt)

	if sendErr == nil {
		p.limiter.RecordOutcome(ctx, key, true)
		p.onDelivered(ctx, *msg, sentAt.Sub(start), sentAt)
		return domain.MessageStatusDelivered, nil
	}

	if err = p.idempotent.Release(ctx, idemKey); err != nil {
		p.logger.Warn("释放幂等标记失败", elog.String("messageID", msg.ID), elog.FieldErr(err))
	}
	p.limiter.RecordOutcome(ctx, key, false)
	if !errs.IsRetryable(sendErr) {
		return "", fmt.Errorf("%w: 消息 %s: %w", errs.ErrFatalBatch, msg.ID, sendErr)
	}
	return p.onRetryable(ctx, msg, sendErr)
}

func (p *batchProcessor) onDelivered(ctx context.Context, msg domain.QueuedMessage, latency time.Duration, sentAt time.Time) {
	if err := p.repo.MarkDelivered(ctx, msg.CampaignID, latency, sentAt); err != nil {
		// 消息已经发出去了，只能记日志
		p.logger.Error("更新投递计数失败",
			elog.Int64("campaignID", msg.CampaignID),
			elog.String("messageID", msg.ID),
			elog.FieldErr(err))
	}
	if err := p.queue.ClearAttempts(ctx, msg.CampaignID, msg.ID); err != nil {
		p.logger.Warn("清理重试次数失败", elog.String("messageID", msg.ID), elog.FieldErr(err))
	}
}

func (p *batchProcessor) onRetryable(ctx context.Context, msg *domain.QueuedMessage, sendErr error) (domain.MessageStatus, error) {
	attempts, err := p.queue.Attempts(ctx, msg.CampaignID, msg.ID)
	if err != nil {
		return "", fmt.Errorf("查询重试次数失败: %w", err)
	}
	if attempts < p.cfg.MaxRetries {
		delay := p.backoff(attempts)
		retry := *msg
		retry.Attempts = attempts + 1
		if _, err = p.queue.ScheduleRetry(ctx, retry, p.now().Add(delay)); err != nil {
			return "", fmt.Errorf("写入重试队列失败: %w", err)
		}
		p.logger.Info("消息发送失败，稍后重试",
			elog.String("messageID", msg.ID),
			elog.Int("attempts", retry.Attempts),
			elog.Any("delay", delay),
			elog.FieldErr(sendErr))
		return domain.MessageStatusRetryScheduled, nil
	}

	msg.Attempts = attempts + 1
	msg.LastError = sendErr.Error()
	msg.LastErrorClass = errs.Class(sendErr)
	return p.markFailed(ctx, msg)
}

// markFailed 记录永久失败。记录不成功就返回 error，消息会带着失败信息放回主队列，下一轮只补记录
func (p *batchProcessor) markFailed(ctx context.Context, msg *domain.QueuedMessage) (domain.MessageStatus, error) {
	entry := domain.ErrorLogEntry{
		Time:       p.now(),
		MessageID:  msg.ID,
		Recipient:  msg.Recipient,
		ErrorClass: msg.LastErrorClass,
		Error:      msg.LastError,
		Attempts:   msg.Attempts,
	}
	if err := p.repo.MarkFailed(ctx, msg.CampaignID, entry); err != nil {
		p.logger.Error("记录永久失败失败",
			elog.Int64("campaignID", msg.CampaignID),
			elog.String("messageID", msg.ID),
			elog.FieldErr(err))
		return "", fmt.Errorf("记录消息 %s 永久失败: %w", msg.ID, err)
	}
	if err := p.queue.ClearAttempts(ctx, msg.CampaignID, msg.ID); err != nil {
		p.logger.Warn("清理重试次数失败", elog.String("messageID", msg.ID), elog.FieldErr(err))
	}
	if p.producer != nil {
		if err := p.producer.ProduceMessageFailed(ctx, campaignevt.NewMessageFailedEvent(entry, msg.CampaignID)); err != nil {
			p.logger.Warn("发送消息失败事件失败", elog.String("messageID", msg.ID), elog.FieldErr(err))
		}
	}
	return domain.MessageStatusFailedPermanent, nil
}

func idempotencyKey(msg domain.QueuedMessage) string {
	return fmt.Sprintf("%d:%s", msg.CampaignID, msg.ID)
}

// backoff 第 n 次重试之前等待 factor^(n+1) 秒
func (p *batchProcessor) backoff(attempts int) time.Duration {
	return time.Duration(math.Pow(float64(p.cfg.BackoffFactor), float64(attempts+1))) * time.Second
}

// pace 距离上一次发送不足 NextInterval 就等一等
func (p *batchProcessor) pace(ctx context.Context, campaignID int64, key string) error {
	last, ok := p.lastSent.Load(campaignID)
	if !ok {
		return ctx.Err()
	}
	wait := last.Add(p.limiter.NextInterval(ctx, key)).Sub(p.now())
	return p.sleep(ctx, wait)
}

// acquire 拿不到令牌就等一次，再拿不到就放弃这一轮
func (p *batchProcessor) acquire(ctx context.Context, key string) (bool, error) {
	res, err := p.limiter.CheckAndConsume(ctx, key)
	if err != nil {
		p.logger.Warn("限流检查失败，放行", elog.String("key", key), elog.FieldErr(err))
		return true, nil
	}
	if res.Allowed {
		return true, nil
	}
	wait := min(res.Wait, p.cfg.MaxRateLimitWait)
	heartbeat(ctx)
	if err = p.sleep(ctx, wait); err != nil {
		return false, err
	}
	res, err = p.limiter.CheckAndConsume(ctx, key)
	if err != nil {
		return true, nil
	}
	return res.Allowed, nil
}

func (p *batchProcessor) sleep(ctx context.Context, d time.Duration) error {
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

func (p *batchProcessor) putBack(ctx context.Context, campaignID int64, msgs []domain.QueuedMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	err := p.queue.Requeue(context.WithoutCancel(ctx), campaignID, msgs...)
	if err != nil {
		p.logger.Error("消息放回主队列失败",
			elog.Int64("campaignID", campaignID),
			elog.Any("messageIDs", domain.MessageIDs(msgs)),
			elog.FieldErr(err))
		return fmt.Errorf("放回主队列失败: %w", err)
	}
	return nil
}

func (p *batchProcessor) ProcessRetryQueue(ctx context.Context, campaignID int64) (int, error) {
	return p.queue.PromoteDue(ctx, campaignID, p.now(), p.cfg.PromoteLimit)
}

func (p *batchProcessor) QueueDepth(ctx context.Context, campaignID int64) (int64, int64, error) {
	return p.queue.Depth(ctx, campaignID)
}

func (p *batchProcessor) Forget(campaignID int64) {
	p.lastSent.Delete(campaignID)
}

func (p *batchProcessor) Ping(ctx context.Context) error {
	return p.queue.Ping(ctx)
}

// NewBatchProcessor producer 可以为 nil，表示不发送事件
func NewBatchProcessor(
	queue repository.MessageQueueRepository,
	repo repository.CampaignRepository,
	limiter ratelimit.Limiter,
	p provider.Provider,
	idempotentSvc idempotent.IdempotencyService,
	producer campaignevt.Producer,
	cfg Config,
) BatchProcessor {
	return newBatchProcessor(queue, repo, limiter, p, idempotentSvc, producer, cfg, time.Now)
}

func newBatchProcessor(
	queue repository.MessageQueueRepository,
	repo repository.CampaignRepository,
	limiter ratelimit.Limiter,
	p provider.Provider,
	idempotentSvc idempotent.IdempotencyService,
	producer campaignevt.Producer,
	cfg Config,
	now func() time.Time,
) *batchProcessor {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.BackoffFactor <= 1 {
		cfg.BackoffFactor = def.BackoffFactor
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = def.SendTimeout
	}
	if cfg.PromoteLimit <= 0 {
		cfg.PromoteLimit = def.PromoteLimit
	}
	return &batchProcessor{
		queue:      queue,
		repo:       repo,
		limiter:    limiter,
		provider:   p,
		idempotent: idempotentSvc,
		producer:   producer,
		cfg:        cfg,
		now:        now,
		logger:     elog.DefaultLogger,
	}
}
