package redis

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"github.com/redis/go-redis/v9"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/repository/cache"
)

var (
	//go:embed lua/pop_batch.lua
	popBatchScript string
	//go:embed lua/schedule_retry.lua
	scheduleRetryScript string
	//go:embed lua/promote_due.lua
	promoteDueScript string

	_ cache.MessageQueueCache = (*messageQueueCache)(nil)
)

type messageQueueCache struct {
	client redis.Cmdable
	logger *elog.Component
}

func (c *messageQueueCache) Push(ctx context.Context, campaignID int64, msgs ...domain.QueuedMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	vals, err := c.marshal(msgs)
	if err != nil {
		return err
	}
	return c.wrap(c.client.RPush(ctx, c.primaryKey(campaignID), vals...).Err())
}

func (c *messageQueueCache) PopBatch(ctx context.Context, campaignID int64, n int) ([]domain.QueuedMessage, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n = %d", errs.ErrInvalidParameter, n)
	}
	items, err := c.client.Eval(ctx, popBatchScript, []string{c.primaryKey(campaignID)}, n).StringSlice()
	if err != nil {
		return nil, c.wrap(err)
	}
	res := make([]domain.QueuedMessage, 0, len(items))
	for _, item := range items {
		msg, err := domain.UnmarshalQueuedMessage(item)
		if err != nil {
			// 坏数据直接丢掉，留在队列里只会一直阻塞
			c.logger.Error("队列消息反序列化失败，丢弃",
				elog.Int64("campaignID", campaignID),
				elog.String("payload", item),
				elog.FieldErr(err))
			continue
		}
		// 只在重试队列里才有下次重试时间
		msg.NextRetryAt = time.Time{}
		res = append(res, msg)
	}
	return res, nil
}

func (c *messageQueueCache) Requeue(ctx context.Context, campaignID int64, msgs ...domain.QueuedMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	vals, err := c.marshal(msgs)
	if err != nil {
		return err
	}
	// LPUSH 会把最后一个参数放到最前面，所以要倒过来
	reversed := make([]any, 0, len(vals))
	for i := len(vals) - 1; i >= 0; i-- {
		reversed = append(reversed, vals[i])
	}
	return c.wrap(c.client.LPush(ctx, c.primaryKey(campaignID), reversed...).Err())
}

func (c *messageQueueCache) Attempts(ctx context.Context, campaignID int64, msgID string) (int, error) {
	cnt, err := c.client.HGet(ctx, c.attemptsKey(campaignID), msgID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return cnt, c.wrap(err)
}

func (c *messageQueueCache) ScheduleRetry(ctx context.Context, msg domain.QueuedMessage, nextRetryAt time.Time) (int, error) {
	msg.NextRetryAt = nextRetryAt
	payload, err := msg.Marshal()
	if err != nil {
		return 0, err
	}
	cnt, err := c.client.Eval(ctx, scheduleRetryScript,
		[]string{c.retryKey(msg.CampaignID), c.payloadKey(msg.CampaignID), c.attemptsKey(msg.CampaignID)},
		msg.ID,
		nextRetryAt.UnixMilli(),
		payload,
	).Int()
	return cnt, c.wrap(err)
}

func (c *messageQueueCache) ClearAttempts(ctx context.Context, campaignID int64, msgID string) error {
	return c.wrap(c.client.HDel(ctx, c.attemptsKey(campaignID), msgID).Err())
}

func (c *messageQueueCache) PromoteDue(ctx context.Context, campaignID int64, now time.Time, limit int) (int, error) {
	if limit <= 0 {
		return 0, fmt.Errorf("%w: limit = %d", errs.ErrInvalidParameter, limit)
	}
	total := 0
	for {
		res, err := c.client.Eval(ctx, promoteDueScript,
			[]string{c.retryKey(campaignID), c.payloadKey(campaignID), c.primaryKey(campaignID)},
			now.UnixMilli(),
			limit,
		).Int64Slice()
		if err != nil {
			return total, c.wrap(err)
		}
		const resLen = 2
		if len(res) != resLen {
			return total, fmt.Errorf("重试队列脚本返回值异常 %v", res)
		}
		total += int(res[0])
		if res[1] < int64(limit) {
			return total, nil
		}
	}
}

func (c *messageQueueCache) Depth(ctx context.Context, campaignID int64) (int64, int64, error) {
	var (
		primary *redis.IntCmd
		retry   *redis.IntCmd
	)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		primary = pipe.LLen(ctx, c.primaryKey(campaignID))
		retry = pipe.ZCard(ctx, c.retryKey(campaignID))
		return nil
	})
	if err != nil {
		return 0, 0, c.wrap(err)
	}
	return primary.Val(), retry.Val(), nil
}

func (c *messageQueueCache) Ping(ctx context.Context) error {
	return c.wrap(c.client.Ping(ctx).Err())
}

func (c *messageQueueCache) marshal(msgs []domain.QueuedMessage) ([]any, error) {
	vals := make([]any, 0, len(msgs))
	for i := range msgs {
		val, err := msgs[i].Marshal()
		if err != nil {
			return nil, fmt.Errorf("序列化队列消息失败 %s: %w", msgs[i].ID, err)
		}
		vals = append(vals, val)
	}
	return vals, nil
}

// wrap 存储层的错误统一标记为 ErrStoreUnavailable，方便上层判断是否可以重试
func (c *messageQueueCache) wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
}

func (c *messageQueueCache) primaryKey(campaignID int64) string {
	return fmt.Sprintf("queue:primary:%d", campaignID)
}

func (c *messageQueueCache) retryKey(campaignID int64) string {
	return fmt.Sprintf("queue:retry:%d", campaignID)
}

func (c *messageQueueCache) payloadKey(campaignID int64) string {
	return fmt.Sprintf("queue:retry:payload:%d", campaignID)
}

func (c *messageQueueCache) attemptsKey(campaignID int64) string {
	return fmt.Sprintf("queue:attempts:%d", campaignID)
}

func NewMessageQueueCache(client redis.Cmdable) cache.MessageQueueCache {
	return &messageQueueCache{
		client: client,
		logger: elog.DefaultLogger,
	}
}
