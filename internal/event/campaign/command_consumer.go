package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"

	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/repository"
)

const defaultErrorBackoff = time.Second

// CommandConsumer 消费活动操作指令，交给调度器执行
type CommandConsumer struct {
	consumer mq.Consumer
	repo     repository.CampaignRepository
	handler  CommandHandler
	logger   *elog.Component

	errorBackoff time.Duration
}

// Start 后台消费，直到 ctx 被取消
func (c *CommandConsumer) Start(ctx context.Context) {
	go func() {
		for {
			err := c.Consume(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				c.logger.Error("消费活动指令失败", elog.FieldErr(err))
				c.sleep(ctx)
			}
		}
	}()
}

// Consume 消费一条指令。非法的指令和业务上的拒绝只记日志，不会返回错误
func (c *CommandConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}
	var cmd Command
	if err = json.Unmarshal(msg.Value, &cmd); err != nil {
		c.logger.Warn("解析活动指令失败", elog.FieldErr(err), elog.String("value", string(msg.Value)))
		return nil
	}
	err = c.handle(ctx, cmd)
	switch {
	case err == nil:
		c.logger.Info("执行活动指令", elog.Int64("campaignID", cmd.CampaignID), elog.String("action", string(cmd.Action)))
		return nil
	case errors.Is(err, errs.ErrStoreUnavailable):
		return err
	default:
		c.logger.Warn("活动指令被拒绝",
			elog.Int64("campaignID", cmd.CampaignID),
			elog.String("action", string(cmd.Action)),
			elog.FieldErr(err))
		return nil
	}
}

func (c *CommandConsumer) handle(ctx context.Context, cmd Command) error {
	if cmd.CampaignID <= 0 {
		return fmt.Errorf("%w: CampaignID = %d", errs.ErrInvalidParameter, cmd.CampaignID)
	}
	switch cmd.Action {
	case CommandActionSchedule:
		campaign, err := c.repo.GetCampaign(ctx, cmd.CampaignID)
		if err != nil {
			return err
		}
		return c.handler.ScheduleCampaign(ctx, campaign)
	case CommandActionStop:
		return c.handler.StopCampaign(ctx, cmd.CampaignID)
	case CommandActionPause:
		return c.handler.PauseCampaign(ctx, cmd.CampaignID)
	case CommandActionResume:
		return c.handler.ResumeCampaign(ctx, cmd.CampaignID)
	default:
		return fmt.Errorf("%w: Action = %q", errs.ErrInvalidParameter, cmd.Action)
	}
}

func (c *CommandConsumer) sleep(ctx context.Context) {
	timer := time.NewTimer(c.errorBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func NewCommandConsumer(consumer mq.Consumer, repo repository.CampaignRepository, handler CommandHandler) *CommandConsumer {
	return &CommandConsumer{
		consumer:     consumer,
		repo:         repo,
		handler:      handler,
		logger:       elog.DefaultLogger,
		errorBackoff: defaultErrorBackoff,
	}
}
