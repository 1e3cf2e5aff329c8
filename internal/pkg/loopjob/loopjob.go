package loopjob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"github.com/meoying/dlock-go"
)

// InfiniteLoop 抢到分布式锁之后一直执行 biz，直到 ctx 被取消。
// 多个实例部署时同一时刻只有一个实例在执行。
//
//go:generate mockgen -package=loopjobmocks -destination=./mocks/dlock.mock.go github.com/meoying/dlock-go Client,Lock
type InfiniteLoop struct {
	dclient dlock.Client
	logger  *elog.Component
	biz     func(ctx context.Context) error
	key     string

	retryInterval  time.Duration
	defaultTimeout time.Duration
	bizTimeout     time.Duration
}

// NewInfiniteLoop biz 是要执行的业务，ctx 被取消的时候退出全部循环
func NewInfiniteLoop(dclient dlock.Client, biz func(ctx context.Context) error, key string) *InfiniteLoop {
	const defaultTimeout = 3 * time.Second
	return newInfiniteLoop(dclient, biz, key, time.Minute, defaultTimeout)
}

// newInfiniteLoop 允许指定重试间隔，便于测试
func newInfiniteLoop(
	dclient dlock.Client,
	biz func(ctx context.Context) error,
	key string,
	retryInterval time.Duration,
	defaultTimeout time.Duration,
) *InfiniteLoop {
	const bizTimeout = 50 * time.Second
	return &InfiniteLoop{
		dclient:        dclient,
		logger:         elog.DefaultLogger,
		biz:            biz,
		key:            key,
		retryInterval:  retryInterval,
		defaultTimeout: defaultTimeout,
		bizTimeout:     bizTimeout,
	}
}

func (l *InfiniteLoop) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		lock, err := l.dclient.NewLock(ctx, l.key, l.retryInterval)
		if err != nil {
			l.logger.Error("初始化分布式锁失败，重试", elog.String("key", l.key), elog.FieldErr(err))
			if !l.sleep(ctx) {
				return
			}
			continue
		}

		lockCtx, cancel := context.WithTimeout(ctx, l.defaultTimeout)
		err = lock.Lock(lockCtx)
		cancel()
		// 没有拿到锁，不管是系统错误，还是锁被别人持有，都等一会儿再来
		if err != nil {
			l.logger.Debug("没有抢到分布式锁", elog.String("key", l.key), elog.FieldErr(err))
			if !l.sleep(ctx) {
				return
			}
			continue
		}

		err = l.bizLoop(ctx, lock)
		if err != nil {
			l.logger.Error("执行业务失败，将执行重试", elog.String("key", l.key), elog.FieldErr(err))
		}

		// ctx 可能已经被取消了，但是锁还是要尝试释放
		unCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.defaultTimeout)
		unErr := lock.Unlock(unCtx)
		cancel()
		if unErr != nil {
			l.logger.Error("释放分布式锁失败", elog.String("key", l.key), elog.FieldErr(unErr))
		}

		ctxErr := ctx.Err()
		if errors.Is(ctxErr, context.Canceled) || errors.Is(ctxErr, context.DeadlineExceeded) {
			l.logger.Info("任务被取消，退出任务循环", elog.String("key", l.key))
			return
		}
		if !l.sleep(ctx) {
			return
		}
	}
}

func (l *InfiniteLoop) bizLoop(ctx context.Context, lock dlock.Lock) error {
	for {
		// 业务要在分布式锁过期之前结束
		bizCtx, cancel := context.WithTimeout(ctx, l.bizTimeout)
		err := l.biz(bizCtx)
		cancel()
		if err != nil {
			l.logger.Error("业务执行失败", elog.String("key", l.key), elog.FieldErr(err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		refCtx, cancel := context.WithTimeout(ctx, l.defaultTimeout)
		err = lock.Refresh(refCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("分布式锁续约失败 %w", err)
		}
	}
}

// sleep 返回 false 说明 ctx 已经结束
func (l *InfiniteLoop) sleep(ctx context.Context) bool {
	timer := time.NewTimer(l.retryInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
