package loopjob

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	loopjobmocks "campaign-dispatcher/internal/pkg/loopjob/mocks"
)

var (
	errNewLock = errors.New("创建锁失败")
	errLock    = errors.New("获取锁失败")
	errRefresh = errors.New("续约锁失败")
	errBiz     = errors.New("业务执行失败")
)

func TestInfiniteLoopSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(InfiniteLoopTestSuite))
}

type InfiniteLoopTestSuite struct {
	suite.Suite
}

func (s *InfiniteLoopTestSuite) TestNewInfiniteLoop() {
	t := s.T()
	ctrl := gomock.NewController(t)
	client := loopjobmocks.NewMockClient(ctrl)

	loop := NewInfiniteLoop(client, func(_ context.Context) error { return nil }, "cleanup")
	assert.Equal(t, "cleanup", loop.key)
	assert.Equal(t, time.Minute, loop.retryInterval)
	assert.Equal(t, 3*time.Second, loop.defaultTimeout)
}

func (s *InfiniteLoopTestSuite) TestRun_NewLockError() {
	t := s.T()
	ctrl := gomock.NewController(t)
	client := loopjobmocks.NewMockClient(ctrl)
	client.EXPECT().NewLock(gomock.Any(), "cleanup", gomock.Any()).
		Return(nil, errNewLock).MinTimes(1)

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
	defer cancel()

	var executed atomic.Bool
	loop := newInfiniteLoop(client, func(_ context.Context) error {
		executed.Store(true)
		return nil
	}, "cleanup", 2*time.Millisecond, 3*time.Millisecond)
	loop.Run(ctx)

	assert.False(t, executed.Load(), "没有锁不能执行业务")
}

func (s *InfiniteLoopTestSuite) TestRun_LockError() {
	t := s.T()
	ctrl := gomock.NewController(t)
	client := loopjobmocks.NewMockClient(ctrl)
	lock := loopjobmocks.NewMockLock(ctrl)
	client.EXPECT().NewLock(gomock.Any(), "cleanup", gomock.Any()).Return(lock, nil).MinTimes(1)
	lock.EXPECT().Lock(gomock.Any()).Return(errLock).MinTimes(1)

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
	defer cancel()

	var executed atomic.Bool
	loop := newInfiniteLoop(client, func(_ context.Context) error {
		executed.Store(true)
		return nil
	}, "cleanup", 2*time.Millisecond, 3*time.Millisecond)
	loop.Run(ctx)

	assert.False(t, executed.Load())
}

func (s *InfiniteLoopTestSuite) TestRun_RefreshErrorRelocks() {
	t := s.T()
	ctrl := gomock.NewController(t)
	client := loopjobmocks.NewMockClient(ctrl)
	lock := loopjobmocks.NewMockLock(ctrl)
	client.EXPECT().NewLock(gomock.Any(), "cleanup", gomock.Any()).Return(lock, nil).MinTimes(2)
	lock.EXPECT().Lock(gomock.Any()).Return(nil).MinTimes(2)
	// 续约失败之后释放锁，等待一段时间再重新抢
	lock.EXPECT().Refresh(gomock.Any()).Return(errRefresh).MinTimes(2)
	lock.EXPECT().Unlock(gomock.Any()).Return(nil).MinTimes(2)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	var cnt atomic.Int32
	loop := newInfiniteLoop(client, func(_ context.Context) error {
		cnt.Add(1)
		return errBiz
	}, "cleanup", 2*time.Millisecond, 3*time.Millisecond)
	loop.Run(ctx)

	assert.GreaterOrEqual(t, cnt.Load(), int32(2))
}

func (s *InfiniteLoopTestSuite) TestRun_CancelUnlocks() {
	t := s.T()
	ctrl := gomock.NewController(t)
	client := loopjobmocks.NewMockClient(ctrl)
	lock := loopjobmocks.NewMockLock(ctrl)
	client.EXPECT().NewLock(gomock.Any(), "cleanup", gomock.Any()).Return(lock, nil).Times(1)
	lock.EXPECT().Lock(gomock.Any()).Return(nil).Times(1)
	lock.EXPECT().Refresh(gomock.Any()).Return(nil).AnyTimes()
	// ctx 取消之后也要释放锁
	lock.EXPECT().Unlock(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		assert.NoError(t, ctx.Err())
		return nil
	}).Times(1)

	ctx, cancel := context.WithCancel(t.Context())
	var cnt atomic.Int32
	loop := newInfiniteLoop(client, func(_ context.Context) error {
		if cnt.Add(1) == 3 {
			cancel()
		}
		return nil
	}, "cleanup", 2*time.Millisecond, 3*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run 没有退出")
	}
	assert.Equal(t, int32(3), cnt.Load())
}
