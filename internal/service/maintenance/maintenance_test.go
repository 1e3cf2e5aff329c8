package maintenance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campaign-dispatcher/internal/errs"
	limitmocks "campaign-dispatcher/internal/pkg/ratelimit/mocks"
	processormocks "campaign-dispatcher/internal/service/processor/mocks"
	schedulermocks "campaign-dispatcher/internal/service/scheduler/mocks"
)

func TestLimiterCleanupTask_Cleanup(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		cleaned  int
		err      error
		wantIdle bool
		wantErr  error
	}{
		{
			name:    "清满一批，马上进入下一轮",
			cleaned: 10,
		},
		{
			name:     "过期的不多，歇一会",
			cleaned:  3,
			wantIdle: true,
		},
		{
			name:    "清理失败",
			err:     errs.ErrStoreUnavailable,
			wantErr: errs.ErrStoreUnavailable,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			limiter := limitmocks.NewMockLimiter(ctrl)
			limiter.EXPECT().Cleanup(gomock.Any()).Return(tc.cleaned, tc.err)

			const idle = 50 * time.Millisecond
			task := NewLimiterCleanupTask(nil, limiter, 10, idle)
			start := time.Now()
			err := task.Cleanup(t.Context())
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantIdle, time.Since(start) >= idle)
		})
	}
}

func TestLimiterCleanupTask_IdleCanceled(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	limiter := limitmocks.NewMockLimiter(ctrl)
	limiter.EXPECT().Cleanup(gomock.Any()).Return(0, nil)

	task := NewLimiterCleanupTask(nil, limiter, 10, time.Hour)
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, task.Cleanup(ctx))
}

func TestQueueDepthReporter_Report(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sched := schedulermocks.NewMockCampaignScheduler(ctrl)
	p := processormocks.NewMockBatchProcessor(ctrl)
	reg := prometheus.NewPedanticRegistry()
	r := NewQueueDepthReporter(sched, p, reg)

	sched.EXPECT().ActiveCampaigns().Return([]int64{1, 2, 3})
	p.EXPECT().QueueDepth(gomock.Any(), int64(1)).Return(int64(10), int64(2), nil)
	p.EXPECT().QueueDepth(gomock.Any(), int64(2)).Return(int64(0), int64(0), errors.New("redis 超时"))
	p.EXPECT().QueueDepth(gomock.Any(), int64(3)).Return(int64(0), int64(1), nil)

	err := r.Report(t.Context())
	assert.ErrorContains(t, err, "redis 超时")

	expected := `
# HELP dispatcher_active_campaigns 调度器正在管理的活动数
# TYPE dispatcher_active_campaigns gauge
dispatcher_active_campaigns 3
# HELP dispatcher_queue_depth 活动主队列和重试队列里的消息数
# TYPE dispatcher_queue_depth gauge
dispatcher_queue_depth{campaign="1",queue="primary"} 10
dispatcher_queue_depth{campaign="1",queue="retry"} 2
dispatcher_queue_depth{campaign="3",queue="primary"} 0
dispatcher_queue_depth{campaign="3",queue="retry"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"dispatcher_active_campaigns", "dispatcher_queue_depth"))

	// 活动结束以后旧的标签被清掉
	sched.EXPECT().ActiveCampaigns().Return(nil)
	require.NoError(t, r.Report(t.Context()))
	assert.Equal(t, 0, testutil.CollectAndCount(r.depth))
}
