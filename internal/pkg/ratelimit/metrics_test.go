package ratelimit_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campaign-dispatcher/internal/pkg/ratelimit"
	limitmocks "campaign-dispatcher/internal/pkg/ratelimit/mocks"
)

func TestMetricsLimiter(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	inner := limitmocks.NewMockLimiter(ctrl)
	reg := prometheus.NewRegistry()
	l := ratelimit.NewMetricsLimiter(inner, reg)
	ctx := t.Context()

	gomock.InOrder(
		inner.EXPECT().CheckAndConsume(gomock.Any(), "1").Return(ratelimit.Result{Allowed: true}, nil),
		inner.EXPECT().CheckAndConsume(gomock.Any(), "1").Return(ratelimit.Result{Wait: time.Second}, nil),
	)
	inner.EXPECT().RecordOutcome(gomock.Any(), "1", false)
	inner.EXPECT().NextInterval(gomock.Any(), "1").Return(time.Minute)

	res, err := l.CheckAndConsume(ctx, "1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	res, err = l.CheckAndConsume(ctx, "1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	l.RecordOutcome(ctx, "1", false)
	assert.Equal(t, time.Minute, l.NextInterval(ctx, "1"))

	cnt, err := testutil.GatherAndCount(reg, "dispatcher_ratelimit_check_total")
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)
}
