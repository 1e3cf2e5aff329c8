package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSlidingWindowLimiter(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := newFakeClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	l := NewRedisSlidingWindowLimiter(client, "throttle", time.Second, 2)
	l.now = clock.Now
	ctx := t.Context()

	last, err := l.LastLimitTime(ctx, "+8613800000000")
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	for i := 0; i < 2; i++ {
		limited, err := l.Limit(ctx, "+8613800000000")
		require.NoError(t, err)
		assert.False(t, limited)
	}
	limited, err := l.Limit(ctx, "+8613800000000")
	require.NoError(t, err)
	assert.True(t, limited)

	last, err = l.LastLimitTime(ctx, "+8613800000000")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixMilli(), last.UnixMilli())

	// 窗口滑过去之后恢复
	clock.Add(time.Second + time.Millisecond)
	limited, err = l.Limit(ctx, "+8613800000000")
	require.NoError(t, err)
	assert.False(t, limited)
}
