package scheduler_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/pkg/idempotent"
	"campaign-dispatcher/internal/pkg/loopjob"
	"campaign-dispatcher/internal/pkg/ratelimit"
	"campaign-dispatcher/internal/repository"
	redisqueue "campaign-dispatcher/internal/repository/cache/redis"
	repomocks "campaign-dispatcher/internal/repository/mocks"
	"campaign-dispatcher/internal/service/processor"
	providermocks "campaign-dispatcher/internal/service/provider/mocks"
	"campaign-dispatcher/internal/service/scheduler"
)

type dispatchEnv struct {
	client   *redis.Client
	queue    repository.MessageQueueRepository
	repo     *repomocks.MockCampaignRepository
	provider *providermocks.MockProvider
	sched    scheduler.CampaignScheduler

	mu   sync.Mutex
	sent []string
}

func newDispatchEnv(t *testing.T, limiterCfg ratelimit.Config) *dispatchEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctrl := gomock.NewController(t)
	env := &dispatchEnv{
		client:   client,
		queue:    repository.NewMessageQueueRepository(redisqueue.NewMessageQueueCache(client)),
		repo:     repomocks.NewMockCampaignRepository(ctrl),
		provider: providermocks.NewMockProvider(ctrl),
	}

	limiter := ratelimit.NewRedisTokenBucketLimiter(client, limiterCfg)
	pcfg := processor.DefaultConfig()
	pcfg.MaxRateLimitWait = 20 * time.Millisecond
	p := processor.NewBatchProcessor(env.queue, env.repo, limiter, env.provider,
		idempotent.NewRedisIdempotencyService(client, time.Hour), nil, pcfg)

	scfg := scheduler.DefaultConfig()
	scfg.CheckInterval = 20 * time.Millisecond
	scfg.StaggerMin, scfg.StaggerMax = 0, 0
	// 60 条/分钟的节奏缩成 60ms 一条
	scfg.IntervalUnit = time.Millisecond
	env.sched = scheduler.NewCampaignScheduler(env.repo, p, limiter, loopjob.NewResourceSemaphore(5), nil, nil, scfg)

	env.provider.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, recipient string, _ domain.MessageContent) (string, error) {
			env.mu.Lock()
			env.sent = append(env.sent, recipient)
			env.mu.Unlock()
			return uuid.NewString(), nil
		}).AnyTimes()
	return env
}

func (e *dispatchEnv) push(t *testing.T, c domain.Campaign, n int) []string {
	t.Helper()
	recipients := make([]string, 0, n)
	msgs := make([]domain.QueuedMessage, 0, n)
	for i := 0; i < n; i++ {
		r := fmt.Sprintf("+86139000000%02d", i)
		recipients = append(recipients, r)
		msgs = append(msgs, domain.QueuedMessage{
			ID:         uuid.NewString(),
			CampaignID: c.ID,
			Recipient:  r,
			Content:    domain.MessageContent{Type: domain.ContentTypeTemplate, TemplateName: "promo", Language: "zh_CN"},
		})
	}
	require.NoError(t, e.queue.Push(t.Context(), c.ID, msgs...))
	return recipients
}

// expectCounters 库里的计数器跟着 MarkDelivered 走
func (e *dispatchEnv) expectCounters(c domain.Campaign, total int64) {
	var delivered atomic.Int64
	e.repo.EXPECT().MarkDelivered(gomock.Any(), c.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, int64, time.Duration, time.Time) error {
			delivered.Add(1)
			return nil
		}).AnyTimes()
	e.repo.EXPECT().GetCampaign(gomock.Any(), c.ID).
		DoAndReturn(func(context.Context, int64) (domain.Campaign, error) {
			res := c
			d := delivered.Load()
			res.Counters = domain.CampaignCounters{TotalRecipients: total, Sent: d, Delivered: d}
			return res, nil
		}).AnyTimes()
	e.repo.EXPECT().UpdateMetrics(gomock.Any(), c.ID, gomock.Any()).Return(nil).AnyTimes()
}

func (e *dispatchEnv) expectEnding(c domain.Campaign) <-chan domain.CampaignStatus {
	e.repo.EXPECT().UpdateStatus(gomock.Any(), c.ID, domain.CampaignStatusDraft, domain.CampaignStatusScheduled, gomock.Any()).Return(nil)
	e.repo.EXPECT().UpdateStatus(gomock.Any(), c.ID, domain.CampaignStatusScheduled, domain.CampaignStatusRunning, gomock.Any()).Return(nil)
	ch := make(chan domain.CampaignStatus, 1)
	e.repo.EXPECT().UpdateStatus(gomock.Any(), c.ID, domain.CampaignStatusRunning, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _, to domain.CampaignStatus, _ domain.StatusMeta) error {
			ch <- to
			return nil
		})
	return ch
}

func TestDispatch_AllDelivered(t *testing.T) {
	t.Parallel()
	env := newDispatchEnv(t, ratelimit.DefaultConfig())
	c := domain.Campaign{
		ID:       21,
		Name:     "会员日",
		Kind:     domain.CampaignKindBroadcast,
		Status:   domain.CampaignStatusDraft,
		Schedule: domain.ScheduleConfig{RateLimit: domain.MinRateLimit},
	}
	recipients := env.push(t, c, 5)
	env.expectCounters(c, 5)
	ended := env.expectEnding(c)

	start := time.Now()
	require.NoError(t, env.sched.ScheduleCampaign(t.Context(), c))
	select {
	case to := <-ended:
		assert.Equal(t, domain.CampaignStatusCompleted, to)
	case <-time.After(5 * time.Second):
		t.Fatal("活动没有按时完成")
	}
	// 四个间隔，每个至少 60ms
	assert.GreaterOrEqual(t, time.Since(start), 4*60*time.Millisecond)

	env.mu.Lock()
	assert.Equal(t, recipients, env.sent)
	env.mu.Unlock()

	primary, retry, err := env.queue.Depth(t.Context(), c.ID)
	require.NoError(t, err)
	assert.Zero(t, primary+retry)
	assert.Eventually(t, func() bool {
		return len(env.sched.ActiveCampaigns()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestDispatch_TokensExhausted(t *testing.T) {
	t.Parallel()
	cfg := ratelimit.DefaultConfig()
	cfg.MaxTokens = 3
	env := newDispatchEnv(t, cfg)
	c := domain.Campaign{
		ID:     22,
		Name:   "限量推送",
		Kind:   domain.CampaignKindBroadcast,
		Status: domain.CampaignStatusDraft,
		Schedule: domain.ScheduleConfig{
			RateLimit: domain.MinRateLimit,
			EndTime:   time.Now().Add(time.Second),
		},
	}
	recipients := env.push(t, c, 5)
	env.expectCounters(c, 5)
	ended := env.expectEnding(c)

	require.NoError(t, env.sched.ScheduleCampaign(t.Context(), c))
	select {
	case to := <-ended:
		// 令牌用完以后剩下的消息等到窗口结束也发不出去
		assert.Equal(t, domain.CampaignStatusFailed, to)
	case <-time.After(5 * time.Second):
		t.Fatal("发送窗口结束后活动没有失败")
	}

	env.mu.Lock()
	assert.Equal(t, recipients[:3], env.sent)
	env.mu.Unlock()

	primary, retry, err := env.queue.Depth(t.Context(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), primary)
	assert.Zero(t, retry)
}
