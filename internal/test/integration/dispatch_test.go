//go:build e2e

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/uuid"
	ca "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"campaign-dispatcher/internal/domain"
	campaignevt "campaign-dispatcher/internal/event/campaign"
	"campaign-dispatcher/internal/pkg/idempotent"
	"campaign-dispatcher/internal/pkg/loopjob"
	"campaign-dispatcher/internal/pkg/ratelimit"
	"campaign-dispatcher/internal/repository"
	"campaign-dispatcher/internal/repository/cache/local"
	redisqueue "campaign-dispatcher/internal/repository/cache/redis"
	"campaign-dispatcher/internal/repository/dao"
	"campaign-dispatcher/internal/service/processor"
	"campaign-dispatcher/internal/service/provider/console"
	"campaign-dispatcher/internal/service/scheduler"
	testioc "campaign-dispatcher/internal/test/ioc"
)

func TestDispatchSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(DispatchTestSuite))
}

type DispatchTestSuite struct {
	suite.Suite

	db     *egorm.Component
	client *redis.Client
	q      mq.MQ

	repo  repository.CampaignRepository
	queue repository.MessageQueueRepository
	sched scheduler.CampaignScheduler
}

func (s *DispatchTestSuite) SetupSuite() {
	s.db = testioc.InitDBAndTables()
	s.client = testioc.InitRedisClient()
	s.q = testioc.InitMQ()

	s.repo = repository.NewCampaignRepository(dao.NewCampaignDAO(s.db), local.NewCampaignCache(ca.New(time.Minute, time.Minute)))
	s.queue = repository.NewMessageQueueRepository(redisqueue.NewMessageQueueCache(s.client))
	producer, err := campaignevt.NewMQProducer(s.q)
	s.Require().NoError(err)

	limiter := ratelimit.NewRedisTokenBucketLimiter(s.client, ratelimit.DefaultConfig())
	p := processor.NewBatchProcessor(s.queue, s.repo, limiter, console.NewProvider(),
		idempotent.NewRedisIdempotencyService(s.client, time.Hour), producer, processor.DefaultConfig())

	cfg := scheduler.DefaultConfig()
	cfg.CheckInterval = 50 * time.Millisecond
	cfg.StaggerMin, cfg.StaggerMax = 0, 0
	cfg.IntervalUnit = time.Millisecond
	s.sched = scheduler.NewCampaignScheduler(s.repo, p, limiter, loopjob.NewResourceSemaphore(5), producer, nil, cfg)
}

func (s *DispatchTestSuite) TearDownSuite() {
	s.NoError(s.sched.Shutdown(context.Background()))
	s.NoError(s.db.Exec("TRUNCATE TABLE `campaigns`").Error)
	s.NoError(s.db.Exec("TRUNCATE TABLE `campaign_error_logs`").Error)
}

func (s *DispatchTestSuite) createCampaign(total int64) domain.Campaign {
	now := time.Now().UnixMilli()
	entity := dao.Campaign{
		OwnerID:         1,
		Name:            fmt.Sprintf("e2e-%s", uuid.NewString()[:8]),
		Kind:            domain.CampaignKindBroadcast.String(),
		Template:        `{"content":"周年庆","variables":[]}`,
		RateLimit:       domain.MinRateLimit,
		Status:          domain.CampaignStatusDraft.String(),
		TotalRecipients: total,
		Version:         1,
		Ctime:           now,
		Utime:           now,
	}
	s.Require().NoError(s.db.Create(&entity).Error)
	c, err := s.repo.GetCampaign(s.T().Context(), entity.ID)
	s.Require().NoError(err)
	return c
}

func (s *DispatchTestSuite) push(c domain.Campaign, n int) {
	msgs := make([]domain.QueuedMessage, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, domain.QueuedMessage{
			ID:         uuid.NewString(),
			CampaignID: c.ID,
			Recipient:  fmt.Sprintf("+8613700000%03d", i),
			Content:    domain.MessageContent{Type: domain.ContentTypeText, Body: c.Template.Content},
			Ctime:      time.Now(),
		})
	}
	s.Require().NoError(s.queue.Push(s.T().Context(), c.ID, msgs...))
}

func (s *DispatchTestSuite) waitForStatus(id int64, want domain.CampaignStatus) dao.Campaign {
	var entity dao.Campaign
	s.Require().Eventually(func() bool {
		err := s.db.Where("id = ?", id).First(&entity).Error
		return err == nil && entity.Status == want.String()
	}, 10*time.Second, 50*time.Millisecond)
	return entity
}

func (s *DispatchTestSuite) TestScheduleToCompleted() {
	t := s.T()
	consumer, err := s.q.Consumer(campaignevt.StatusChangedTopic, uuid.NewString())
	require.NoError(t, err)

	c := s.createCampaign(3)
	s.push(c, 3)
	require.NoError(t, s.sched.ScheduleCampaign(t.Context(), c))

	entity := s.waitForStatus(c.ID, domain.CampaignStatusCompleted)
	assert.Equal(t, int64(3), entity.Sent)
	assert.Equal(t, int64(3), entity.Delivered)
	assert.Zero(t, entity.Failed)
	assert.Equal(t, 4, entity.Version)

	var transitions []string
	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()
	for len(transitions) < 3 {
		msg, err := consumer.Consume(ctx)
		require.NoError(t, err)
		var evt campaignevt.StatusChangedEvent
		require.NoError(t, json.Unmarshal(msg.Value, &evt))
		if evt.CampaignID != c.ID {
			continue
		}
		transitions = append(transitions, fmt.Sprintf("%s->%s", evt.From, evt.To))
	}
	assert.Equal(t, []string{"DRAFT->SCHEDULED", "SCHEDULED->RUNNING", "RUNNING->COMPLETED"}, transitions)
}

func (s *DispatchTestSuite) TestCommandSchedule() {
	t := s.T()
	consumer, err := s.q.Consumer(campaignevt.CommandTopic, uuid.NewString())
	require.NoError(t, err)
	producer, err := s.q.Producer(campaignevt.CommandTopic)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	campaignevt.NewCommandConsumer(consumer, s.repo, s.sched).Start(ctx)

	c := s.createCampaign(2)
	s.push(c, 2)
	val, err := json.Marshal(campaignevt.Command{Action: campaignevt.CommandActionSchedule, CampaignID: c.ID})
	require.NoError(t, err)
	_, err = producer.Produce(ctx, &mq.Message{Value: val})
	require.NoError(t, err)

	entity := s.waitForStatus(c.ID, domain.CampaignStatusCompleted)
	assert.Equal(t, int64(2), entity.Delivered)
}
