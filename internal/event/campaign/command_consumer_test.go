package campaign_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/mq-api/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	campaignevt "campaign-dispatcher/internal/event/campaign"
	evtmocks "campaign-dispatcher/internal/event/campaign/mocks"
	repomocks "campaign-dispatcher/internal/repository/mocks"
)

func TestCommandConsumer_Consume(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		value   string
		mock    func(repo *repomocks.MockCampaignRepository, h *evtmocks.MockCommandHandler)
		wantErr error
	}{
		{
			name:  "调度",
			value: `{"action":"schedule","campaignId":1}`,
			mock: func(repo *repomocks.MockCampaignRepository, h *evtmocks.MockCommandHandler) {
				c := domain.Campaign{ID: 1, Name: "双十一", Status: domain.CampaignStatusDraft}
				repo.EXPECT().GetCampaign(gomock.Any(), int64(1)).Return(c, nil)
				h.EXPECT().ScheduleCampaign(gomock.Any(), c).Return(nil)
			},
		},
		{
			name:  "停止",
			value: `{"action":"stop","campaignId":2}`,
			mock: func(_ *repomocks.MockCampaignRepository, h *evtmocks.MockCommandHandler) {
				h.EXPECT().StopCampaign(gomock.Any(), int64(2)).Return(nil)
			},
		},
		{
			name:  "暂停被拒绝不算错误",
			value: `{"action":"pause","campaignId":3}`,
			mock: func(_ *repomocks.MockCampaignRepository, h *evtmocks.MockCommandHandler) {
				h.EXPECT().PauseCampaign(gomock.Any(), int64(3)).Return(errs.ErrInvalidStatusTransition)
			},
		},
		{
			name:  "恢复",
			value: `{"action":"resume","campaignId":3}`,
			mock: func(_ *repomocks.MockCampaignRepository, h *evtmocks.MockCommandHandler) {
				h.EXPECT().ResumeCampaign(gomock.Any(), int64(3)).Return(nil)
			},
		},
		{
			name:  "存储不可用需要返回",
			value: `{"action":"schedule","campaignId":4}`,
			mock: func(repo *repomocks.MockCampaignRepository, _ *evtmocks.MockCommandHandler) {
				repo.EXPECT().GetCampaign(gomock.Any(), int64(4)).
					Return(domain.Campaign{}, fmt.Errorf("%w: mysql", errs.ErrStoreUnavailable))
			},
			wantErr: errs.ErrStoreUnavailable,
		},
		{
			name:  "未知指令",
			value: `{"action":"delete","campaignId":5}`,
			mock:  func(_ *repomocks.MockCampaignRepository, _ *evtmocks.MockCommandHandler) {},
		},
		{
			name:  "坏消息",
			value: `not json`,
			mock:  func(_ *repomocks.MockCampaignRepository, _ *evtmocks.MockCommandHandler) {},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			repo := repomocks.NewMockCampaignRepository(ctrl)
			handler := evtmocks.NewMockCommandHandler(ctrl)
			tc.mock(repo, handler)

			consumer, producer := newTestQueue(t)
			_, err := producer.Produce(t.Context(), &mq.Message{Value: []byte(tc.value)})
			require.NoError(t, err)

			c := campaignevt.NewCommandConsumer(consumer, repo, handler)
			err = c.Consume(t.Context())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCommandConsumer_Start(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	handler := evtmocks.NewMockCommandHandler(ctrl)
	done := make(chan struct{})
	handler.EXPECT().StopCampaign(gomock.Any(), int64(7)).DoAndReturn(func(_ context.Context, _ int64) error {
		close(done)
		return nil
	})

	consumer, producer := newTestQueue(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	campaignevt.NewCommandConsumer(consumer, repomocks.NewMockCampaignRepository(ctrl), handler).Start(ctx)

	val, err := json.Marshal(campaignevt.Command{Action: campaignevt.CommandActionStop, CampaignID: 7})
	require.NoError(t, err)
	_, err = producer.Produce(ctx, &mq.Message{Value: val})
	require.NoError(t, err)
	<-done
}

func newTestQueue(t *testing.T) (mq.Consumer, mq.Producer) {
	t.Helper()
	q := memory.NewMQ()
	require.NoError(t, q.CreateTopic(t.Context(), campaignevt.CommandTopic, 1))
	consumer, err := q.Consumer(campaignevt.CommandTopic, "dispatcher")
	require.NoError(t, err)
	producer, err := q.Producer(campaignevt.CommandTopic)
	require.NoError(t, err)
	return consumer, producer
}
