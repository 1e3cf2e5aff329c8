package throttle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	limitmocks "campaign-dispatcher/internal/pkg/ratelimit/mocks"
	providermocks "campaign-dispatcher/internal/service/provider/mocks"
)

func TestProvider_Send(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		limited  bool
		limitErr error
		wantSend bool
		wantErr  error
	}{
		{name: "未限流", wantSend: true},
		{name: "限流", limited: true, wantErr: errs.ErrRateLimited},
		{name: "限流器出错放行", limitErr: errors.New("redis down"), wantSend: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			limiter := limitmocks.NewMockWindowLimiter(ctrl)
			limiter.EXPECT().Limit(gomock.Any(), "sender:+8657100000000").Return(tc.limited, tc.limitErr)
			mp := providermocks.NewMockProvider(ctrl)
			if tc.wantSend {
				mp.EXPECT().Send(gomock.Any(), "+8613800000000", gomock.Any()).Return("wamid.1", nil)
			}
			p := NewProvider(mp, limiter, "sender:+8657100000000")
			id, err := p.Send(t.Context(), "+8613800000000", domain.MessageContent{Type: domain.ContentTypeText})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.True(t, errs.IsRetryable(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "wamid.1", id)
		})
	}
}
