package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	providermocks "campaign-dispatcher/internal/service/provider/mocks"
)

func TestProvider_Send(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	mp := providermocks.NewMockProvider(ctrl)
	gomock.InOrder(
		mp.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return("wamid.1", nil),
		mp.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errs.ErrSendTimeout),
	)
	reg := prometheus.NewRegistry()
	p := NewProvider("sender-1", mp, NewCollector(reg))

	content := domain.MessageContent{Type: domain.ContentTypeTemplate, TemplateName: "promo"}
	id, err := p.Send(t.Context(), "+8613800000000", content)
	require.NoError(t, err)
	assert.Equal(t, "wamid.1", id)
	_, err = p.Send(t.Context(), "+8613800000000", content)
	assert.ErrorIs(t, err, errs.ErrSendTimeout)

	expected := `
# HELP dispatcher_provider_send_total 供应商发送消息状态统计，status 为 success 或者错误分类
# TYPE dispatcher_provider_send_total counter
dispatcher_provider_send_total{content_type="template",provider="sender-1",status="success"} 1
dispatcher_provider_send_total{content_type="template",provider="sender-1",status="timeout"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "dispatcher_provider_send_total"))
}
