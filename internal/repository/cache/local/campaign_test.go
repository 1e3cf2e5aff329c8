package local

import (
	"testing"
	"time"

	ca "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/repository/cache"
)

func TestCampaignCache(t *testing.T) {
	t.Parallel()
	c := NewCampaignCache(ca.New(time.Minute, time.Minute))
	ctx := t.Context()

	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)

	require.NoError(t, c.Set(ctx, domain.Campaign{ID: 1, Name: "双十一", Status: domain.CampaignStatusRunning}))
	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "双十一", got.Name)
	assert.Equal(t, domain.CampaignStatusRunning, got.Status)

	require.NoError(t, c.Del(ctx, 1))
	_, err = c.Get(ctx, 1)
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)
}

func TestCampaignCache_WrongType(t *testing.T) {
	t.Parallel()
	raw := ca.New(time.Minute, time.Minute)
	raw.Set(cache.CampaignKey(2), "oops", time.Minute)
	c := NewCampaignCache(raw)

	_, err := c.Get(t.Context(), 2)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrKeyNotFound)
}
