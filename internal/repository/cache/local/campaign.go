package local

import (
	"context"
	"errors"

	ca "github.com/patrickmn/go-cache"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/repository/cache"
)

var _ cache.CampaignCache = (*CampaignCache)(nil)

// CampaignCache 进程内缓存，完成检测和健康检查会频繁读取活动
type CampaignCache struct {
	localCache *ca.Cache
}

func (c *CampaignCache) Get(_ context.Context, id int64) (domain.Campaign, error) {
	v, ok := c.localCache.Get(cache.CampaignKey(id))
	if !ok {
		return domain.Campaign{}, cache.ErrKeyNotFound
	}
	vv, ok := v.(domain.Campaign)
	if !ok {
		return domain.Campaign{}, errors.New("数据类型不正确")
	}
	return vv, nil
}

func (c *CampaignCache) Set(_ context.Context, campaign domain.Campaign) error {
	c.localCache.Set(cache.CampaignKey(campaign.ID), campaign, cache.DefaultExpiredTime)
	return nil
}

func (c *CampaignCache) Del(_ context.Context, id int64) error {
	c.localCache.Delete(cache.CampaignKey(id))
	return nil
}

func NewCampaignCache(localCache *ca.Cache) *CampaignCache {
	return &CampaignCache{
		localCache: localCache,
	}
}
