package repository

import (
	"campaign-dispatcher/internal/repository/cache"
)

// messageQueueRepository 队列只存在 Redis 里，直接委托给缓存层
type messageQueueRepository struct {
	cache.MessageQueueCache
}

func NewMessageQueueRepository(ca cache.MessageQueueCache) MessageQueueRepository {
	return &messageQueueRepository{MessageQueueCache: ca}
}
