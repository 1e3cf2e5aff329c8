package idempotent

import "context"

// IdempotencyService 防止同一条消息被重复发送
//
//go:generate mockgen -source=./types.go -package=idempotentmocks -destination=./mocks/idempotent.mock.go IdempotencyService
type IdempotencyService interface {
	// Exists 不存在的时候会同时占住 key，返回 false；已经被占住返回 true
	Exists(ctx context.Context, key string) (bool, error)
	// Release 放弃占用，之后的 Exists 会重新返回 false
	Release(ctx context.Context, key string) error
}
