package loopjob

import "context"

// ResourceSemaphore 信号量，控制同时占用的资源数量
type ResourceSemaphore interface {
	// Acquire 占用一个名额，满了返回 errs.ErrExceedLimit，不会阻塞
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}
