package loopjob

import (
	"context"
	"sync"

	"campaign-dispatcher/internal/errs"
)

var _ ResourceSemaphore = (*MaxCntResourceSemaphore)(nil)

// MaxCntResourceSemaphore 计数信号量，调度器用它限制同时运行的活动数
type MaxCntResourceSemaphore struct {
	maxCount int
	curCount int
	mu       *sync.RWMutex
}

func (r *MaxCntResourceSemaphore) Acquire(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.curCount >= r.maxCount {
		return errs.ErrExceedLimit
	}
	r.curCount++
	return nil
}

// Release 多余的 Release 不会把计数减成负数
func (r *MaxCntResourceSemaphore) Release(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.curCount > 0 {
		r.curCount--
	}
	return nil
}

// UpdateMaxCount 调小上限不会影响已经占用的名额，只是后续 Acquire 会失败
func (r *MaxCntResourceSemaphore) UpdateMaxCount(maxCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxCount = maxCount
}

// InUse 当前占用数
func (r *MaxCntResourceSemaphore) InUse() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.curCount
}

func (r *MaxCntResourceSemaphore) MaxCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxCount
}

func NewResourceSemaphore(maxCount int) *MaxCntResourceSemaphore {
	return &MaxCntResourceSemaphore{
		maxCount: maxCount,
		mu:       &sync.RWMutex{},
	}
}
