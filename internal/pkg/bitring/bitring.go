package bitring

import "sync"

const (
	defaultSize             = 128
	defaultConsecutiveCount = 3
	defaultRateThreshold    = 0.8
)

// BitRing 记录最近 size 次事件是否发生（比如是否出错），
// 用于判断"连续 N 次出错"或者"窗口内出错率超过阈值"。
type BitRing struct {
	mu sync.Mutex

	words []uint64
	size  int
	pos   int
	// filled 窗口是否已经写满过一轮
	filled bool
	// eventCnt 窗口内 1 的个数
	eventCnt int

	rateThreshold    float64
	consecutiveCount int
}

// NewBitRing 创建 BitRing。size 窗口大小，rateThreshold 事件率阈值，consecutiveCount 连续次数阈值
func NewBitRing(size int, rateThreshold float64, consecutiveCount int) *BitRing {
	if size <= 0 {
		size = defaultSize
	}
	if rateThreshold <= 0 || rateThreshold > 1 {
		rateThreshold = defaultRateThreshold
	}
	if consecutiveCount <= 0 {
		consecutiveCount = defaultConsecutiveCount
	}
	if consecutiveCount > size {
		consecutiveCount = size
	}
	const wordBits = 64
	return &BitRing{
		words:            make([]uint64, (size+wordBits-1)/wordBits),
		size:             size,
		rateThreshold:    rateThreshold,
		consecutiveCount: consecutiveCount,
	}
}

// Add 写入一次事件
func (r *BitRing) Add(eventHappened bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.bit(r.pos)
	if r.filled && old {
		r.eventCnt--
	}
	r.setBit(r.pos, eventHappened)
	if eventHappened {
		r.eventCnt++
	}
	r.pos++
	if r.pos == r.size {
		r.pos = 0
		r.filled = true
	}
}

// IsConditionMet 最近 consecutiveCount 次全部发生，或者窗口写满后事件率达到阈值
func (r *BitRing) IsConditionMet() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.consecutive() {
		return true
	}
	if !r.filled {
		return false
	}
	return float64(r.eventCnt)/float64(r.size) >= r.rateThreshold
}

// Reset 清空
func (r *BitRing) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.words {
		r.words[i] = 0
	}
	r.pos = 0
	r.filled = false
	r.eventCnt = 0
}

func (r *BitRing) length() int {
	if r.filled {
		return r.size
	}
	return r.pos
}

func (r *BitRing) consecutive() bool {
	if r.length() < r.consecutiveCount {
		return false
	}
	idx := r.pos
	for i := 0; i < r.consecutiveCount; i++ {
		idx--
		if idx < 0 {
			idx = r.size - 1
		}
		if !r.bit(idx) {
			return false
		}
	}
	return true
}

func (r *BitRing) bit(idx int) bool {
	return r.words[idx/64]&(1<<(uint(idx)%64)) != 0
}

func (r *BitRing) setBit(idx int, v bool) {
	if v {
		r.words[idx/64] |= 1 << (uint(idx) % 64)
		return
	}
	r.words[idx/64] &^= 1 << (uint(idx) % 64)
}
