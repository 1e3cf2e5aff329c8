package errs

import (
	"context"
	"errors"
	"io"
	"net"
)

var (
	ErrInvalidParameter        = errors.New("参数错误")
	ErrInvalidStatusTransition = errors.New("非法的状态流转")
	ErrCampaignNotFound        = errors.New("活动不存在")
	ErrCampaignVersionMismatch = errors.New("活动状态已被并发修改")
	ErrCampaignAlreadyActive   = errors.New("活动已在调度中")
	ErrCampaignNotActive       = errors.New("活动未在调度中")

	// ErrExceedLimit 信号量已满
	ErrExceedLimit = errors.New("超过资源上限")
	// ErrCapacityExceeded 并发活动数已经达到上限
	ErrCapacityExceeded = errors.New("并发活动数达到上限")
	ErrStopTimeout      = errors.New("停止活动超时")

	ErrRateLimited         = errors.New("触发限流")
	ErrSendTransient       = errors.New("发送失败，可重试")
	ErrSendTimeout         = errors.New("发送超时")
	ErrSendRejected        = errors.New("发送被拒绝")
	ErrStoreUnavailable    = errors.New("共享存储不可用")
	ErrCircuitBreaker      = errors.New("触发熔断")
	ErrNoAvailableProvider = errors.New("无可用的发送供应商")

	// ErrFatalBatch 批次处理遇到未知错误，中止本轮
	ErrFatalBatch = errors.New("批次处理中止")
	// ErrErrorConditionIsMet 连续错误或者错误率达到阈值
	ErrErrorConditionIsMet = errors.New("错误事件达到阈值")
)

// IsRetryable 判断发送错误是否可以进入重试队列
// 存储、网络、超时以及限流熔断类的错误可以重试，其余一律视为致命错误
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrSendTransient),
		errors.Is(err, ErrSendTimeout),
		errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrCircuitBreaker),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Class 返回错误的分类名，用于错误日志
func Class(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrCircuitBreaker):
		return "circuit_open"
	case errors.Is(err, ErrSendTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrStoreUnavailable):
		return "store"
	case errors.Is(err, ErrSendTransient):
		return "transient"
	case errors.Is(err, ErrSendRejected):
		return "rejected"
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return "network"
	}
	return "unknown"
}
