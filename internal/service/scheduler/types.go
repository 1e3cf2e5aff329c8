package scheduler

import (
	"context"
	"time"

	"campaign-dispatcher/internal/domain"
)

// CampaignScheduler 管理所有活动的生命周期：排期、周期性消费队列、健康检查和停止
//
//go:generate mockgen -source=./types.go -package=schedulermocks -destination=./mocks/scheduler.mock.go CampaignScheduler
type CampaignScheduler interface {
	// ScheduleCampaign 校验配置并占用一个并发名额，满了返回 errs.ErrCapacityExceeded，活动保持 DRAFT
	ScheduleCampaign(ctx context.Context, c domain.Campaign) error
	// StopCampaign 停止调度并释放名额，重复调用不会报错
	StopCampaign(ctx context.Context, id int64) error
	PauseCampaign(ctx context.Context, id int64) error
	ResumeCampaign(ctx context.Context, id int64) error
	HealthCheck(ctx context.Context) domain.HealthReport
	ActiveCampaigns() []int64
	// Recover 进程重启后接管库里处于 SCHEDULED、RUNNING、PAUSED 的活动
	Recover(ctx context.Context) (int, error)
	// Start 启动健康检查的后台循环，ctx 取消或者 Shutdown 之后退出
	Start(ctx context.Context)
	// Shutdown 停止所有活动，不会因为某一个失败而提前返回
	Shutdown(ctx context.Context) error
}

type ErrorEventConfig struct {
	BitRingSize      int     `yaml:"bitRingSize"`
	RateThreshold    float64 `yaml:"rateThreshold"`
	ConsecutiveCount int     `yaml:"consecutiveCount"`
}

type Config struct {
	CheckInterval       time.Duration `yaml:"checkInterval"`
	HealthCheckInterval time.Duration `yaml:"healthCheckInterval"`
	StaggerMin          time.Duration `yaml:"staggerMin"`
	StaggerMax          time.Duration `yaml:"staggerMax"`
	StopGracePeriod     time.Duration `yaml:"stopGracePeriod"`
	ProbeTimeout        time.Duration `yaml:"probeTimeout"`
	// StallTimeout 运行中的活动超过这个时间没有心跳就认为卡死了
	StallTimeout time.Duration `yaml:"stallTimeout"`
	// IntervalUnit 活动 RateLimit 的单位
	IntervalUnit time.Duration    `yaml:"intervalUnit"`
	ErrorEvents  ErrorEventConfig `yaml:"errorEvents"`
}

func DefaultConfig() Config {
	return Config{
		CheckInterval:       60 * time.Second,
		HealthCheckInterval: 30 * time.Second,
		StaggerMin:          60 * time.Second,
		StaggerMax:          120 * time.Second,
		StopGracePeriod:     30 * time.Second,
		ProbeTimeout:        3 * time.Second,
		StallTimeout:        10 * time.Minute,
		IntervalUnit:        time.Second,
		ErrorEvents: ErrorEventConfig{
			BitRingSize:      16,
			RateThreshold:    0.8,
			ConsecutiveCount: 3,
		},
	}
}
