package domain

import "time"

// HealthStatus 健康状态
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) String() string {
	return string(s)
}

type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthReport 调度器的健康报告
type HealthReport struct {
	Status    HealthStatus              `json:"status"`
	Store     ComponentHealth           `json:"store"`
	Campaigns map[int64]ComponentHealth `json:"campaigns"`
	CheckedAt time.Time                 `json:"checkedAt"`
}

// UnhealthyCampaigns 返回不健康的活动 ID
func (r HealthReport) UnhealthyCampaigns() []int64 {
	res := make([]int64, 0, len(r.Campaigns))
	for id, h := range r.Campaigns {
		if !h.Healthy {
			res = append(res, id)
		}
	}
	return res
}
