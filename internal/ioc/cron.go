package ioc

import (
	"github.com/gotomicro/ego/task/ecron"

	"campaign-dispatcher/internal/service/maintenance"
)

func Crons(r *maintenance.QueueDepthReporter) []ecron.Ecron {
	c1 := ecron.Load("cron.queueDepth").Build(ecron.WithJob(r.Report))
	return []ecron.Ecron{c1}
}
