package main

import (
	"context"
	"time"

	"github.com/gotomicro/ego"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/server/egovernor"

	"campaign-dispatcher/internal/ioc"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	var app *ioc.App

	egoApp := ego.New(ego.WithBeforeStopClean(func() error {
		cancel()
		const shutdownTimeout = time.Minute
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		return app.Scheduler.Shutdown(sctx)
	}))
	app = ioc.InitApp()

	if err := egoApp.
		Invoker(func() error {
			// 接管上次没跑完的活动，个别活动接管失败不影响启动
			n, err := app.Scheduler.Recover(ctx)
			elog.DefaultLogger.Info("接管活动", elog.Int("cnt", n), elog.FieldErr(err))
			app.StartTasks(ctx)
			return nil
		}).
		Serve(egovernor.Load("server.governor").Build()).
		Cron(app.Crons...).
		Run(); err != nil {
		elog.DefaultLogger.Panic("startup", elog.FieldErr(err))
	}
}
