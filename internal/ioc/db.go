package ioc

import (
	"context"
	"database/sql"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"github.com/gotomicro/ego/core/econf"

	"campaign-dispatcher/internal/repository/dao"
)

func InitDB() *egorm.Component {
	dsn := econf.GetString("mysql.dsn")
	if _, err := mysql.ParseDSN(dsn); err != nil {
		panic("mysql.dsn 配置错误: " + err.Error())
	}
	waitForDB(dsn)
	db := egorm.Load("mysql").Build()
	if err := dao.InitTables(db); err != nil {
		panic(err)
	}
	return db
}

// waitForDB 容器一起启动的时候 MySQL 可能还没准备好
func waitForDB(dsn string) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		panic(err)
	}
	defer sqlDB.Close()

	const (
		maxInterval = 10 * time.Second
		maxRetries  = 10
		timeout     = 5 * time.Second
	)
	strategy, err := retry.NewExponentialBackoffRetryStrategy(time.Second, maxInterval, maxRetries)
	if err != nil {
		panic(err)
	}
	for {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err = sqlDB.PingContext(ctx)
		cancel()
		if err == nil {
			return
		}
		next, ok := strategy.Next()
		if !ok {
			panic("Ping DB 重试失败: " + err.Error())
		}
		time.Sleep(next)
	}
}
