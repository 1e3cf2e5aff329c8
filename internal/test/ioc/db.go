package ioc

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"

	"campaign-dispatcher/internal/repository/dao"
)

func WaitForDBSetup(dsn string) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		panic(err)
	}
	defer sqlDB.Close()
	if err1 := ping(sqlDB); err1 != nil {
		panic(err1)
	}
}

func ping(sqlDB *sql.DB) error {
	strategy, err := retry.NewExponentialBackoffRetryStrategy(time.Second, maxInterval, maxRetries)
	if err != nil {
		return err
	}

	const timeout = 5 * time.Second
	for {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err = sqlDB.PingContext(ctx)
		cancel()
		if err == nil {
			return nil
		}
		next, ok := strategy.Next()
		if !ok {
			return err
		}
		time.Sleep(next)
	}
}

var (
	db         *egorm.Component
	initDBOnce sync.Once
)

func InitDBAndTables() *egorm.Component {
	initDBOnce.Do(func() {
		econf.Set("mysql", map[string]any{
			"dsn":   "root:root@tcp(localhost:13316)/campaign?collation=utf8mb4_general_ci&parseTime=True&loc=Local&timeout=1s&readTimeout=3s&writeTimeout=3s&multiStatements=true&interpolateParams=true&charset=utf8mb4",
			"debug": true,
		})
		WaitForDBSetup(econf.GetStringMapString("mysql")["dsn"])
		db = egorm.Load("mysql").Build()

		if err := dao.InitTables(db); err != nil {
			panic(err)
		}
	})
	return db
}
