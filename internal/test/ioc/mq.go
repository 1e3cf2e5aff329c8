package ioc

import (
	"context"
	"sync"
	"time"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/mq-api/memory"
	_ "github.com/go-sql-driver/mysql"

	campaignevt "campaign-dispatcher/internal/event/campaign"
)

var (
	q          mq.MQ
	mqInitOnce sync.Once
)

const (
	maxInterval = 10 * time.Second
	maxRetries  = 10
)

// InitMQ 测试统一用内存实现
func InitMQ() mq.MQ {
	mqInitOnce.Do(func() {
		qq := memory.NewMQ()
		for _, t := range []string{
			campaignevt.StatusChangedTopic,
			campaignevt.MessageFailedTopic,
			campaignevt.CommandTopic,
		} {
			if err := qq.CreateTopic(context.Background(), t, 1); err != nil {
				panic(err)
			}
		}
		q = qq
	})
	return q
}
