package ioc

import (
	"context"
	"strconv"

	"github.com/ego-component/eetcd"
	"github.com/gotomicro/ego/core/elog"
	clientv3 "go.etcd.io/etcd/client/v3"
)

func InitEtcdClient() *eetcd.Component {
	return eetcd.Load("etcd").Build()
}

// watchInt 监听一个整数配置，每次变更都回调 update
func watchInt(etcdClient *eetcd.Component, key string, update func(val int)) {
	if etcdClient == nil || key == "" {
		return
	}
	go func() {
		watchChan := etcdClient.Watch(context.Background(), key)
		for watchResp := range watchChan {
			for _, event := range watchResp.Events {
				if event.Type != clientv3.EventTypePut {
					continue
				}
				val, err := strconv.Atoi(string(event.Kv.Value))
				if err != nil || val <= 0 {
					elog.DefaultLogger.Warn("忽略非法的配置值",
						elog.String("key", key),
						elog.String("value", string(event.Kv.Value)))
					continue
				}
				update(val)
			}
		}
	}()
}
