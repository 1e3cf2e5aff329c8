package ioc

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/mq-api/memory"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"

	campaignevt "campaign-dispatcher/internal/event/campaign"
	"campaign-dispatcher/internal/pkg/mqx"
)

const (
	driverMemory = "memory"
	driverKafka  = "kafka"
	consumerID   = "campaign-dispatcher"
)

type mqConfig struct {
	// Driver memory 或者 kafka
	Driver    string `yaml:"driver"`
	Brokers   string `yaml:"brokers"`
	Partition int    `yaml:"partition"`
}

func loadMQConfig() mqConfig {
	cfg := mqConfig{Driver: driverMemory, Partition: 1}
	if err := econf.UnmarshalKey("mq", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

// InitEvents 返回事件生产者和命令消费者，同一个 driver 下的两端共用连接
func InitEvents() (campaignevt.Producer, mq.Consumer) {
	cfg := loadMQConfig()
	switch cfg.Driver {
	case driverKafka:
		return initKafkaEvents(cfg)
	case driverMemory, "":
		return initMemoryEvents(cfg)
	default:
		panic(fmt.Sprintf("不支持的 mq.driver: %s", cfg.Driver))
	}
}

func topics() []string {
	return []string{
		campaignevt.StatusChangedTopic,
		campaignevt.MessageFailedTopic,
		campaignevt.CommandTopic,
	}
}

func initMemoryEvents(cfg mqConfig) (campaignevt.Producer, mq.Consumer) {
	q := memory.NewMQ()
	for _, t := range topics() {
		if err := q.CreateTopic(context.Background(), t, cfg.Partition); err != nil {
			panic(err)
		}
	}
	producer, err := campaignevt.NewMQProducer(q)
	if err != nil {
		panic(err)
	}
	consumer, err := q.Consumer(campaignevt.CommandTopic, consumerID)
	if err != nil {
		panic(err)
	}
	return producer, consumer
}

func initKafkaEvents(cfg mqConfig) (campaignevt.Producer, mq.Consumer) {
	initKafkaTopics(cfg)
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"client.id":         consumerID,
	})
	if err != nil {
		panic(fmt.Sprintf("创建生产者失败: %v", err))
	}
	producer, err := campaignevt.NewKafkaProducer(p)
	if err != nil {
		panic(err)
	}
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Brokers,
		"group.id":           consumerID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		panic(fmt.Sprintf("创建消费者失败: %v", err))
	}
	consumer, err := mqx.NewKafkaConsumer(c, campaignevt.CommandTopic)
	if err != nil {
		panic(err)
	}
	return producer, consumer
}

func initKafkaTopics(cfg mqConfig) {
	adminClient, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
	})
	if err != nil {
		panic(fmt.Sprintf("创建kafka连接失败: %v", err))
	}
	defer adminClient.Close()

	specs := make([]kafka.TopicSpecification, 0, len(topics()))
	for _, t := range topics() {
		specs = append(specs, kafka.TopicSpecification{Topic: t, NumPartitions: cfg.Partition, ReplicationFactor: 1})
	}
	const timeout = 10 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	results, err := adminClient.CreateTopics(ctx, specs)
	if err != nil {
		panic(fmt.Sprintf("创建topic失败: %v", err))
	}
	for _, result := range results {
		if result.Error.Code() != kafka.ErrNoError && result.Error.Code() != kafka.ErrTopicAlreadyExists {
			elog.DefaultLogger.Error("创建topic失败", elog.String("topic", result.Topic), elog.String("error", result.Error.String()))
		}
	}
}
