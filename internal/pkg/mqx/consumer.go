package mqx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/ecodeclub/mq-api"
)

var _ mq.Consumer = (*KafkaConsumer)(nil)

const (
	defaultReadTimeout = time.Second
	defaultChanSize    = 16
)

// KafkaConsumer 把 kafka 的消费者适配成 mq.Consumer，业务代码只依赖 mq-api。
// 读到就提交，业务处理失败不会重新投递。
type KafkaConsumer struct {
	consumer    *kafka.Consumer
	readTimeout time.Duration
}

func (c *KafkaConsumer) Consume(ctx context.Context) (*mq.Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := c.consumer.ReadMessage(c.readTimeout)
		if err != nil {
			var kErr kafka.Error
			if errors.As(err, &kErr) && kErr.Code() == kafka.ErrTimedOut {
				continue
			}
			return nil, fmt.Errorf("获取消息失败: %w", err)
		}
		if _, err = c.consumer.CommitMessage(msg); err != nil {
			return nil, fmt.Errorf("提交消息失败: %w", err)
		}
		return toMQMessage(msg), nil
	}
}

func (c *KafkaConsumer) ConsumeChan(ctx context.Context) (<-chan *mq.Message, error) {
	ch := make(chan *mq.Message, defaultChanSize)
	go func() {
		defer close(ch)
		for {
			msg, err := c.Consume(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			select {
			case ch <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func (c *KafkaConsumer) Close() error {
	return c.consumer.Close()
}

func toMQMessage(e *kafka.Message) *mq.Message {
	msg := &mq.Message{
		Partition: int64(e.TopicPartition.Partition),
		Offset:    int64(e.TopicPartition.Offset),
		Key:       e.Key,
		Value:     e.Value,
	}
	if e.TopicPartition.Topic != nil {
		msg.Topic = *e.TopicPartition.Topic
	}
	return msg
}

func NewKafkaConsumer(consumer *kafka.Consumer, topic string) (*KafkaConsumer, error) {
	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		return nil, err
	}
	return &KafkaConsumer{
		consumer:    consumer,
		readTimeout: defaultReadTimeout,
	}, nil
}
