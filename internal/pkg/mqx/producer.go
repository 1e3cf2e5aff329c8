package mqx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// GeneralProducer 把事件序列化成 JSON 投递到固定的 topic，等待 broker 确认
type GeneralProducer[T any] struct {
	producer *kafka.Producer
	topic    string
}

func (p *GeneralProducer[T]) Produce(ctx context.Context, key string, evt T) error {
	val, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	deliveryChan := make(chan kafka.Event, 1)
	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          val,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("发送事件失败: %w", err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("未知的投递结果 %v", e)
		}
		return m.TopicPartition.Error
	}
}

func NewGeneralProducer[T any](producer *kafka.Producer, topic string) (*GeneralProducer[T], error) {
	if producer == nil || topic == "" {
		return nil, fmt.Errorf("producer 和 topic 都不能为空")
	}
	return &GeneralProducer[T]{producer: producer, topic: topic}, nil
}
