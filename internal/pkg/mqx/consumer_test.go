package mqx

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/ecodeclub/mq-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMQMessage(t *testing.T) {
	t.Parallel()
	topic := "campaign_commands"
	msg := toMQMessage(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 2, Offset: 10},
		Key:            []byte("1"),
		Value:          []byte(`{"action":"stop"}`),
	})
	assert.Equal(t, topic, msg.Topic)
	assert.Equal(t, int64(2), msg.Partition)
	assert.Equal(t, int64(10), msg.Offset)
	assert.Equal(t, []byte("1"), msg.Key)

	msg = toMQMessage(&kafka.Message{})
	assert.Empty(t, msg.Topic)
}

func TestNewGeneralProducer(t *testing.T) {
	t.Parallel()
	_, err := NewGeneralProducer[struct{}](nil, "campaign_events")
	assert.Error(t, err)
}

func TestKafkaConsumer_Close(t *testing.T) {
	t.Parallel()
	// 不需要真的连上 broker，订阅和关闭都在本地完成
	kc, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": "127.0.0.1:1",
		"group.id":          "dispatcher",
	})
	require.NoError(t, err)
	c, err := NewKafkaConsumer(kc, "campaign_commands")
	require.NoError(t, err)

	var consumer mq.Consumer = c
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = consumer.Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, consumer.Close())
}
