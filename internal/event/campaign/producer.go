package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/ecodeclub/mq-api"

	"campaign-dispatcher/internal/pkg/mqx"
)

var (
	_ Producer = (*MQProducer)(nil)
	_ Producer = (*KafkaProducer)(nil)
)

// MQProducer 基于 mq-api 的实现，本地和测试用内存队列
type MQProducer struct {
	statusChanged mq.Producer
	messageFailed mq.Producer
}

func (p *MQProducer) ProduceStatusChanged(ctx context.Context, evt StatusChangedEvent) error {
	return p.produce(ctx, p.statusChanged, evt.CampaignID, evt)
}

func (p *MQProducer) ProduceMessageFailed(ctx context.Context, evt MessageFailedEvent) error {
	return p.produce(ctx, p.messageFailed, evt.CampaignID, evt)
}

func (p *MQProducer) produce(ctx context.Context, producer mq.Producer, campaignID int64, evt any) error {
	val, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	// 同一个活动的事件用同一个 key，保证顺序
	_, err = producer.Produce(ctx, &mq.Message{
		Key:   []byte(strconv.FormatInt(campaignID, 10)),
		Value: val,
	})
	return err
}

func NewMQProducer(q mq.MQ) (*MQProducer, error) {
	statusChanged, err := q.Producer(StatusChangedTopic)
	if err != nil {
		return nil, err
	}
	messageFailed, err := q.Producer(MessageFailedTopic)
	if err != nil {
		return nil, err
	}
	return &MQProducer{
		statusChanged: statusChanged,
		messageFailed: messageFailed,
	}, nil
}

type KafkaProducer struct {
	statusChanged *mqx.GeneralProducer[StatusChangedEvent]
	messageFailed *mqx.GeneralProducer[MessageFailedEvent]
}

func (p *KafkaProducer) ProduceStatusChanged(ctx context.Context, evt StatusChangedEvent) error {
	return p.statusChanged.Produce(ctx, strconv.FormatInt(evt.CampaignID, 10), evt)
}

func (p *KafkaProducer) ProduceMessageFailed(ctx context.Context, evt MessageFailedEvent) error {
	return p.messageFailed.Produce(ctx, strconv.FormatInt(evt.CampaignID, 10), evt)
}

func NewKafkaProducer(producer *kafka.Producer) (*KafkaProducer, error) {
	statusChanged, err := mqx.NewGeneralProducer[StatusChangedEvent](producer, StatusChangedTopic)
	if err != nil {
		return nil, err
	}
	messageFailed, err := mqx.NewGeneralProducer[MessageFailedEvent](producer, MessageFailedTopic)
	if err != nil {
		return nil, err
	}
	return &KafkaProducer{
		statusChanged: statusChanged,
		messageFailed: messageFailed,
	}, nil
}
