package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher - một writer cho mọi topic, topic đặt trên từng message
type KafkaPublisher struct {
	w        *kafka.Writer
	producer string
}

func NewKafkaPublisher(brokers []string, producer string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
			Async:                  true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Error().Err(err).Int("messages", len(messages)).Msg("Failed to deliver order events")
				}
			},
		},
		producer: producer,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key, eventType string, payload any) error {
	env, err := NewEnvelope(eventType, p.producer, key, payload)
	if err != nil {
		return err
	}
	msg, err := buildMessage(topic, key, env)
	if err != nil {
		return err
	}

	// Async writer: lỗi giao nhận đi qua Completion
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Partition key = order_id để các event của 1 order giữ thứ tự
func buildMessage(topic, key string, env Envelope) (kafka.Message, error) {
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal envelope: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
		},
	}, nil
}
