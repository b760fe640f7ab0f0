package events

import (
	"context"

	"bookstore-marketplace/internal/config"
	"bookstore-marketplace/pkg/logger"
)

// Publisher gửi event theo kiểu fire-and-forget, key = order id
type Publisher interface {
	Publish(ctx context.Context, topic, key, eventType string, payload any) error
	Close() error
}

// NewPublisher trả về Kafka publisher nếu có brokers, ngược lại noop
func NewPublisher(cfg config.KafkaConfig) Publisher {
	if !cfg.Enabled() {
		logger.Info("Kafka brokers not configured, order events disabled", nil)
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.ClientID)
}

// NoopPublisher dùng cho local/test khi không có Kafka
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic, key, eventType string, payload any) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
