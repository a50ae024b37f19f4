package repository

import (
	"context"
	"time"

	"BrandPulse/internal/domain/models"
	domainrepo "BrandPulse/internal/domain/repository"
	"BrandPulse/pkg/kafka"
)

// snapshotEvent is the wire format published per brand after each
// aggregation cycle.
type snapshotEvent struct {
	Brand string            `json:"brand"`
	Stats models.BrandStats `json:"stats"`
	At    time.Time         `json:"at"`
}

// KafkaPublisher publishes per-brand snapshot events to one topic, keyed
// by brand so per-brand ordering is preserved across partitions.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

var _ domainrepo.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, brand string, stats models.BrandStats) error {
	return p.producer.Publish(ctx, p.topic, []byte(brand), snapshotEvent{
		Brand: brand,
		Stats: stats,
		At:    time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, models.BrandStats) error { return nil }
func (NopPublisher) Close() error                                             { return nil }
