package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/ukydev/transit-simulator/internal/models"
)

// KafkaPublisher mirrors positions to a Kafka topic keyed by vehicle id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// DialKafka creates a synchronous producer for brokers.
func DialKafka(brokers []string, topic string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true // required by SyncProducer
	cfg.Net.DialTimeout = 30 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaPublisher(producer, topic), nil
}

// NewKafkaPublisher wraps an existing producer.
func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends pos as JSON. The context is only checked before sending;
// sarama's sync producer has no per-message cancellation.
func (k *KafkaPublisher) Publish(ctx context.Context, pos models.PositionReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}
	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(pos.VehicleID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("kafka publish to %s: %w", k.topic, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}
