package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/wordlens/config"
	"github.com/spacesedan/wordlens/internal/models"
)

const (
	flushTimeoutMs      = 5000
	retryFlushTimeoutMs = 100
	produceAttempts     = 3
)

// producer is the part of *kafka.Producer the publisher relies on.
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

type KafkaPublisher struct {
	producer producer
	topic    string
	done     chan struct{}
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	slog.Info("[KafkaPublisher] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"security.protocol":  "PLAINTEXT",
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaPublisher] Failed to create producer: %w", err)
	}

	return newKafkaPublisher(p, cfg.Topic), nil
}

func newKafkaPublisher(p producer, topic string) *KafkaPublisher {
	kp := &KafkaPublisher{producer: p, topic: topic, done: make(chan struct{})}
	go kp.drainDeliveryReports()
	slog.Info("[KafkaPublisher] Kafka Producer initialized successfully")
	return kp
}

func (kp *KafkaPublisher) drainDeliveryReports() {
	defer close(kp.done)
	for e := range kp.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				slog.Error("[KafkaPublisher] Delivery failed",
					slog.String("key", string(ev.Key)),
					slog.String("error", ev.TopicPartition.Error.Error()))
				continue
			}
			slog.Debug("[KafkaPublisher] Delivered analysis event",
				slog.String("key", string(ev.Key)),
				slog.Any("offset", ev.TopicPartition.Offset))
		case kafka.Error:
			slog.Warn("[KafkaPublisher] Producer error",
				slog.String("error", ev.Error()))
		}
	}
}

// PublishAnalysisCompleted enqueues the event keyed by analysis id. Delivery
// is reported asynchronously.
func (kp *KafkaPublisher) PublishAnalysisCompleted(ctx context.Context, event models.AnalysisCompletedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("[KafkaPublisher] failed to marshal event: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.AnalysisID),
		Value:          payload,
	}

	for i := 0; i < produceAttempts; i++ {
		err = kp.producer.Produce(msg, nil)
		if err == nil {
			return nil
		}
		slog.Warn("[KafkaPublisher] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if i < produceAttempts-1 {
			// Make room in the local queue before the next attempt.
			kp.producer.Flush(retryFlushTimeoutMs)
		}
	}
	return fmt.Errorf("[KafkaPublisher] failed to produce after %d attempts: %w", produceAttempts, err)
}

func (kp *KafkaPublisher) Close() {
	slog.Info("[KafkaPublisher] Flushing Kafka producer before shutdown...")
	if remaining := kp.producer.Flush(flushTimeoutMs); remaining > 0 {
		slog.Warn("[KafkaPublisher] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	kp.producer.Close()
	select {
	case <-kp.done:
	case <-time.After(time.Second):
	}
	slog.Info("[KafkaPublisher] Kafka producer shut down")
}
