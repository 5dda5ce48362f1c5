package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/atomic"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers      []string
	ClientID     string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka publishes through a single kafka-go writer; the topic travels on each
// message. Keys are hashed to partitions, so one mobile number always lands on
// the same partition.
type Kafka struct {
	w      *kafka.Writer
	closed atomic.Bool
}

// NewKafka builds the writer. No connection is made until the first publish.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{w: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
		Transport: &kafka.Transport{
			ClientID:    cfg.ClientID,
			DialTimeout: cfg.DialTimeout,
		},
	}}, nil
}

// Close flushes pending writes. Calling it twice is a no-op.
func (k *Kafka) Close() error {
	if !k.closed.CompareAndSwap(false, true) {
		return nil
	}
	return k.w.Close()
}

// Publish writes one message to topic and waits for every in-sync replica.
func (k *Kafka) Publish(ctx context.Context, topic string, msg OutgoingMessage) (PublishResult, error) {
	if err := checkPublish(ctx, topic); err != nil {
		return PublishResult{}, err
	}
	if k.closed.Load() {
		return PublishResult{}, ErrClosed
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}

	km := kafka.Message{Topic: topic, Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for _, h := range validHeaders(msg.Headers) {
		km.Headers = append(km.Headers, kafka.Header{Key: h.Key, Value: h.Value})
	}

	if err := k.w.WriteMessages(ctx, km); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: kafka publish to %s: %w", topic, err)
	}
	return PublishResult{Topic: topic, Timestamp: km.Time}, nil
}
