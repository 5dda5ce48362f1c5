package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrRabbitMQURLRequired is returned when the AMQP URL is missing.
var ErrRabbitMQURLRequired = errors.New("messaging: rabbitmq url is required")

// RabbitMQConfig configures the RabbitMQ publisher.
type RabbitMQConfig struct {
	// URL is the AMQP connection string.
	URL string
	// Exchange is the exchange to publish to. Empty uses the default exchange,
	// where the destination is the queue name.
	Exchange string
}

// RabbitMQ publishes on a single AMQP channel. The destination is the routing key.
type RabbitMQ struct {
	exchange string

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewRabbitMQ dials the broker and opens a channel.
func NewRabbitMQ(cfg RabbitMQConfig) (*RabbitMQ, error) {
	if cfg.URL == "" {
		return nil, ErrRabbitMQURLRequired
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("messaging: rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("messaging: rabbitmq channel: %w", err), conn.Close())
	}

	return &RabbitMQ{exchange: cfg.Exchange, conn: conn, ch: ch}, nil
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	return errors.Join(r.ch.Close(), r.conn.Close())
}

// Publish sends a persistent message. amqp channels are not safe for
// concurrent publishing, so calls are serialized.
func (r *RabbitMQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := checkPublish(ctx, destination); err != nil {
		return PublishResult{}, err
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}

	headers := amqp.Table{}
	for _, h := range validHeaders(msg.Headers) {
		headers[h.Key] = string(h.Value)
	}

	now := time.Now()
	pub := amqp.Publishing{
		Headers:      headers,
		ContentType:  msg.ContentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         msg.Body,
	}
	if cid, ok := headers["cID"].(string); ok {
		pub.CorrelationId = cid
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return PublishResult{}, ErrClosed
	}

	if err := r.ch.PublishWithContext(ctx, r.exchange, destination, false, false, pub); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: rabbitmq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: now}, nil
}
