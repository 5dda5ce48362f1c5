package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUnsupported is returned when a feature is not supported by the selected broker.
	//
	// For example, not all brokers support delayed delivery.
	ErrUnsupported = errors.New("messaging: unsupported operation")

	// ErrClosed is returned when publishing on a closed client.
	ErrClosed = errors.New("messaging: client closed")

	// ErrDestinationRequired is returned when the destination is empty.
	ErrDestinationRequired = errors.New("messaging: destination is required")
)

// Publisher publishes messages to a destination (topic/subject/exchange/queue).
type Publisher interface {
	io.Closer

	// Publish sends a message to the destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage represents a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key is used by Kafka for partitioning and as the Pub/Sub ordering key
	// when OrderingKey is empty.
	Key []byte

	// Headers carry metadata such as the correlation id.
	Headers []Header

	// OrderingKey is used by Google Pub/Sub.
	OrderingKey string

	// ContentType is forwarded where the broker models it (RabbitMQ).
	ContentType string

	// Delay is used for deferred delivery (NSQ only).
	Delay time.Duration
}

// Header is a key/value pair used for message headers.
type Header struct {
	// Key is the header name.
	Key string
	// Value is the header value.
	Value []byte
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	// MessageID is the broker-assigned message ID.
	MessageID string
	// Topic is the destination used for publishing.
	Topic string
	// Timestamp is when the message was handed to the broker.
	Timestamp time.Time
}

func validHeaders(hs []Header) []Header {
	out := make([]Header, 0, len(hs))
	for _, h := range hs {
		if h.Key != "" {
			out = append(out, h)
		}
	}
	return out
}

func checkPublish(ctx context.Context, destination string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	return nil
}
