package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

const natsFlushTimeout = 5 * time.Second

type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS publishes to core NATS subjects. Each publish is flushed so a returned
// nil error means the server has the message.
type NATS struct {
	conn   *nats.Conn
	closed atomic.Bool
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect %s: %w", cfg.URL, err)
	}
	return &NATS{conn: conn}, nil
}

// Close drains buffered messages before closing the connection.
func (n *NATS) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}
	defer n.conn.Close()
	return n.conn.Drain()
}

func (n *NATS) Publish(ctx context.Context, subject string, msg OutgoingMessage) (PublishResult, error) {
	if err := checkPublish(ctx, subject); err != nil {
		return PublishResult{}, err
	}
	if n.closed.Load() {
		return PublishResult{}, ErrClosed
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}

	nm := &nats.Msg{Subject: subject, Data: msg.Body, Header: nats.Header{}}
	for _, h := range validHeaders(msg.Headers) {
		nm.Header.Add(h.Key, string(h.Value))
	}
	if err := n.conn.PublishMsg(nm); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats publish to %s: %w", subject, err)
	}

	// FlushWithContext refuses contexts without a deadline.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, natsFlushTimeout)
		defer cancel()
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return PublishResult{Topic: subject, Timestamp: time.Now()}, nil
}
