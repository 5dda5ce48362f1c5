package messaging

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// Memory keeps published messages in process. It backs local runs without a
// broker and tests that assert on what was published.
type Memory struct {
	mu     sync.Mutex
	msgs   map[string][]OutgoingMessage
	seq    uint64
	fail   error
	closed bool
}

// NewMemory returns an empty in-process publisher.
func NewMemory() *Memory {
	return &Memory{msgs: map[string][]OutgoingMessage{}}
}

// Close marks the publisher closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Publish records msg under destination.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := checkPublish(ctx, destination); err != nil {
		return PublishResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return PublishResult{}, ErrClosed
	}
	if m.fail != nil {
		return PublishResult{}, m.fail
	}

	m.seq++
	m.msgs[destination] = append(m.msgs[destination], msg)
	slog.DebugContext(ctx, "message published in memory", "destination", destination, "key", string(msg.Key))

	return PublishResult{
		MessageID: strconv.FormatUint(m.seq, 10),
		Topic:     destination,
		Timestamp: time.Now(),
	}, nil
}

// Messages returns a copy of what was published to destination, in order.
func (m *Memory) Messages(destination string) []OutgoingMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OutgoingMessage(nil), m.msgs[destination]...)
}

// FailWith makes every following Publish return err. nil restores success.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}
