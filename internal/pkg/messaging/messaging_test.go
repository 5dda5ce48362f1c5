package messaging

import (
	"context"
	"errors"
	"testing"
)

func TestNewFromDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
	}{
		{name: "Memory", driver: "memory"},
		{name: "EmptyDefaultsToMemory", driver: " "},
		{name: "Unknown", driver: "carrier-pigeon", wantErr: ErrUnknownDriver},
		{name: "KafkaWithoutBrokers", driver: "kafka", wantErr: ErrKafkaBrokersRequired},
		{name: "NATSWithoutURL", driver: "nats", wantErr: ErrNATSURLRequired},
		{name: "NSQWithoutAddr", driver: "nsq", wantErr: ErrNSQProducerAddrRequired},
		{name: "PubSubWithoutProject", driver: "google-pubsub", wantErr: ErrPubSubProjectIDRequired},
		{name: "RabbitMQWithoutURL", driver: "RabbitMQ", wantErr: ErrRabbitMQURLRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			pub, err := NewFromDriver(context.Background(), tt.driver, tt.opts)

			// Assert
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := pub.(*Memory); !ok {
				t.Fatalf("expected *Memory, got %T", pub)
			}
		})
	}
}

func TestKafka_PublishValidation(t *testing.T) {
	k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("new kafka: %v", err)
	}

	if _, err := k.Publish(context.Background(), "", OutgoingMessage{}); !errors.Is(err, ErrDestinationRequired) {
		t.Fatalf("expected ErrDestinationRequired, got %v", err)
	}
	if _, err := k.Publish(context.Background(), "t", OutgoingMessage{Delay: 1}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if err := k.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := k.Publish(context.Background(), "t", OutgoingMessage{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestMemory(t *testing.T) {
	// Arrange
	m := NewMemory()
	ctx := context.Background()

	// Act
	_, err1 := m.Publish(ctx, "events", OutgoingMessage{Key: []byte("a"), Body: []byte("1")})
	_, err2 := m.Publish(ctx, "events", OutgoingMessage{Key: []byte("a"), Body: []byte("2")})
	m.FailWith(errors.New("boom"))
	_, err3 := m.Publish(ctx, "events", OutgoingMessage{Body: []byte("3")})

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v %v", err1, err2)
	}
	if err3 == nil {
		t.Fatalf("expected injected failure")
	}
	got := m.Messages("events")
	if len(got) != 2 || string(got[0].Body) != "1" || string(got[1].Body) != "2" {
		t.Fatalf("unexpected messages: %+v", got)
	}

	ctxCanceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := m.Publish(ctxCanceled, "events", OutgoingMessage{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
