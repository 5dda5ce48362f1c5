package mq

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyOfCorrelationID string = "cID"

	publishTimeout = 10 * time.Second
)

var deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "otpgate_otp_deliveries_total",
	Help: "The total number of OTP delivery events by outcome",
}, []string{"outcome"})

type keyedPool interface {
	GoKeyed(ctx context.Context, key string, f func(ctx context.Context) error) bool
}

// Dispatcher publishes OTP delivery events off the request path. Events for
// one mobile number share a worker and leave in the order they were dispatched.
type Dispatcher struct {
	pool   keyedPool
	client messaging.Publisher
	topic  string
	ins    instrument.Instrumentation
}

func NewDispatcher(pool keyedPool, client messaging.Publisher, topic string, ins instrument.Instrumentation) *Dispatcher {
	if topic == "" {
		topic = event.OTPDeliveryDestination
	}
	return &Dispatcher{pool: pool, client: client, topic: topic, ins: ins}
}

// Dispatch enqueues ev and returns immediately. A false return means the event
// was dropped (queue full or shutting down); it has already been logged.
func (d *Dispatcher) Dispatch(ctx context.Context, ev entity.DeliveryEvent) bool {
	ok := d.pool.GoKeyed(ctx, ev.Mobile, func(ctx context.Context) error {
		return d.publish(ctx, ev)
	})
	if !ok {
		deliveries.WithLabelValues("dropped").Inc()
		slog.WarnContext(ctx, "otp delivery dropped", "mobile", ev.Mobile)
	}
	return ok
}

func (d *Dispatcher) publish(ctx context.Context, ev entity.DeliveryEvent) error {
	ctx, span := d.ins.Tracer("auth.outbound.mq").Start(ctx, "PublishOTPDelivery")
	defer span.End()
	span.SetAttributes(attribute.String("messaging.destination", d.topic))

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	body, err := json.Marshal(event.OTPDeliveryMessage{
		Type:   event.OTPDeliveryType,
		Mobile: ev.Mobile,
		OTP:    ev.Code,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		deliveries.WithLabelValues("failed").Inc()
		return err
	}

	cID := ev.CorrelationID
	if cID == "" {
		cID = instrument.GetCorrelationID(ctx)
	}

	res, err := d.client.Publish(ctx, d.topic, messaging.OutgoingMessage{
		Key:         []byte(ev.Mobile),
		Body:        body,
		ContentType: "application/json",
		Headers:     []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		deliveries.WithLabelValues("failed").Inc()
		slog.ErrorContext(ctx, "failed to publish otp delivery", "mobile", ev.Mobile, "topic", d.topic, "error", err)
		return err
	}

	deliveries.WithLabelValues("published").Inc()
	slog.InfoContext(ctx, "otp delivery published", "mobile", ev.Mobile, "topic", d.topic, "message_id", res.MessageID)
	return nil
}
