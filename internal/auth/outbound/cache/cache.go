// Package cache holds the challenge stores: Redis for deployments and an
// in-process map for local runs. Both keep at most one digest per mobile
// number and delete it on the first matching consume.
package cache

import (
	"context"
	"errors"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "otp:"

// ErrInvalidTTL is returned when a challenge is stored without a positive TTL.
var ErrInvalidTTL = errors.New("cache: ttl must be positive")

func key(mobile string) string {
	return keyPrefix + mobile
}

func startSpan(ctx context.Context, ins instrument.Instrumentation, name string) (context.Context, trace.Span) {
	return ins.Tracer("auth.outbound.cache").Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
