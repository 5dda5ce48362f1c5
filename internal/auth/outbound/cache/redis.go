package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

// consumeScript deletes KEYS[1] only when it still holds ARGV[1]. Running it
// server side makes the compare and the delete one atomic step.
var consumeScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	redis.call('DEL', KEYS[1])
	return 1
end
return 0
`)

// Redis stores challenges as "otp:<mobile>" keys with a PX expiry.
type Redis struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewRedis(client redis.UniversalClient, ins instrument.Instrumentation) *Redis {
	return &Redis{client: client, ins: ins}
}

// Put replaces any outstanding digest for mobile.
func (r *Redis) Put(ctx context.Context, mobile, digest string, ttl time.Duration) (err error) {
	ctx, span := startSpan(ctx, r.ins, "RedisPut")
	defer func() { endSpan(span, err) }()

	if ttl <= 0 {
		return ErrInvalidTTL
	}

	if err := r.client.Set(ctx, key(mobile), digest, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", goerror.ErrUnavailable, err)
	}
	return nil
}

// TryConsume reports whether digest matched and was removed.
func (r *Redis) TryConsume(ctx context.Context, mobile, digest string) (_ bool, err error) {
	ctx, span := startSpan(ctx, r.ins, "RedisTryConsume")
	defer func() { endSpan(span, err) }()

	n, err := consumeScript.Run(ctx, r.client, []string{key(mobile)}, digest).Int()
	if err != nil {
		return false, fmt.Errorf("%w: redis consume: %w", goerror.ErrUnavailable, err)
	}
	return n == 1, nil
}

// Ping checks the connection for health probes.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
