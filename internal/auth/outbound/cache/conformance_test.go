package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type challengeStore interface {
	Put(ctx context.Context, mobile, digest string, ttl time.Duration) error
	TryConsume(ctx context.Context, mobile, digest string) (bool, error)
}

// conformance runs the behavior every challenge store must share. elapse moves
// time forward by d, either on a fake clock or by sleeping.
func conformance(t *testing.T, s challengeStore, ttl time.Duration, elapse func(d time.Duration)) {
	t.Helper()
	ctx := context.Background()

	mustPut := func(t *testing.T, mobile, digest string) {
		t.Helper()
		if err := s.Put(ctx, mobile, digest, ttl); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	consume := func(t *testing.T, mobile, digest string) bool {
		t.Helper()
		ok, err := s.TryConsume(ctx, mobile, digest)
		if err != nil {
			t.Fatalf("consume: %v", err)
		}
		return ok
	}

	t.Run("ConsumedExactlyOnce", func(t *testing.T) {
		mustPut(t, "1000000001", "d1")
		if !consume(t, "1000000001", "d1") {
			t.Fatalf("expected first consume to succeed")
		}
		if consume(t, "1000000001", "d1") {
			t.Fatalf("expected second consume to fail")
		}
	})

	t.Run("MismatchDoesNotConsume", func(t *testing.T) {
		mustPut(t, "1000000002", "d2")
		if consume(t, "1000000002", "wrong") {
			t.Fatalf("expected mismatch to fail")
		}
		if !consume(t, "1000000002", "d2") {
			t.Fatalf("expected the right digest to still be consumable")
		}
	})

	t.Run("Absent", func(t *testing.T) {
		if consume(t, "1000000003", "d3") {
			t.Fatalf("expected absent challenge to fail")
		}
	})

	t.Run("PutReplaces", func(t *testing.T) {
		mustPut(t, "1000000004", "old")
		mustPut(t, "1000000004", "new")
		if consume(t, "1000000004", "old") {
			t.Fatalf("expected replaced digest to fail")
		}
		if !consume(t, "1000000004", "new") {
			t.Fatalf("expected latest digest to succeed")
		}
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		mustPut(t, "1000000005", "same")
		mustPut(t, "1000000006", "same")
		if !consume(t, "1000000005", "same") || !consume(t, "1000000006", "same") {
			t.Fatalf("expected both identities to consume their own challenge")
		}
	})

	t.Run("ConcurrentConsume", func(t *testing.T) {
		const n = 32
		mustPut(t, "1000000007", "race")

		var (
			wg   sync.WaitGroup
			wins atomic.Int32
			fail atomic.Int32
		)
		start := make(chan struct{})
		for range n {
			wg.Go(func() {
				<-start
				ok, err := s.TryConsume(ctx, "1000000007", "race")
				if err != nil {
					fail.Add(1)
					return
				}
				if ok {
					wins.Add(1)
				}
			})
		}
		close(start)
		wg.Wait()

		if fail.Load() != 0 {
			t.Fatalf("unexpected errors: %d", fail.Load())
		}
		if wins.Load() != 1 {
			t.Fatalf("expected exactly one winner, got %d", wins.Load())
		}
	})

	t.Run("Expires", func(t *testing.T) {
		mustPut(t, "1000000008", "d8")
		elapse(ttl + ttl/2)
		if consume(t, "1000000008", "d8") {
			t.Fatalf("expected expired challenge to fail")
		}
	})

	t.Run("InvalidTTL", func(t *testing.T) {
		if err := s.Put(ctx, "1000000009", "d9", 0); err == nil {
			t.Fatalf("expected error for zero ttl")
		}
	})
}
