package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

func TestMemory_Conformance(t *testing.T) {
	clk := clock.NewFrozen(time.Unix(1_700_000_000, 0))
	m := NewMemory(clk, instrument.NewNoop(), 0)
	t.Cleanup(func() { _ = m.Close() })

	conformance(t, m, 3*time.Minute, clk.Advance)
}

func TestMemory_ExpiryBoundary(t *testing.T) {
	// Arrange
	clk := clock.NewFrozen(time.Unix(1_700_000_000, 0))
	m := NewMemory(clk, instrument.NewNoop(), 0)
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	if err := m.Put(ctx, "9999999999", "d", time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Act
	clk.Advance(time.Minute - time.Nanosecond)
	live, _ := m.TryConsume(ctx, "9999999999", "wrong")
	clk.Advance(time.Nanosecond)
	atDeadline, _ := m.TryConsume(ctx, "9999999999", "d")

	// Assert
	if live {
		t.Fatalf("expected mismatch to fail")
	}
	if atDeadline {
		t.Fatalf("expected challenge to be expired exactly at its deadline")
	}
}

func TestMemory_Sweep(t *testing.T) {
	// Arrange
	clk := clock.NewFrozen(time.Unix(1_700_000_000, 0))
	m := NewMemory(clk, instrument.NewNoop(), 0)
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	_ = m.Put(ctx, "1111111111", "a", time.Minute)
	_ = m.Put(ctx, "2222222222", "b", time.Hour)

	// Act
	clk.Advance(2 * time.Minute)
	m.Sweep()

	// Assert
	if m.Len() != 1 {
		t.Fatalf("expected only the live entry to remain, got %d", m.Len())
	}
}

func TestMemory_CloseIsIdempotent(t *testing.T) {
	m := NewMemory(clock.New(), instrument.NewNoop(), time.Millisecond)
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
