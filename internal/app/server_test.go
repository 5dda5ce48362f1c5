package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
)

func TestWaitPool_StopsAtDeadline(t *testing.T) {
	// Arrange
	pool := goroutine.NewPool(1, 4)
	release := make(chan struct{})
	defer close(release)
	pool.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Act
	start := time.Now()
	err := waitPool(ctx, pool)

	// Assert
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected to return near the deadline, took %s", elapsed)
	}
}

func TestWaitPool_ReturnsTaskErrors(t *testing.T) {
	// Arrange
	pool := goroutine.NewPool(2, 4)
	boom := errors.New("broker down")
	pool.Go(context.Background(), func(context.Context) error { return boom })

	// Act
	err := waitPool(context.Background(), pool)

	// Assert
	if !errors.Is(err, boom) {
		t.Fatalf("expected task error, got %v", err)
	}
}
