package goroutine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPool_GoRunsTasks(t *testing.T) {
	// Arrange
	p := NewPool(4, 64)
	var mu sync.Mutex
	count := 0

	// Act
	for range 20 {
		ok := p.Go(context.Background(), func(context.Context) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
		if !ok {
			t.Fatalf("expected task to be accepted")
		}
	}
	err := p.Wait()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 20 {
		t.Fatalf("expected 20 tasks to run, got %d", count)
	}
	if s := p.Stats(); s.Submitted != 20 || s.Dropped != 0 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestPool_GoKeyedPreservesOrder(t *testing.T) {
	// Arrange
	p := NewPool(8, 800)
	var mu sync.Mutex
	got := make([]int, 0, 50)

	// Act
	for i := range 50 {
		p.GoKeyed(context.Background(), "9999999999", func(context.Context) error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	for i, v := range got {
		if v != i {
			t.Fatalf("expected submission order, got %v", got)
		}
	}
}

func TestPool_DropsWhenFull(t *testing.T) {
	// Arrange
	p := NewPool(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	p.Go(context.Background(), func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started
	p.Go(context.Background(), func(context.Context) error { return nil }) // fills the single slot

	// Act
	ok := p.Go(context.Background(), func(context.Context) error { return nil })

	// Assert
	if ok {
		t.Fatalf("expected task to be dropped")
	}
	close(release)
	if err := p.Wait(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s := p.Stats(); s.Dropped != 1 {
		t.Fatalf("expected 1 dropped task, got %+v", s)
	}
}

func TestPool_CollectsErrorsAndPanics(t *testing.T) {
	// Arrange
	p := NewPool(2, 4)
	errBoom := errors.New("boom")

	// Act
	p.Go(context.Background(), func(context.Context) error { return errBoom })
	p.Go(context.Background(), func(context.Context) error { panic("kaboom") })
	err := p.Wait()

	// Assert
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected joined error to contain errBoom, got %v", err)
	}
	if s := p.Stats(); s.Failed != 1 || s.Panicked != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestPool_DetachesCallerCancellation(t *testing.T) {
	// Arrange
	p := NewPool(1, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	p.Go(ctx, func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		done <- ctx.Err()
		return nil
	})
	cancel()
	if err := p.Wait(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if err := <-done; err != nil {
		t.Fatalf("expected task context to outlive caller, got %v", err)
	}
}

func TestPool_RejectsAfterWait(t *testing.T) {
	// Arrange
	p := NewPool(1, 1)
	if err := p.Wait(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	ok := p.Go(context.Background(), func(context.Context) error { return nil })

	// Assert
	if ok {
		t.Fatalf("expected closed pool to reject task")
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("expected second Wait to be a no-op, got %v", err)
	}
}
