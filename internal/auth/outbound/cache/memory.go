package cache

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

type entry struct {
	digest    string
	expiresAt time.Time
}

// Memory is a single-process challenge store. Expiry is checked on every read;
// a background sweep only reclaims memory.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
	clock clock.Clocker
	ins   instrument.Instrumentation

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewMemory starts a store that sweeps expired entries every sweepEvery.
// A non-positive sweepEvery disables the sweep.
func NewMemory(clk clock.Clocker, ins instrument.Instrumentation, sweepEvery time.Duration) *Memory {
	m := &Memory{
		items: map[string]entry{},
		clock: clk,
		ins:   ins,
		stop:  make(chan struct{}),
	}

	if sweepEvery > 0 {
		m.wg.Go(func() { m.sweepLoop(sweepEvery) })
	}

	return m
}

// Put replaces any outstanding digest for mobile.
func (m *Memory) Put(ctx context.Context, mobile, digest string, ttl time.Duration) error {
	_, span := startSpan(ctx, m.ins, "MemoryPut")
	defer span.End()

	if ttl <= 0 {
		return ErrInvalidTTL
	}

	m.mu.Lock()
	m.items[key(mobile)] = entry{digest: digest, expiresAt: m.clock.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// TryConsume reports whether digest matched a live entry and removed it.
// A mismatch leaves the entry in place.
func (m *Memory) TryConsume(ctx context.Context, mobile, digest string) (bool, error) {
	_, span := startSpan(ctx, m.ins, "MemoryTryConsume")
	defer span.End()

	k := key(mobile)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[k]
	if !ok {
		return false, nil
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.items, k)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(e.digest), []byte(digest)) != 1 {
		return false, nil
	}

	delete(m.items, k)
	return true, nil
}

// Len returns the number of entries, live or not yet swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Sweep drops expired entries.
func (m *Memory) Sweep() {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.items {
		if !now.Before(e.expiresAt) {
			delete(m.items, k)
		}
	}
}

// Close stops the sweep loop.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	m.wg.Wait()
	return nil
}

func (m *Memory) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
