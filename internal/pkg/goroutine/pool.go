package goroutine

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/otpgate/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

const (
	// DefaultWorkersPerCPU is used when NewPool receives a non-positive worker count.
	DefaultWorkersPerCPU int = 4
	// DefaultQueueSize is used when NewPool receives a non-positive queue size.
	DefaultQueueSize int = 1024

	maxKeptErrors = 64
)

// ErrPoolClosed is reported when a task is submitted after Wait was called.
var ErrPoolClosed = errors.New("goroutine: pool is closed")

// ErrQueueFull is reported when the target worker queue has no free slot.
var ErrQueueFull = errors.New("goroutine: queue is full")

type task struct {
	ctx context.Context
	fn  func(ctx context.Context) error
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Submitted int64
	Dropped   int64
	Failed    int64
	Panicked  int64
}

// Pool runs tasks on a fixed number of workers, each fed by its own bounded
// FIFO queue.
//
// Submission never blocks: when a queue is full the task is dropped and
// logged. Tasks submitted with the same key always land on the same worker, so
// they run in submission order.
type Pool struct {
	queues []chan task
	wg     sync.WaitGroup
	next   atomic.Uint64

	stateMu sync.RWMutex
	closed  bool

	mu   sync.Mutex
	errs []error

	submitted atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
}

// NewPool starts workers goroutines, each with a queue of queueSize/workers slots.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU() * DefaultWorkersPerCPU
	}
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}

	perWorker := queueSize / workers
	if perWorker < 1 {
		perWorker = 1
	}

	p := &Pool{queues: make([]chan task, workers)}
	for i := range p.queues {
		q := make(chan task, perWorker)
		p.queues[i] = q
		p.wg.Go(func() { p.work(q) })
	}

	return p
}

// Go schedules f on the next worker in round-robin order.
// It reports whether the task was accepted.
func (p *Pool) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if p == nil {
		return false
	}
	idx := int(p.next.Inc() % uint64(len(p.queues)))
	return p.enqueue(ctx, idx, f)
}

// GoKeyed schedules f on the worker owning key.
// It reports whether the task was accepted.
func (p *Pool) GoKeyed(ctx context.Context, key string, f func(ctx context.Context) error) bool {
	if p == nil {
		return false
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	idx := int(h.Sum32() % uint32(len(p.queues)))
	return p.enqueue(ctx, idx, f)
}

func (p *Pool) enqueue(ctx context.Context, idx int, f func(ctx context.Context) error) bool {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()

	if p.closed {
		p.dropped.Inc()
		slog.WarnContext(ctx, "goroutine pool is closed, dropping task", "error", ErrPoolClosed)
		return false
	}

	// detach from the caller's cancellation but keep its values (trace, cID)
	t := task{ctx: context.WithoutCancel(ctx), fn: f}

	select {
	case p.queues[idx] <- t:
		p.submitted.Inc()
		return true
	default:
		p.dropped.Inc()
		slog.WarnContext(ctx, "goroutine pool queue is full, dropping task", "worker", idx, "error", ErrQueueFull)
		return false
	}
}

func (p *Pool) work(q <-chan task) {
	for t := range q {
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	defer func() {
		if rvr := recover(); rvr != nil {
			p.panicked.Inc()
			stack := debug.Stack()
			paths := stacktrace.InternalPaths(stack)
			if len(paths) == 0 {
				slog.ErrorContext(t.ctx, "panic occurred in pool worker", "because", rvr, "stack", string(stack))
			} else {
				slog.ErrorContext(t.ctx, "panic occurred in pool worker", "because", rvr, "stack", paths)
			}
			p.appendErr(fmt.Errorf("goroutine: task panicked: %v", rvr))
		}
	}()

	if err := t.fn(t.ctx); err != nil {
		p.failed.Inc()
		p.appendErr(err)
	}
}

// appendErr keeps the first maxKeptErrors errors; later ones are only counted.
func (p *Pool) appendErr(err error) {
	p.mu.Lock()
	if len(p.errs) < maxKeptErrors {
		p.errs = append(p.errs, err)
	}
	p.mu.Unlock()
}

// Stats returns current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Dropped:   p.dropped.Load(),
		Failed:    p.failed.Load(),
		Panicked:  p.panicked.Load(),
	}
}

// Wait stops accepting tasks, drains every queue and returns the joined task errors.
// It is safe to call more than once.
func (p *Pool) Wait() error {
	if p == nil {
		return nil
	}

	p.stateMu.Lock()
	if !p.closed {
		p.closed = true
		for _, q := range p.queues {
			close(q)
		}
	}
	p.stateMu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
