package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Start serves HTTP in the background. The returned channel is closed when a
// termination signal arrives or the listener fails, whichever comes first.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	sigCtx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)
		err := a.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "address", a.httpServer.Addr, "error", err)
			finish()
		}
	}()

	go func() {
		defer stop()
		<-sigCtx.Done()
		slog.Info("termination requested, shutting down")
		finish()
	}()

	return done
}

// Stop shuts the HTTP server down, lets queued OTP deliveries finish and then
// releases every resource in reverse start order.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	a.drainDeliveries(ctx)

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
	slog.InfoContext(ctx, "otpgate stopped")
}

// drainDeliveries must run before the publisher closes. It gives up when ctx
// expires; deliveries still queued at that point are lost.
func (a *App) drainDeliveries(ctx context.Context) {
	slog.InfoContext(ctx, "waiting for pending otp deliveries")
	if err := waitPool(ctx, a.pool); err != nil {
		slog.ErrorContext(ctx, "otp deliveries did not drain cleanly", "error", err)
	}

	st := a.pool.Stats()
	slog.InfoContext(ctx, "dispatcher pool stopped",
		"submitted", st.Submitted,
		"dropped", st.Dropped,
		"failed", st.Failed,
		"panicked", st.Panicked,
	)
}

type waiter interface {
	Wait() error
}

// waitPool returns the pool's error, or ctx's error if the deadline comes first.
func waitPool(ctx context.Context, p waiter) error {
	done := make(chan error, 1)
	go func() { done <- p.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("app: drain deliveries: %w", ctx.Err())
	}
}
