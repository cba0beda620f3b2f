// Package bootstrap runs long-lived processes until they finish or the process is signalled.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds the time all shutdown hooks may take together.
const DefaultShutdownTimeout = 10 * time.Second

// App runs a process and calls its shutdown hooks once it is interrupted.
type App struct {
	mu              sync.Mutex
	hooks           []namedHook
	shutdownTimeout time.Duration
	signals         []os.Signal
}

type namedHook struct {
	name string
	fn   func(ctx context.Context) error
}

// Option configures an App.
type Option func(*App)

// WithShutdownTimeout overrides DefaultShutdownTimeout.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		a.shutdownTimeout = d
	}
}

// New creates an App that reacts to SIGINT and SIGTERM.
func New(opts ...Option) *App {
	a := &App{
		shutdownTimeout: DefaultShutdownTimeout,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddShutdownHook registers fn under name. Hooks run in reverse registration order.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, namedHook{name: name, fn: fn})
}

// Run executes run until it returns or a signal arrives.
// On a signal, or when ctx is cancelled, the shutdown hooks are called and their errors are returned.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, a.signals...)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Default().Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer shutdownCancel()
		return a.shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		hook := a.hooks[i]
		if err := hook.fn(ctx); err != nil {
			slog.Default().Error("shutdown hook failed", "hook", hook.name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
