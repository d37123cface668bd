// Package shutdown runs a blocking component and cleans up after it on
// SIGINT/SIGTERM or normal exit.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"
)

// DefaultTimeout bounds how long cleanup may take after a signal.
const DefaultTimeout = 5 * time.Second

// RunWithGracefulShutdown runs runner until it returns, ctx is done or the
// process receives SIGINT/SIGTERM, then calls shutdown with a context
// bounded by timeout. shutdown runs on every exit path.
//
// When the runner returns on its own its error is returned, or the shutdown
// error if the runner succeeded. After a signal or cancellation the runner
// gets up to timeout to return and the result is nil.
func RunWithGracefulShutdown(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	runner func(ctx context.Context) error,
	shutdown func(ctx context.Context) error,
) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runDone := make(chan error, 1)
	go func() {
		runDone <- runner(runCtx)
	}()

	select {
	case err := <-runDone:
		if serr := cleanup(logger, timeout, shutdown); err == nil {
			err = serr
		}
		return err
	case <-runCtx.Done():
	}

	if ctx.Err() == nil {
		logger.Info("received signal, initiating shutdown")
	}
	// A second signal terminates the process.
	stop()

	waitCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	select {
	case err := <-runDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("runner failed during shutdown", "error", err)
		}
	case <-waitCtx.Done():
		logger.Warn("shutdown timeout exceeded")
	}

	_ = cleanup(logger, timeout, shutdown)
	logger.Info("shutdown complete")
	return nil
}

func cleanup(logger *slog.Logger, timeout time.Duration, shutdown func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := shutdown(ctx)
	if err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return err
}
