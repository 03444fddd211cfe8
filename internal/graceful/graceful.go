package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Operation is a named cleanup step executed on shutdown.
type Operation func(ctx context.Context) error

// GracefulShutdown waits for SIGINT/SIGTERM, then runs every operation
// concurrently with a shared timeout. The returned channel is closed when
// all operations have finished (or the timeout fired).
func GracefulShutdown(
	ctx context.Context,
	timeout time.Duration,
	ops map[string]Operation,
	log *slog.Logger,
) <-chan struct{} {
	wait := make(chan struct{})
	var once sync.Once

	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		<-s

		log.Info("shutting down")

		timeoutFunc := time.AfterFunc(timeout, func() {
			log.Error("shutdown timeout exceeded, forcing exit", slog.Duration("timeout", timeout))
			once.Do(func() { close(wait) })
		})
		defer timeoutFunc.Stop()

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var wg sync.WaitGroup
		for name, op := range ops {
			wg.Add(1)
			go func(name string, op Operation) {
				defer wg.Done()

				log.Info("cleaning up", slog.String("operation", name))
				if err := op(shutdownCtx); err != nil {
					log.Error("cleanup failed",
						slog.String("operation", name),
						slog.String("error", err.Error()),
					)
					return
				}
				log.Info("cleanup finished", slog.String("operation", name))
			}(name, op)
		}
		wg.Wait()

		once.Do(func() { close(wait) })
	}()

	return wait
}
