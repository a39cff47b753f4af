// Command worker consumes lead delivery tasks from the Redis-backed queue
// and notifies listed businesses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rolloff_directory_backend/internal/email"
	"rolloff_directory_backend/internal/scheduler"
	"rolloff_directory_backend/platform/config"
	"rolloff_directory_backend/platform/db"
	"rolloff_directory_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database", 5, time.Second, func(ctx context.Context) error {
		var err error
		pool, err = db.NewPool(ctx, cfg)
		return err
	}); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	sender := email.NewSender(cfg)

	worker, err := scheduler.NewWorker(cfg, pool, sender, log)
	if err != nil {
		return fmt.Errorf("init worker: %w", err)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- worker.Run()
	}()

	select {
	case err := <-runErr:
		if err != nil {
			return fmt.Errorf("worker: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down worker")
		worker.Shutdown()
		<-runErr
	}

	log.Info("worker stopped")
	return nil
}

// withRetry runs fn with quadratic backoff between attempts, respecting
// context cancellation.
func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		delay := time.Duration(attempt*attempt) * baseDelay
		log.Warn("retrying", "name", name, "attempt", attempt, "delay", delay.String(), "error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
