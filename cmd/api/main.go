// Command api runs the public HTTP API: directory reads and lead intake.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rolloff_directory_backend/internal/adapters"
	"rolloff_directory_backend/internal/directory"
	domainevents "rolloff_directory_backend/internal/events"
	apphttp "rolloff_directory_backend/internal/http"
	"rolloff_directory_backend/internal/http/router"
	"rolloff_directory_backend/internal/leadintake"
	"rolloff_directory_backend/internal/leadintake/ports"
	"rolloff_directory_backend/internal/scheduler"
	"rolloff_directory_backend/platform/config"
	"rolloff_directory_backend/platform/db"
	"rolloff_directory_backend/platform/events"
	"rolloff_directory_backend/platform/logger"
	"rolloff_directory_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)
	log.Info("starting api", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := withRetry(ctx, log, "migrations", 5, time.Second, func(ctx context.Context) error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database", 5, time.Second, func(ctx context.Context) error {
		var err error
		pool, err = db.NewPool(ctx, cfg)
		return err
	}); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	subscribeLeadEvents(eventBus, log)
	val := validator.New()

	delivery, queueClient := initLeadDelivery(cfg, log)
	if queueClient != nil {
		defer queueClient.Close()
	}

	directoryModule := directory.NewModule(pool, val, cfg, log)
	cityResolver := adapters.NewDirectoryCityResolver(directoryModule.Repository())
	leadModule := leadintake.NewModule(pool, cityResolver, delivery, eventBus, val, cfg, log)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			directoryModule,
			leadModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	log.Info("api stopped")
	return nil
}

// subscribeLeadEvents attaches the observability subscribers. The intake
// service already logs its own outcomes; these record the domain events
// themselves at debug level so the bus traffic is visible in development.
func subscribeLeadEvents(bus events.Bus, log *logger.Logger) {
	observe := events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		log.Debug("domain event", "event", e.EventName(), "occurred_at", e.OccurredAt())
		return nil
	})
	bus.Subscribe(domainevents.LeadSubmitted{}.EventName(), observe)
	bus.Subscribe(domainevents.LeadDeliveryFailed{}.EventName(), observe)
}

// initLeadDelivery builds the queue-backed delivery port. A missing Redis
// configuration leaves the queue client nil; Deliver then fails and lead
// submissions surface as submission failures rather than silently passing.
func initLeadDelivery(cfg *config.Config, log *logger.Logger) (ports.LeadDelivery, *scheduler.Client) {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set; lead delivery queue disabled")
		return (*scheduler.Client)(nil), nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("lead delivery queue unavailable", "error", err.Error())
		return (*scheduler.Client)(nil), nil
	}

	return client, client
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
