package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	authrepo "servicehub_backend/internal/auth/repository"
	bookingsrepo "servicehub_backend/internal/bookings/repository"
	"servicehub_backend/internal/email"
	"servicehub_backend/internal/notification"
	"servicehub_backend/internal/scheduler"
	"servicehub_backend/internal/whatsapp"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/db"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type consultantDirectory struct {
	repo *authrepo.Repository
}

func (d consultantDirectory) FindByID(ctx context.Context, id uuid.UUID) (string, string, error) {
	u, err := d.repo.FindByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return u.FullName, u.Email, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)

	// Reminder events published by the sweep are handled in-process, so
	// the worker needs the same notification wiring as the API.
	notifier := notification.NewNotifier(
		sender,
		whatsapp.NewClient(cfg, log),
		cfg,
		consultantDirectory{repo: authrepo.New(pool)},
		bookingsrepo.New(pool),
		log,
	)
	notification.NewModule(eventBus, notifier)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	dispatcher := scheduler.NewDispatcher(client, cfg, log)
	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, cfg, pool, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
