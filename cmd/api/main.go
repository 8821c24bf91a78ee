package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicehub_backend/internal/auth"
	authrepo "servicehub_backend/internal/auth/repository"
	"servicehub_backend/internal/bookings"
	"servicehub_backend/internal/email"
	apphttp "servicehub_backend/internal/http"
	"servicehub_backend/internal/invoices"
	invoiceservice "servicehub_backend/internal/invoices/service"
	"servicehub_backend/internal/notification"
	"servicehub_backend/internal/quotes"
	quoteservice "servicehub_backend/internal/quotes/service"
	"servicehub_backend/internal/staff"
	"servicehub_backend/internal/storage"
	"servicehub_backend/internal/whatsapp"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/db"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"
	"servicehub_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// consultantDirectory resolves consultant contact details from the users
// table for assignment alerts.
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
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Object storage for signed quote documents and payment proofs
	var docs quoteservice.DocumentStore
	var proofs invoiceservice.ProofStore
	storageSvc, err := storage.New(ctx, cfg)
	switch {
	case errors.Is(err, storage.Disabled):
		log.Warn("object storage disabled; document uploads will fail")
		docs, proofs = storage.Noop{}, storage.Noop{}
	case err != nil:
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	default:
		docs, proofs = storageSvc, storageSvc
		log.Info("storage service initialized",
			"proofsBucket", cfg.GetMinioBucketPaymentProofs(),
			"signedQuotesBucket", cfg.GetMinioBucketSignedQuotes(),
		)
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, log, val)
	staffModule := staff.NewModule(pool, log, val)
	bookingsModule := bookings.NewModule(pool, staffModule.Service(), eventBus, log, val)
	quotesModule := quotes.NewModule(pool, bookingsModule.Repository(), docs, eventBus, log, val)
	invoicesModule := invoices.NewModule(pool, quotesModule.Repository(), bookingsModule.Repository(), proofs, eventBus, cfg, log, val)

	// Notification module subscribes to domain events (not HTTP-facing)
	whatsappClient := whatsapp.NewClient(cfg, log)
	notifier := notification.NewNotifier(
		sender,
		whatsappClient,
		cfg,
		consultantDirectory{repo: authrepo.New(pool)},
		bookingsModule.Repository(),
		log,
	)
	notification.NewModule(eventBus, notifier)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := apphttp.NewApp(cfg, log, db.NewPoolAdapter(pool), []apphttp.Module{
		authModule,
		staffModule,
		bookingsModule,
		quotesModule,
		invoicesModule,
	})

	if err := app.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
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
