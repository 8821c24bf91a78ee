// Package scheduler runs the background reminder sweep on asynq. A
// dispatcher enqueues a sweep task on a fixed interval; the worker picks
// it up, finds quotes and invoices that need a nudge, stamps the
// cooldown field and publishes the matching reminder events.
package scheduler

import (
	"context"
	"fmt"
	"time"

	domainevents "servicehub_backend/internal/events"
	invoicerepo "servicehub_backend/internal/invoices/repository"
	quoterepo "servicehub_backend/internal/quotes/repository"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	quotes    quoterepo.ReminderStore
	invoices  invoicerepo.ReminderStore
	bus       events.Bus
	reminders config.ReminderConfig
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reminders config.ReminderConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		quotes:    quoterepo.New(pool),
		invoices:  invoicerepo.New(pool),
		bus:       bus,
		reminders: reminders,
		log:       log,
	}

	mux.HandleFunc(TaskReminderSweep, w.handleReminderSweep)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleReminderSweep(ctx context.Context, _ *asynq.Task) error {
	now := time.Now()
	reminderBefore := now.Add(-w.reminders.GetReminderCooldown())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.sweepQuotes(gctx, now.Add(-w.reminders.GetQuoteStaleAfter()), reminderBefore)
	})
	g.Go(func() error {
		return w.sweepInvoices(gctx, now, reminderBefore)
	})
	return g.Wait()
}

func (w *Worker) sweepQuotes(ctx context.Context, sentBefore, reminderBefore time.Time) error {
	stale, err := w.quotes.ListStaleSent(ctx, sentBefore, reminderBefore)
	if err != nil {
		return fmt.Errorf("list stale quotes: %w", err)
	}

	for _, q := range stale {
		// Stamp the cooldown before dispatching so a failed send does not
		// retrigger on every sweep until the cooldown expires.
		if err := w.quotes.MarkReminderSent(ctx, q.ID); err != nil {
			w.log.DatabaseError("scheduler.MarkQuoteReminderSent", err)
			continue
		}

		w.bus.Publish(ctx, domainevents.QuoteReminderDue{
			BaseEvent:   events.NewBaseEvent(),
			QuoteID:     q.ID,
			Reference:   q.BookingRef,
			TotalCents:  q.TotalCents,
			SentAt:      q.SentAt,
			PublicToken: q.PublicToken,
			Client: domainevents.ClientContact{
				Name:  q.ClientName,
				Email: q.ClientEmail,
				Phone: q.ClientPhone,
			},
		})
	}

	if len(stale) > 0 {
		w.log.Info("quote reminder sweep", "count", len(stale))
	}
	return nil
}

func (w *Worker) sweepInvoices(ctx context.Context, dueBefore, reminderBefore time.Time) error {
	overdue, err := w.invoices.ListOverdueSent(ctx, dueBefore, reminderBefore)
	if err != nil {
		return fmt.Errorf("list overdue invoices: %w", err)
	}

	for _, inv := range overdue {
		if err := w.invoices.MarkReminderSent(ctx, inv.ID); err != nil {
			w.log.DatabaseError("scheduler.MarkInvoiceReminderSent", err)
			continue
		}

		w.bus.Publish(ctx, domainevents.InvoiceReminderDue{
			BaseEvent:   events.NewBaseEvent(),
			InvoiceID:   inv.ID,
			Reference:   inv.Reference,
			TotalCents:  inv.TotalCents,
			DueDate:     inv.DueDate,
			PublicToken: inv.PublicToken,
			Client: domainevents.ClientContact{
				Name:  inv.ClientName,
				Email: inv.ClientEmail,
				Phone: inv.ClientPhone,
			},
		})
	}

	if len(overdue) > 0 {
		w.log.Info("invoice reminder sweep", "count", len(overdue))
	}
	return nil
}
