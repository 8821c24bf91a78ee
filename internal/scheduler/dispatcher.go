package scheduler

import (
	"context"
	"time"

	"servicehub_backend/platform/config"
	"servicehub_backend/platform/logger"
)

// Dispatcher enqueues a reminder sweep task on a fixed interval.
type Dispatcher struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewDispatcher(client *Client, reminders config.ReminderConfig, log *logger.Logger) *Dispatcher {
	interval := reminders.GetSweepInterval()
	if interval <= 0 {
		interval = time.Hour
	}

	return &Dispatcher{
		client:   client,
		interval: interval,
		log:      log,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	// Sweep once on startup so a restart never delays reminders by a
	// full interval.
	if err := d.client.EnqueueReminderSweep(ctx); err != nil {
		d.log.Warn("reminder sweep enqueue failed", "error", err)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := d.client.EnqueueReminderSweep(ctx); err != nil {
			d.log.Warn("reminder sweep enqueue failed", "error", err)
		}
	}
}
