package notification

import (
	"context"

	domainevents "servicehub_backend/internal/events"
	"servicehub_backend/platform/events"
)

// Module subscribes the notifier to the event bus. It exposes no HTTP
// routes; everything it does is triggered by committed lifecycle events.
type Module struct {
	notifier *Notifier
}

// NewModule wires the notifier and registers every subscription.
func NewModule(bus events.Bus, notifier *Notifier) *Module {
	m := &Module{notifier: notifier}

	bus.Subscribe(domainevents.BookingCreatedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.BookingCreated); ok {
			m.notifier.handleBookingCreated(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.QuoteSentName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.QuoteSent); ok {
			m.notifier.handleQuoteSent(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.QuoteRespondedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.QuoteResponded); ok {
			m.notifier.handleQuoteResponded(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.QuoteDocumentUploadedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.QuoteDocumentUploaded); ok {
			m.notifier.handleQuoteDocumentUploaded(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.QuoteVerifiedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.QuoteVerified); ok {
			m.notifier.handleQuoteVerified(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.InvoiceSentName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.InvoiceSent); ok {
			m.notifier.handleInvoiceSent(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.ProofSubmittedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.ProofSubmitted); ok {
			m.notifier.handleProofSubmitted(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.PaymentConfirmedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.PaymentConfirmed); ok {
			m.notifier.handlePaymentConfirmed(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.QuoteReminderDueName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.QuoteReminderDue); ok {
			m.notifier.handleQuoteReminderDue(ctx, evt)
		}
		return nil
	}))
	bus.Subscribe(domainevents.InvoiceReminderDueName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(domainevents.InvoiceReminderDue); ok {
			m.notifier.handleInvoiceReminderDue(ctx, evt)
		}
		return nil
	}))

	return m
}
