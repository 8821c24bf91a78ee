package repository

import (
	"context"
	"time"

	"servicehub_backend/internal/quotes/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// QuoteReader provides read-only access to quotes.
type QuoteReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Quote, error)
	GetByToken(ctx context.Context, token string) (*Quote, error)
}

// QuoteWriter provides the quote lifecycle mutations.
type QuoteWriter interface {
	Insert(ctx context.Context, q *Quote) error
	ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []LineItem, totalCents int64, clientNotes, internalNotes string) error
	RecordSend(ctx context.Context, id uuid.UUID, methods []domain.Method) error
	RecordResponse(ctx context.Context, id uuid.UUID, status domain.Status, kind domain.ResponseKind, message string, agreedAt *time.Time) error
	RecordSignedDocument(ctx context.Context, id uuid.UUID, objectKey string) error
	Verify(ctx context.Context, id uuid.UUID, verifier uuid.UUID) error
}

// ReminderStore supports the stale-quote reminder sweep.
type ReminderStore interface {
	ListStaleSent(ctx context.Context, sentBefore, reminderBefore time.Time) ([]StaleQuote, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

// QuotesRepository is the complete storage contract for quotes.
type QuotesRepository interface {
	QuoteReader
	QuoteWriter
	ReminderStore
}

// Ensure Repository implements QuotesRepository
var _ QuotesRepository = (*Repository)(nil)
