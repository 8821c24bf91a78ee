package repository

import (
	"context"

	"servicehub_backend/internal/bookings/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// BookingReader provides read-only access to bookings. The quotes and
// invoices modules depend on this view only.
type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]Booking, error)
}

// BookingWriter provides the booking lifecycle mutations.
type BookingWriter interface {
	Insert(ctx context.Context, b *Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, stampFirstReply bool) error
	MarkConfirmationSent(ctx context.Context, id uuid.UUID) error
}

// ContactLogStore manages the consultant contact trail.
type ContactLogStore interface {
	LogContact(ctx context.Context, log *ContactLog) error
	ListContactLogs(ctx context.Context, bookingID uuid.UUID) ([]ContactLog, error)
}

// BookingsRepository is the complete storage contract for bookings.
type BookingsRepository interface {
	BookingReader
	BookingWriter
	ContactLogStore
}

// Ensure Repository implements BookingsRepository
var _ BookingsRepository = (*Repository)(nil)
