// Package repository provides data access for bookings and contact logs.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicehub_backend/internal/bookings/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no booking matches the query.
var ErrNotFound = errors.New("booking not found")

// Booking is a client service request.
type Booking struct {
	ID                 uuid.UUID
	Reference          string
	ClientName         string
	ClientEmail        string
	ClientPhone        string
	ServiceType        string
	Details            string
	Status             domain.Status
	ConsultantID       *uuid.UUID
	AssignedAt         *time.Time
	FirstReplyAt       *time.Time
	ConfirmationSentAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ContactLog is an append-only record of a consultant reaching the client.
type ContactLog struct {
	ID           uuid.UUID
	BookingID    uuid.UUID
	ConsultantID uuid.UUID
	Channel      string
	Note         string
	CreatedAt    time.Time
}

// ListFilter narrows booking listings.
type ListFilter struct {
	ConsultantID *uuid.UUID
	Status       *domain.Status
}

// Repository provides access to the bookings tables.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new bookings repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new booking. A unique violation on the reference column
// is returned as-is so the service can retry with a fresh reference.
func (r *Repository) Insert(ctx context.Context, b *Booking) error {
	const query = `
		INSERT INTO bookings
			(id, reference, client_name, client_email, client_phone,
			 service_type, details, status, consultant_id, assigned_at,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.Reference, b.ClientName, b.ClientEmail, b.ClientPhone,
		b.ServiceType, b.Details, b.Status, b.ConsultantID, b.AssignedAt, b.CreatedAt,
	)
	return err
}

// GetByID returns a booking, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	const query = selectBooking + ` WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// GetByReference returns a booking by its human-facing reference.
func (r *Repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	const query = selectBooking + ` WHERE reference = $1`
	return r.queryOne(ctx, query, reference)
}

// List returns bookings matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Booking, error) {
	query := selectBooking + ` WHERE 1=1`
	args := []interface{}{}

	if filter.ConsultantID != nil {
		args = append(args, *filter.ConsultantID)
		query += fmt.Sprintf(` AND consultant_id = $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// UpdateStatus sets a booking's status. When stampFirstReply is true the
// first-staff-reply timestamp is set if it is still empty.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, stampFirstReply bool) error {
	query := `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`
	if stampFirstReply {
		query = `UPDATE bookings
			SET status = $2, first_reply_at = COALESCE(first_reply_at, now()), updated_at = now()
			WHERE id = $1`
	}

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkConfirmationSent stamps the first client-confirmation send time.
// Later sends never move it.
func (r *Repository) MarkConfirmationSent(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE bookings
		SET confirmation_sent_at = COALESCE(confirmation_sent_at, now())
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// LogContact appends a contact log entry and moves the booking to
// AWAITING_CLIENT in a single transaction.
func (r *Repository) LogContact(ctx context.Context, log *ContactLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO booking_contact_logs (id, booking_id, consultant_id, channel, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.BookingID, log.ConsultantID, log.Channel, log.Note, log.CreatedAt,
	)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE bookings
			SET status = $2, first_reply_at = COALESCE(first_reply_at, now()), updated_at = now()
			WHERE id = $1`,
		log.BookingID, domain.AfterContact(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// ListContactLogs returns a booking's contact history, oldest first.
func (r *Repository) ListContactLogs(ctx context.Context, bookingID uuid.UUID) ([]ContactLog, error) {
	const query = `
		SELECT id, booking_id, consultant_id, channel, note, created_at
		FROM booking_contact_logs
		WHERE booking_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []ContactLog
	for rows.Next() {
		var l ContactLog
		if err := rows.Scan(&l.ID, &l.BookingID, &l.ConsultantID, &l.Channel, &l.Note, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

const selectBooking = `
	SELECT id, reference, client_name, client_email, COALESCE(client_phone, ''),
	       service_type, details, status, consultant_id, assigned_at,
	       first_reply_at, confirmation_sent_at, created_at, updated_at
	FROM bookings`

func (r *Repository) queryOne(ctx context.Context, query string, args ...interface{}) (*Booking, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	b, err := scanBookingRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanBooking(rows pgx.Rows) (*Booking, error) {
	return scanBookingRow(rows)
}

func scanBookingRow(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.Reference, &b.ClientName, &b.ClientEmail, &b.ClientPhone,
		&b.ServiceType, &b.Details, &b.Status, &b.ConsultantID, &b.AssignedAt,
		&b.FirstReplyAt, &b.ConfirmationSentAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
