// Package repository provides data access for quotes and their line items.
package repository

import (
	"context"
	"errors"
	"time"

	"servicehub_backend/internal/quotes/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no quote matches the query.
var ErrNotFound = errors.New("quote not found")

// LineItem is a persisted quote line.
type LineItem struct {
	ID             uuid.UUID
	QuoteID        uuid.UUID
	Position       int
	Description    string
	Quantity       int64
	UnitPriceCents int64
	LineTotalCents int64
}

// Quote is a priced proposal for one booking.
type Quote struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	AuthorID        uuid.UUID
	Status          domain.Status
	Items           []LineItem
	TotalCents      int64
	ClientNotes     string
	InternalNotes   string
	DeliveryMethods []domain.Method
	SentAt          *time.Time
	ResponseKind    *domain.ResponseKind
	ResponseMessage string
	RespondedAt     *time.Time
	AgreedAt        *time.Time
	SignedDocKey    *string
	VerifiedAt      *time.Time
	VerifiedBy      *uuid.UUID
	Locked          bool
	PublicToken     string
	LastReminderAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StaleQuote is the projection the reminder sweep works on.
type StaleQuote struct {
	ID             uuid.UUID
	BookingRef     string
	TotalCents     int64
	SentAt         time.Time
	PublicToken    string
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	LastReminderAt *time.Time
}

// Repository provides access to the quotes tables.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new quote with its line items in one transaction.
// A unique violation on booking_id means the booking is already quoted.
func (r *Repository) Insert(ctx context.Context, q *Quote) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO quotes
			(id, booking_id, author_id, status, total_cents, client_notes,
			 internal_notes, delivery_methods, public_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		q.ID, q.BookingID, q.AuthorID, q.Status, q.TotalCents, q.ClientNotes,
		q.InternalNotes, methodStrings(q.DeliveryMethods), q.PublicToken, q.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertItems(ctx, tx, q.ID, q.Items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReplaceItems swaps the full line item set and updates the computed total
// and notes. Stale items are discarded, never patched.
func (r *Repository) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []LineItem, totalCents int64, clientNotes, internalNotes string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quoteID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, quoteID, items); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE quotes
		SET total_cents = $2, client_notes = $3, internal_notes = $4, updated_at = now()
		WHERE id = $1`,
		quoteID, totalCents, clientNotes, internalNotes,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID returns a quote with its items, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	return r.getOne(ctx, selectQuote+` WHERE id = $1`, id)
}

// GetByBookingID returns the quote owned by a booking, or ErrNotFound.
func (r *Repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Quote, error) {
	return r.getOne(ctx, selectQuote+` WHERE booking_id = $1`, bookingID)
}

// GetByToken returns the quote for a public capability token, or ErrNotFound.
func (r *Repository) GetByToken(ctx context.Context, token string) (*Quote, error) {
	return r.getOne(ctx, selectQuote+` WHERE public_token = $1`, token)
}

// RecordSend marks the quote SENT, accumulates the delivery methods, and
// stamps the delivery timestamp on the first send only.
func (r *Repository) RecordSend(ctx context.Context, id uuid.UUID, methods []domain.Method) error {
	const query = `
		UPDATE quotes
		SET status = $2, delivery_methods = $3,
		    sent_at = COALESCE(sent_at, now()), updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, domain.StatusSent, methodStrings(methods))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordResponse stores the client's latest response and resulting status.
func (r *Repository) RecordResponse(ctx context.Context, id uuid.UUID, status domain.Status, kind domain.ResponseKind, message string, agreedAt *time.Time) error {
	const query = `
		UPDATE quotes
		SET status = $2, response_kind = $3, response_message = $4,
		    responded_at = now(), agreed_at = COALESCE($5, agreed_at), updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, kind, message, agreedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordSignedDocument stores the signed document reference, stamps the
// agreement time, and forces APPROVED.
func (r *Repository) RecordSignedDocument(ctx context.Context, id uuid.UUID, objectKey string) error {
	const query = `
		UPDATE quotes
		SET status = $2, signed_doc_key = $3,
		    agreed_at = COALESCE(agreed_at, now()), updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, domain.StatusApproved, objectKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Verify stamps the verifier, sets the lock flag, and confirms APPROVED.
func (r *Repository) Verify(ctx context.Context, id uuid.UUID, verifier uuid.UUID) error {
	const query = `
		UPDATE quotes
		SET status = $2, verified_at = now(), verified_by = $3,
		    locked = TRUE, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, domain.StatusApproved, verifier)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListStaleSent returns SENT quotes delivered before the cutoff whose last
// reminder is absent or older than the cooldown boundary.
func (r *Repository) ListStaleSent(ctx context.Context, sentBefore, reminderBefore time.Time) ([]StaleQuote, error) {
	const query = `
		SELECT q.id, b.reference, q.total_cents, q.sent_at, q.public_token,
		       b.client_name, b.client_email, COALESCE(b.client_phone, ''),
		       q.last_reminder_at
		FROM quotes q
		JOIN bookings b ON b.id = q.booking_id
		WHERE q.status = 'SENT'
		  AND q.sent_at < $1
		  AND (q.last_reminder_at IS NULL OR q.last_reminder_at < $2)
		ORDER BY q.sent_at`

	rows, err := r.pool.Query(ctx, query, sentBefore, reminderBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []StaleQuote
	for rows.Next() {
		var s StaleQuote
		err := rows.Scan(&s.ID, &s.BookingRef, &s.TotalCents, &s.SentAt, &s.PublicToken,
			&s.ClientName, &s.ClientEmail, &s.ClientPhone, &s.LastReminderAt)
		if err != nil {
			return nil, err
		}
		stale = append(stale, s)
	}
	return stale, rows.Err()
}

// MarkReminderSent stamps the reminder cooldown field.
func (r *Repository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quotes SET last_reminder_at = now() WHERE id = $1`, id)
	return err
}

const selectQuote = `
	SELECT id, booking_id, author_id, status, total_cents, client_notes,
	       internal_notes, delivery_methods, sent_at, response_kind,
	       COALESCE(response_message, ''), responded_at, agreed_at,
	       signed_doc_key, verified_at, verified_by, locked, public_token,
	       last_reminder_at, created_at, updated_at
	FROM quotes`

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*Quote, error) {
	row := r.pool.QueryRow(ctx, query, arg)

	var q Quote
	var methods []string
	var kind *string
	err := row.Scan(
		&q.ID, &q.BookingID, &q.AuthorID, &q.Status, &q.TotalCents, &q.ClientNotes,
		&q.InternalNotes, &methods, &q.SentAt, &kind, &q.ResponseMessage,
		&q.RespondedAt, &q.AgreedAt, &q.SignedDocKey, &q.VerifiedAt, &q.VerifiedBy,
		&q.Locked, &q.PublicToken, &q.LastReminderAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, m := range methods {
		q.DeliveryMethods = append(q.DeliveryMethods, domain.Method(m))
	}
	if kind != nil {
		k := domain.ResponseKind(*kind)
		q.ResponseKind = &k
	}

	if err := r.loadItems(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repository) loadItems(ctx context.Context, q *Quote) error {
	const query = `
		SELECT id, quote_id, position, description, quantity, unit_price_cents, line_total_cents
		FROM quote_items
		WHERE quote_id = $1
		ORDER BY position`

	rows, err := r.pool.Query(ctx, query, q.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItem
		err := rows.Scan(&item.ID, &item.QuoteID, &item.Position, &item.Description,
			&item.Quantity, &item.UnitPriceCents, &item.LineTotalCents)
		if err != nil {
			return err
		}
		q.Items = append(q.Items, item)
	}
	return rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, quoteID uuid.UUID, items []LineItem) error {
	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO quote_items
				(id, quote_id, position, description, quantity, unit_price_cents, line_total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, quoteID, item.Position, item.Description,
			item.Quantity, item.UnitPriceCents, item.LineTotalCents,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func methodStrings(methods []domain.Method) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	return out
}
