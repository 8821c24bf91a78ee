// Package repository provides data access for invoices and payment proofs.
package repository

import (
	"context"
	"errors"
	"time"

	"servicehub_backend/internal/invoices/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no invoice matches the query.
var ErrNotFound = errors.New("invoice not found")

// Invoice is a billing document for one approved quote.
type Invoice struct {
	ID                uuid.UUID
	QuoteID           uuid.UUID
	Reference         string
	TotalCents        int64
	DueDate           time.Time
	BankAccountName   string
	BankAccountNumber string
	BankName          string
	Status            domain.Status
	SentAt            *time.Time
	PaidAt            *time.Time
	PublicToken       string
	LastReminderAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PaymentProof is one client-submitted transfer receipt.
type PaymentProof struct {
	ID         uuid.UUID
	InvoiceID  uuid.UUID
	ObjectKey  string
	UploadedAt time.Time
	VerifiedAt *time.Time
	VerifiedBy *uuid.UUID
	Notes      string
}

// OverdueInvoice is the projection the reminder sweep works on.
type OverdueInvoice struct {
	ID             uuid.UUID
	Reference      string
	TotalCents     int64
	DueDate        time.Time
	PublicToken    string
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	LastReminderAt *time.Time
}

// Repository provides access to the invoices tables.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new invoices repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new invoice. A unique violation on quote_id means the
// quote is already invoiced; on reference, the caller retries.
func (r *Repository) Insert(ctx context.Context, inv *Invoice) error {
	const query = `
		INSERT INTO invoices
			(id, quote_id, reference, total_cents, due_date, bank_account_name,
			 bank_account_number, bank_name, status, public_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

	_, err := r.pool.Exec(ctx, query,
		inv.ID, inv.QuoteID, inv.Reference, inv.TotalCents, inv.DueDate,
		inv.BankAccountName, inv.BankAccountNumber, inv.BankName,
		inv.Status, inv.PublicToken, inv.CreatedAt,
	)
	return err
}

// GetByID returns an invoice, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return r.getOne(ctx, selectInvoice+` WHERE id = $1`, id)
}

// GetByQuoteID returns the invoice for a quote, or ErrNotFound.
func (r *Repository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*Invoice, error) {
	return r.getOne(ctx, selectInvoice+` WHERE quote_id = $1`, quoteID)
}

// GetByToken returns the invoice for a public capability token.
func (r *Repository) GetByToken(ctx context.Context, token string) (*Invoice, error) {
	return r.getOne(ctx, selectInvoice+` WHERE public_token = $1`, token)
}

// UpdateDetails changes the due date and bank transfer fields.
func (r *Repository) UpdateDetails(ctx context.Context, id uuid.UUID, dueDate time.Time, accountName, accountNumber, bankName string) error {
	const query = `
		UPDATE invoices
		SET due_date = $2, bank_account_name = $3, bank_account_number = $4,
		    bank_name = $5, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, dueDate, accountName, accountNumber, bankName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordSend marks the invoice SENT and stamps the delivery timestamp on
// the first send only.
func (r *Repository) RecordSend(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE invoices
		SET status = $2, sent_at = COALESCE(sent_at, now()), updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, domain.StatusSent)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertProof appends a payment proof. Proofs never change the invoice
// status by themselves.
func (r *Repository) InsertProof(ctx context.Context, proof *PaymentProof) error {
	const query = `
		INSERT INTO payment_proofs (id, invoice_id, object_key, uploaded_at, notes)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		proof.ID, proof.InvoiceID, proof.ObjectKey, proof.UploadedAt, proof.Notes)
	return err
}

// ListProofs returns an invoice's proofs, oldest first.
func (r *Repository) ListProofs(ctx context.Context, invoiceID uuid.UUID) ([]PaymentProof, error) {
	const query = `
		SELECT id, invoice_id, object_key, uploaded_at, verified_at, verified_by, COALESCE(notes, '')
		FROM payment_proofs
		WHERE invoice_id = $1
		ORDER BY uploaded_at`

	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proofs []PaymentProof
	for rows.Next() {
		var p PaymentProof
		err := rows.Scan(&p.ID, &p.InvoiceID, &p.ObjectKey, &p.UploadedAt,
			&p.VerifiedAt, &p.VerifiedBy, &p.Notes)
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}

// ConfirmPayment moves the invoice to PAID and batch-marks every proof
// verified with the same timestamp, verifier, and notes, in one transaction.
func (r *Repository) ConfirmPayment(ctx context.Context, invoiceID, verifier uuid.UUID, notes string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE invoices
		SET status = $2, paid_at = now(), updated_at = now()
		WHERE id = $1`,
		invoiceID, domain.StatusPaid,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE payment_proofs
		SET verified_at = now(), verified_by = $2, notes = $3
		WHERE invoice_id = $1`,
		invoiceID, verifier, notes,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AnnotateProofs writes rejection notes on every proof without touching
// the invoice status. Proofs are kept as an audit trail, never deleted.
func (r *Repository) AnnotateProofs(ctx context.Context, invoiceID uuid.UUID, notes string) error {
	const query = `UPDATE payment_proofs SET notes = $2 WHERE invoice_id = $1`
	_, err := r.pool.Exec(ctx, query, invoiceID, notes)
	return err
}

// ListOverdueSent returns SENT invoices past their due date whose last
// reminder is absent or older than the cooldown boundary.
func (r *Repository) ListOverdueSent(ctx context.Context, dueBefore, reminderBefore time.Time) ([]OverdueInvoice, error) {
	const query = `
		SELECT i.id, i.reference, i.total_cents, i.due_date, i.public_token,
		       b.client_name, b.client_email, COALESCE(b.client_phone, ''),
		       i.last_reminder_at
		FROM invoices i
		JOIN quotes q ON q.id = i.quote_id
		JOIN bookings b ON b.id = q.booking_id
		WHERE i.status = 'SENT'
		  AND i.due_date < $1
		  AND (i.last_reminder_at IS NULL OR i.last_reminder_at < $2)
		ORDER BY i.due_date`

	rows, err := r.pool.Query(ctx, query, dueBefore, reminderBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overdue []OverdueInvoice
	for rows.Next() {
		var o OverdueInvoice
		err := rows.Scan(&o.ID, &o.Reference, &o.TotalCents, &o.DueDate, &o.PublicToken,
			&o.ClientName, &o.ClientEmail, &o.ClientPhone, &o.LastReminderAt)
		if err != nil {
			return nil, err
		}
		overdue = append(overdue, o)
	}
	return overdue, rows.Err()
}

// MarkReminderSent stamps the reminder cooldown field.
func (r *Repository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE invoices SET last_reminder_at = now() WHERE id = $1`, id)
	return err
}

const selectInvoice = `
	SELECT id, quote_id, reference, total_cents, due_date, bank_account_name,
	       bank_account_number, bank_name, status, sent_at, paid_at,
	       public_token, last_reminder_at, created_at, updated_at
	FROM invoices`

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, query, arg)

	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.QuoteID, &inv.Reference, &inv.TotalCents, &inv.DueDate,
		&inv.BankAccountName, &inv.BankAccountNumber, &inv.BankName, &inv.Status,
		&inv.SentAt, &inv.PaidAt, &inv.PublicToken, &inv.LastReminderAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
