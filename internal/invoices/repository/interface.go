package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// InvoiceReader provides read-only access to invoices.
type InvoiceReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*Invoice, error)
	GetByToken(ctx context.Context, token string) (*Invoice, error)
}

// InvoiceWriter provides the invoice lifecycle mutations.
type InvoiceWriter interface {
	Insert(ctx context.Context, inv *Invoice) error
	UpdateDetails(ctx context.Context, id uuid.UUID, dueDate time.Time, accountName, accountNumber, bankName string) error
	RecordSend(ctx context.Context, id uuid.UUID) error
	ConfirmPayment(ctx context.Context, invoiceID, verifier uuid.UUID, notes string) error
}

// ProofLedger manages payment proof records.
type ProofLedger interface {
	InsertProof(ctx context.Context, proof *PaymentProof) error
	ListProofs(ctx context.Context, invoiceID uuid.UUID) ([]PaymentProof, error)
	AnnotateProofs(ctx context.Context, invoiceID uuid.UUID, notes string) error
}

// ReminderStore supports the overdue-invoice reminder sweep.
type ReminderStore interface {
	ListOverdueSent(ctx context.Context, dueBefore, reminderBefore time.Time) ([]OverdueInvoice, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

// InvoicesRepository is the complete storage contract for invoices.
type InvoicesRepository interface {
	InvoiceReader
	InvoiceWriter
	ProofLedger
	ReminderStore
}

// Ensure Repository implements InvoicesRepository
var _ InvoicesRepository = (*Repository)(nil)
