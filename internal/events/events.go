// Package events defines the domain events exchanged between modules.
// Events are published after state is committed; subscribers must never
// be able to roll back the triggering operation.
package events

import (
	"time"

	"servicehub_backend/platform/events"

	"github.com/google/uuid"
)

// Event names.
const (
	BookingCreatedName        = "booking.created"
	BookingStatusChangedName  = "booking.status_changed"
	QuoteSentName             = "quote.sent"
	QuoteRespondedName        = "quote.responded"
	QuoteDocumentUploadedName = "quote.document_uploaded"
	QuoteVerifiedName         = "quote.verified"
	InvoiceSentName           = "invoice.sent"
	ProofSubmittedName        = "invoice.proof_submitted"
	PaymentConfirmedName      = "invoice.payment_confirmed"
	QuoteReminderDueName      = "quote.reminder_due"
	InvoiceReminderDueName    = "invoice.reminder_due"
)

// ClientContact carries the client-facing contact details a notification
// needs. Phone may be empty when the client never provided one.
type ClientContact struct {
	Name  string
	Email string
	Phone string
}

// BookingCreated is published when a public intake produces a new booking.
type BookingCreated struct {
	events.BaseEvent
	BookingID    uuid.UUID
	Reference    string
	ServiceType  string
	Client       ClientContact
	ConsultantID *uuid.UUID
}

func (e BookingCreated) EventName() string { return BookingCreatedName }

// BookingStatusChanged is published when an admin moves a booking.
type BookingStatusChanged struct {
	events.BaseEvent
	BookingID uuid.UUID
	Reference string
	OldStatus string
	NewStatus string
}

func (e BookingStatusChanged) EventName() string { return BookingStatusChangedName }

// QuoteSent is published after a quote delivery is recorded.
type QuoteSent struct {
	events.BaseEvent
	QuoteID     uuid.UUID
	BookingID   uuid.UUID
	Reference   string
	Method      string
	TotalCents  int64
	PublicToken string
	Client      ClientContact
}

func (e QuoteSent) EventName() string { return QuoteSentName }

// QuoteResponded is published when the client approves or rejects a quote.
type QuoteResponded struct {
	events.BaseEvent
	QuoteID    uuid.UUID
	BookingID  uuid.UUID
	Reference  string
	Approved   bool
	Comment    string
	TotalCents int64
	Client     ClientContact
}

func (e QuoteResponded) EventName() string { return QuoteRespondedName }

// QuoteDocumentUploaded is published when a signed quote document lands.
// The upload force-approves the quote, so subscribers can assume the
// quote is APPROVED by the time they run.
type QuoteDocumentUploaded struct {
	events.BaseEvent
	QuoteID   uuid.UUID
	BookingID uuid.UUID
	Reference string
	ObjectKey string
	Client    ClientContact
}

func (e QuoteDocumentUploaded) EventName() string { return QuoteDocumentUploadedName }

// QuoteVerified is published when an admin verifies the signed document
// and locks the quote.
type QuoteVerified struct {
	events.BaseEvent
	QuoteID   uuid.UUID
	BookingID uuid.UUID
	Reference string
	Client    ClientContact
}

func (e QuoteVerified) EventName() string { return QuoteVerifiedName }

// InvoiceSent is published after an invoice delivery is recorded. Bank
// transfer details ride along so the notifier never reaches back into config.
type InvoiceSent struct {
	events.BaseEvent
	InvoiceID         uuid.UUID
	QuoteID           uuid.UUID
	Reference         string
	TotalCents        int64
	DueDate           time.Time
	BankAccountName   string
	BankAccountNumber string
	BankName          string
	PublicToken       string
	Client            ClientContact
}

func (e InvoiceSent) EventName() string { return InvoiceSentName }

// ProofSubmitted is published when a client uploads a payment proof.
type ProofSubmitted struct {
	events.BaseEvent
	InvoiceID uuid.UUID
	ProofID   uuid.UUID
	Reference string
	ObjectKey string
	Client    ClientContact
}

func (e ProofSubmitted) EventName() string { return ProofSubmittedName }

// PaymentConfirmed is published when an admin verifies payment and the
// invoice transitions to PAID.
type PaymentConfirmed struct {
	events.BaseEvent
	InvoiceID  uuid.UUID
	Reference  string
	TotalCents int64
	Client     ClientContact
}

func (e PaymentConfirmed) EventName() string { return PaymentConfirmedName }

// QuoteReminderDue is published by the reminder sweep for a quote that has
// sat in SENT past the staleness threshold.
type QuoteReminderDue struct {
	events.BaseEvent
	QuoteID     uuid.UUID
	Reference   string
	TotalCents  int64
	SentAt      time.Time
	PublicToken string
	Client      ClientContact
}

func (e QuoteReminderDue) EventName() string { return QuoteReminderDueName }

// InvoiceReminderDue is published by the reminder sweep for a SENT invoice
// past its due date.
type InvoiceReminderDue struct {
	events.BaseEvent
	InvoiceID   uuid.UUID
	Reference   string
	TotalCents  int64
	DueDate     time.Time
	PublicToken string
	Client      ClientContact
}

func (e InvoiceReminderDue) EventName() string { return InvoiceReminderDueName }
