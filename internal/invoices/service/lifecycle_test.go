package service

import (
	"context"
	"testing"
	"time"

	bookingsdomain "servicehub_backend/internal/bookings/domain"
	bookingsrepo "servicehub_backend/internal/bookings/repository"
	bookingsservice "servicehub_backend/internal/bookings/service"
	"servicehub_backend/internal/invoices/domain"
	"servicehub_backend/internal/invoices/repository"
	quotesdomain "servicehub_backend/internal/quotes/domain"
	quotesrepo "servicehub_backend/internal/quotes/repository"
	quotesservice "servicehub_backend/internal/quotes/service"
	staffrepo "servicehub_backend/internal/staff/repository"
	"servicehub_backend/platform/apperr"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type memBookingStore struct {
	bookings map[uuid.UUID]*bookingsrepo.Booking
	logs     []bookingsrepo.ContactLog
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: make(map[uuid.UUID]*bookingsrepo.Booking)}
}

func (m *memBookingStore) Insert(_ context.Context, b *bookingsrepo.Booking) error {
	for _, have := range m.bookings {
		if have.Reference == b.Reference {
			return &pgconn.PgError{Code: "23505", ConstraintName: "bookings_reference_key"}
		}
	}
	out := *b
	m.bookings[b.ID] = &out
	return nil
}

func (m *memBookingStore) GetByID(_ context.Context, id uuid.UUID) (*bookingsrepo.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingsrepo.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (m *memBookingStore) GetByReference(_ context.Context, reference string) (*bookingsrepo.Booking, error) {
	for _, b := range m.bookings {
		if b.Reference == reference {
			out := *b
			return &out, nil
		}
	}
	return nil, bookingsrepo.ErrNotFound
}

func (m *memBookingStore) List(context.Context, bookingsrepo.ListFilter) ([]bookingsrepo.Booking, error) {
	return nil, nil
}

func (m *memBookingStore) UpdateStatus(context.Context, uuid.UUID, bookingsdomain.Status, bool) error {
	return nil
}

func (m *memBookingStore) MarkConfirmationSent(context.Context, uuid.UUID) error { return nil }

func (m *memBookingStore) LogContact(_ context.Context, entry *bookingsrepo.ContactLog) error {
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *memBookingStore) ListContactLogs(context.Context, uuid.UUID) ([]bookingsrepo.ContactLog, error) {
	return nil, nil
}

var _ bookingsrepo.BookingsRepository = (*memBookingStore)(nil)

type memQuoteStore struct {
	quotes map[uuid.UUID]*quotesrepo.Quote
}

func newMemQuoteStore() *memQuoteStore {
	return &memQuoteStore{quotes: make(map[uuid.UUID]*quotesrepo.Quote)}
}

func cloneQuote(q *quotesrepo.Quote) *quotesrepo.Quote {
	out := *q
	out.Items = append([]quotesrepo.LineItem(nil), q.Items...)
	out.DeliveryMethods = append([]quotesdomain.Method(nil), q.DeliveryMethods...)
	return &out
}

func (m *memQuoteStore) Insert(_ context.Context, q *quotesrepo.Quote) error {
	for _, have := range m.quotes {
		if have.BookingID == q.BookingID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "quotes_booking_id_key"}
		}
	}
	m.quotes[q.ID] = cloneQuote(q)
	return nil
}

func (m *memQuoteStore) GetByID(_ context.Context, id uuid.UUID) (*quotesrepo.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, quotesrepo.ErrNotFound
	}
	return cloneQuote(q), nil
}

func (m *memQuoteStore) GetByBookingID(_ context.Context, bookingID uuid.UUID) (*quotesrepo.Quote, error) {
	for _, q := range m.quotes {
		if q.BookingID == bookingID {
			return cloneQuote(q), nil
		}
	}
	return nil, quotesrepo.ErrNotFound
}

func (m *memQuoteStore) GetByToken(_ context.Context, token string) (*quotesrepo.Quote, error) {
	for _, q := range m.quotes {
		if q.PublicToken == token {
			return cloneQuote(q), nil
		}
	}
	return nil, quotesrepo.ErrNotFound
}

func (m *memQuoteStore) ReplaceItems(_ context.Context, quoteID uuid.UUID, items []quotesrepo.LineItem, totalCents int64, clientNotes, internalNotes string) error {
	q := m.quotes[quoteID]
	q.Items = items
	q.TotalCents = totalCents
	q.ClientNotes = clientNotes
	q.InternalNotes = internalNotes
	return nil
}

func (m *memQuoteStore) RecordSend(_ context.Context, id uuid.UUID, methods []quotesdomain.Method) error {
	q := m.quotes[id]
	q.Status = quotesdomain.StatusSent
	q.DeliveryMethods = methods
	if q.SentAt == nil {
		now := time.Now()
		q.SentAt = &now
	}
	return nil
}

func (m *memQuoteStore) RecordResponse(_ context.Context, id uuid.UUID, status quotesdomain.Status, kind quotesdomain.ResponseKind, message string, agreedAt *time.Time) error {
	q := m.quotes[id]
	now := time.Now()
	q.Status = status
	q.ResponseKind = &kind
	q.ResponseMessage = message
	q.RespondedAt = &now
	q.AgreedAt = agreedAt
	return nil
}

func (m *memQuoteStore) RecordSignedDocument(_ context.Context, id uuid.UUID, objectKey string) error {
	q := m.quotes[id]
	q.SignedDocKey = &objectKey
	q.Status = quotesdomain.StatusApproved
	return nil
}

func (m *memQuoteStore) Verify(_ context.Context, id uuid.UUID, verifier uuid.UUID) error {
	q := m.quotes[id]
	now := time.Now()
	q.Status = quotesdomain.StatusApproved
	q.Locked = true
	q.VerifiedAt = &now
	q.VerifiedBy = &verifier
	return nil
}

func (m *memQuoteStore) ListStaleSent(context.Context, time.Time, time.Time) ([]quotesrepo.StaleQuote, error) {
	return nil, nil
}

func (m *memQuoteStore) MarkReminderSent(context.Context, uuid.UUID) error { return nil }

var _ quotesrepo.QuotesRepository = (*memQuoteStore)(nil)

type memInvoiceStore struct {
	invoices map[uuid.UUID]*repository.Invoice
	proofs   map[uuid.UUID][]repository.PaymentProof
}

func newMemInvoiceStore() *memInvoiceStore {
	return &memInvoiceStore{
		invoices: make(map[uuid.UUID]*repository.Invoice),
		proofs:   make(map[uuid.UUID][]repository.PaymentProof),
	}
}

func (m *memInvoiceStore) Insert(_ context.Context, inv *repository.Invoice) error {
	for _, have := range m.invoices {
		if have.QuoteID == inv.QuoteID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "invoices_quote_id_key"}
		}
		if have.Reference == inv.Reference {
			return &pgconn.PgError{Code: "23505", ConstraintName: "invoices_reference_key"}
		}
	}
	out := *inv
	m.invoices[inv.ID] = &out
	return nil
}

func (m *memInvoiceStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *inv
	return &out, nil
}

func (m *memInvoiceStore) GetByQuoteID(_ context.Context, quoteID uuid.UUID) (*repository.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.QuoteID == quoteID {
			out := *inv
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memInvoiceStore) GetByToken(_ context.Context, token string) (*repository.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.PublicToken == token {
			out := *inv
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memInvoiceStore) UpdateDetails(_ context.Context, id uuid.UUID, dueDate time.Time, accountName, accountNumber, bankName string) error {
	inv := m.invoices[id]
	inv.DueDate = dueDate
	inv.BankAccountName = accountName
	inv.BankAccountNumber = accountNumber
	inv.BankName = bankName
	return nil
}

func (m *memInvoiceStore) RecordSend(_ context.Context, id uuid.UUID) error {
	inv := m.invoices[id]
	inv.Status = domain.StatusSent
	if inv.SentAt == nil {
		now := time.Now()
		inv.SentAt = &now
	}
	return nil
}

func (m *memInvoiceStore) ConfirmPayment(_ context.Context, invoiceID, verifier uuid.UUID, notes string) error {
	inv := m.invoices[invoiceID]
	now := time.Now()
	inv.Status = domain.StatusPaid
	inv.PaidAt = &now

	proofs := m.proofs[invoiceID]
	for i := range proofs {
		proofs[i].VerifiedAt = &now
		proofs[i].VerifiedBy = &verifier
		proofs[i].Notes = notes
	}
	return nil
}

func (m *memInvoiceStore) InsertProof(_ context.Context, proof *repository.PaymentProof) error {
	m.proofs[proof.InvoiceID] = append(m.proofs[proof.InvoiceID], *proof)
	return nil
}

func (m *memInvoiceStore) ListProofs(_ context.Context, invoiceID uuid.UUID) ([]repository.PaymentProof, error) {
	return append([]repository.PaymentProof(nil), m.proofs[invoiceID]...), nil
}

func (m *memInvoiceStore) AnnotateProofs(_ context.Context, invoiceID uuid.UUID, notes string) error {
	proofs := m.proofs[invoiceID]
	for i := range proofs {
		proofs[i].Notes = notes
	}
	return nil
}

func (m *memInvoiceStore) ListOverdueSent(context.Context, time.Time, time.Time) ([]repository.OverdueInvoice, error) {
	return nil, nil
}

func (m *memInvoiceStore) MarkReminderSent(context.Context, uuid.UUID) error { return nil }

var _ repository.InvoicesRepository = (*memInvoiceStore)(nil)

type fakeObjectStore struct{}

func (fakeObjectStore) PresignSignedQuoteUpload(_ context.Context, objectKey, _ string) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (fakeObjectStore) PresignSignedQuoteDownload(_ context.Context, objectKey string) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

func (fakeObjectStore) PresignPaymentProofUpload(_ context.Context, objectKey, _ string) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (fakeObjectStore) PresignProofDownload(_ context.Context, objectKey string) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

type nilRouter struct{}

func (nilRouter) Route(context.Context, string) *staffrepo.Consultant { return nil }

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type fakeBillingConfig struct{}

func (fakeBillingConfig) GetInvoiceDueDays() int       { return 14 }
func (fakeBillingConfig) GetBankAccountName() string   { return "ServiceHub B.V." }
func (fakeBillingConfig) GetBankAccountNumber() string { return "NL91ABNA0417164300" }
func (fakeBillingConfig) GetBankName() string          { return "ABN AMRO" }

// TestLifecycle_BookingToPaidInvoice walks the full pipeline: public intake,
// quote draft and dispatch, client approval through the capability token,
// invoice generation, proof submission, and admin payment verification.
func TestLifecycle_BookingToPaidInvoice(t *testing.T) {
	log := logger.New("test")
	bus := &recordingBus{}
	bookingStore := newMemBookingStore()
	quoteStore := newMemQuoteStore()
	invoiceStore := newMemInvoiceStore()

	bookingsSvc := bookingsservice.New(bookingStore, nilRouter{}, bus, log)
	quotesSvc := quotesservice.New(quoteStore, bookingStore, fakeObjectStore{}, bus, log)
	invoicesSvc := New(invoiceStore, quoteStore, bookingStore, fakeObjectStore{}, bus, fakeBillingConfig{}, log)

	booking, err := bookingsSvc.Create(t.Context(), bookingsservice.CreateInput{
		ClientName:  "Jamie de Vries",
		ClientEmail: "Jamie@Example.com",
		ClientPhone: "+31612345678",
		ServiceType: "plumbing",
		Details:     "Leaking boiler",
	})
	if err != nil {
		t.Fatalf("booking create failed: %v", err)
	}

	quote, err := quotesSvc.Create(t.Context(), uuid.New(), booking.ID, quotesservice.DraftInput{
		Items: []quotesdomain.LineItemInput{
			{Description: "Boiler replacement", Quantity: 1, UnitPriceCents: 125000},
		},
	})
	if err != nil {
		t.Fatalf("quote create failed: %v", err)
	}

	// An unapproved quote cannot be invoiced.
	if _, err := invoicesSvc.Create(t.Context(), quote.ID, nil); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict invoicing a draft quote, got %v", err)
	}

	if _, err := quotesSvc.Send(t.Context(), quote.ID, "secure-portal-link"); err != nil {
		t.Fatalf("quote send failed: %v", err)
	}
	if _, err := quotesSvc.Respond(t.Context(), quotesservice.RespondInput{
		Token: quote.PublicToken,
		Email: "jamie@example.com",
		Kind:  "approval",
	}); err != nil {
		t.Fatalf("quote approval failed: %v", err)
	}

	invoice, err := invoicesSvc.Create(t.Context(), quote.ID, nil)
	if err != nil {
		t.Fatalf("invoice create failed: %v", err)
	}
	if invoice.Status != domain.StatusGenerated {
		t.Fatalf("expected GENERATED, got %s", invoice.Status)
	}
	if invoice.TotalCents != 125000 {
		t.Fatalf("expected the quote total snapshotted, got %d", invoice.TotalCents)
	}
	if invoice.DueDate.Before(time.Now().AddDate(0, 0, 13)) {
		t.Fatalf("expected the configured due offset, got %s", invoice.DueDate)
	}
	if invoice.BankAccountNumber != "NL91ABNA0417164300" {
		t.Fatalf("expected configured bank details, got %s", invoice.BankAccountNumber)
	}

	// One invoice per quote.
	if _, err := invoicesSvc.Create(t.Context(), quote.ID, nil); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for a second invoice on the quote, got %v", err)
	}

	if _, err := invoicesSvc.Send(t.Context(), invoice.ID); err != nil {
		t.Fatalf("invoice send failed: %v", err)
	}

	// Verification needs a proof on file.
	if _, err := invoicesSvc.VerifyPayment(t.Context(), invoice.ID, uuid.New(), true, ""); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict verifying without proofs, got %v", err)
	}

	uploadURL, objectKey, err := invoicesSvc.PresignProofUpload(t.Context(), invoice.PublicToken, "jamie@example.com", "image/png")
	if err != nil {
		t.Fatalf("presign proof failed: %v", err)
	}
	if uploadURL == "" || objectKey == "" {
		t.Fatalf("expected upload url and object key, got %q %q", uploadURL, objectKey)
	}
	if _, err := invoicesSvc.SubmitProof(t.Context(), invoice.PublicToken, "jamie@example.com", objectKey); err != nil {
		t.Fatalf("submit proof failed: %v", err)
	}

	// A submitted proof alone never pays the invoice.
	current, err := invoicesSvc.Get(t.Context(), invoice.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if current.Status != domain.StatusSent {
		t.Fatalf("expected SENT after proof submission, got %s", current.Status)
	}

	// A rejected verification annotates the proofs and leaves the status.
	if _, err := invoicesSvc.VerifyPayment(t.Context(), invoice.ID, uuid.New(), false, "amount mismatch"); err != nil {
		t.Fatalf("rejection failed: %v", err)
	}
	records, err := invoicesSvc.Proofs(t.Context(), invoice.ID)
	if err != nil {
		t.Fatalf("proofs failed: %v", err)
	}
	if len(records) != 1 || records[0].Notes != "amount mismatch" {
		t.Fatalf("expected the rejection note on the proof, got %+v", records)
	}
	if records[0].DownloadURL != "https://storage.test/"+objectKey {
		t.Fatalf("expected a proof download url, got %q", records[0].DownloadURL)
	}

	adminID := uuid.New()
	paid, err := invoicesSvc.VerifyPayment(t.Context(), invoice.ID, adminID, true, "matched bank statement")
	if err != nil {
		t.Fatalf("verification failed: %v", err)
	}
	if paid.Status != domain.StatusPaid {
		t.Fatalf("expected PAID, got %s", paid.Status)
	}

	records, err = invoicesSvc.Proofs(t.Context(), invoice.ID)
	if err != nil {
		t.Fatalf("proofs failed: %v", err)
	}
	if records[0].VerifiedAt == nil || records[0].VerifiedBy == nil || *records[0].VerifiedBy != adminID {
		t.Fatalf("expected the proof stamped by the verifier, got %+v", records[0])
	}

	// Paid invoices are closed for edits and further proofs.
	_, err = invoicesSvc.UpdateDetails(t.Context(), invoice.ID, EditInput{
		DueDate:           time.Now().AddDate(0, 0, 30),
		BankAccountName:   "Other",
		BankAccountNumber: "NL00",
		BankName:          "Other Bank",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict editing a paid invoice, got %v", err)
	}
	if _, err := invoicesSvc.SubmitProof(t.Context(), invoice.PublicToken, "jamie@example.com", "late-proof"); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict submitting a proof to a paid invoice, got %v", err)
	}
}
