// Package service implements the invoice lifecycle: creation from approved
// quotes, dispatch, payment proof intake, and admin payment verification.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	bookingsrepo "servicehub_backend/internal/bookings/repository"
	domainevents "servicehub_backend/internal/events"
	"servicehub_backend/internal/invoices/domain"
	"servicehub_backend/internal/invoices/repository"
	quotesrepo "servicehub_backend/internal/quotes/repository"
	"servicehub_backend/platform/apperr"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/db"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	maxReferenceAttempts = 5
	referenceCharset     = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// ProofStore issues presigned URLs for payment proofs: uploads for
// clients, downloads for staff review.
type ProofStore interface {
	PresignPaymentProofUpload(ctx context.Context, objectKey, contentType string) (string, error)
	PresignProofDownload(ctx context.Context, objectKey string) (string, error)
}

// ProofRecord pairs a stored proof with a short-lived download URL. The
// URL is empty when object storage is unavailable.
type ProofRecord struct {
	repository.PaymentProof
	DownloadURL string
}

// EditInput carries the fields that remain editable until the invoice is paid.
type EditInput struct {
	DueDate           time.Time
	BankAccountName   string
	BankAccountNumber string
	BankName          string
}

// Service implements invoice operations.
type Service struct {
	repo     repository.InvoicesRepository
	quotes   quotesrepo.QuoteReader
	bookings bookingsrepo.BookingReader
	proofs   ProofStore
	bus      events.Bus
	cfg      config.BillingConfig
	log      *logger.Logger
}

// New creates a new invoices service.
func New(repo repository.InvoicesRepository, quotes quotesrepo.QuoteReader, bookings bookingsrepo.BookingReader, proofs ProofStore, bus events.Bus, cfg config.BillingConfig, log *logger.Logger) *Service {
	return &Service{
		repo: repo, quotes: quotes, bookings: bookings,
		proofs: proofs, bus: bus, cfg: cfg, log: log,
	}
}

// Create generates an invoice from an approved quote. The total is a
// snapshot of the quote total; due date defaults to the configured offset.
func (s *Service) Create(ctx context.Context, quoteID uuid.UUID, dueDate *time.Time) (*repository.Invoice, error) {
	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanCreateFrom(quote.Status); err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := &repository.Invoice{
		ID:                uuid.New(),
		QuoteID:           quote.ID,
		TotalCents:        quote.TotalCents,
		DueDate:           domain.ResolveDueDate(dueDate, now, s.cfg.GetInvoiceDueDays()),
		BankAccountName:   s.cfg.GetBankAccountName(),
		BankAccountNumber: s.cfg.GetBankAccountNumber(),
		BankName:          s.cfg.GetBankName(),
		Status:            domain.StatusGenerated,
		PublicToken:       newPublicToken(),
		CreatedAt:         now,
	}

	if err := s.insertWithReference(ctx, invoice, now); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) insertWithReference(ctx context.Context, invoice *repository.Invoice, now time.Time) error {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		invoice.Reference = newReference(now)
		err := s.repo.Insert(ctx, invoice)
		if err == nil {
			return nil
		}
		if db.IsUniqueViolation(err) {
			if db.ConstraintName(err) == "invoices_quote_id_key" {
				return apperr.Conflict("quote already has an invoice")
			}
			s.log.Warn("invoice reference collision", "reference", invoice.Reference, "attempt", attempt+1)
			continue
		}
		return apperr.Wrap(apperr.KindInternal, "failed to create invoice", err)
	}
	return apperr.Internal("could not allocate invoice reference")
}

// Send dispatches the invoice. The first send stamps the delivery time;
// re-sending an unpaid invoice is allowed, a paid one is not. The
// notification fires only after the status change is committed.
func (s *Service) Send(ctx context.Context, invoiceID uuid.UUID) (*repository.Invoice, error) {
	invoice, err := s.load(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSend(invoice.Status); err != nil {
		return nil, err
	}

	if err := s.repo.RecordSend(ctx, invoice.ID); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to send invoice", err)
	}
	invoice.Status = domain.StatusSent

	booking, err := s.loadBookingFor(ctx, invoice)
	if err == nil {
		s.bus.Publish(ctx, domainevents.InvoiceSent{
			BaseEvent:         events.NewBaseEvent(),
			InvoiceID:         invoice.ID,
			QuoteID:           invoice.QuoteID,
			Reference:         invoice.Reference,
			TotalCents:        invoice.TotalCents,
			DueDate:           invoice.DueDate,
			BankAccountName:   invoice.BankAccountName,
			BankAccountNumber: invoice.BankAccountNumber,
			BankName:          invoice.BankName,
			PublicToken:       invoice.PublicToken,
			Client:            clientContact(booking),
		})
	}

	return invoice, nil
}

// UpdateDetails edits the due date and bank fields. Forbidden once paid.
func (s *Service) UpdateDetails(ctx context.Context, invoiceID uuid.UUID, input EditInput) (*repository.Invoice, error) {
	invoice, err := s.load(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(invoice.Status); err != nil {
		return nil, err
	}

	err = s.repo.UpdateDetails(ctx, invoice.ID, input.DueDate,
		input.BankAccountName, input.BankAccountNumber, input.BankName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update invoice", err)
	}

	invoice.DueDate = input.DueDate
	invoice.BankAccountName = input.BankAccountName
	invoice.BankAccountNumber = input.BankAccountNumber
	invoice.BankName = input.BankName
	return invoice, nil
}

// PresignProofUpload issues a presigned URL for a payment proof upload.
func (s *Service) PresignProofUpload(ctx context.Context, token, email, contentType string) (uploadURL, objectKey string, err error) {
	invoice, _, err := s.loadByToken(ctx, token, email)
	if err != nil {
		return "", "", err
	}
	if err := domain.CanSubmitProof(invoice.Status); err != nil {
		return "", "", err
	}

	objectKey = "invoices/" + invoice.ID.String() + "/proof-" + uuid.NewString()
	uploadURL, err = s.proofs.PresignPaymentProofUpload(ctx, objectKey, contentType)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to presign upload", err)
	}
	return uploadURL, objectKey, nil
}

// SubmitProof appends a payment proof. The invoice status is untouched:
// a proof alone never implies payment.
func (s *Service) SubmitProof(ctx context.Context, token, email, objectKey string) (*repository.PaymentProof, error) {
	if strings.TrimSpace(objectKey) == "" {
		return nil, apperr.Validation("proof reference is required")
	}

	invoice, booking, err := s.loadByToken(ctx, token, email)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSubmitProof(invoice.Status); err != nil {
		return nil, err
	}

	proof := &repository.PaymentProof{
		ID:         uuid.New(),
		InvoiceID:  invoice.ID,
		ObjectKey:  objectKey,
		UploadedAt: time.Now(),
	}
	if err := s.repo.InsertProof(ctx, proof); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to store proof", err)
	}

	s.bus.Publish(ctx, domainevents.ProofSubmitted{
		BaseEvent: events.NewBaseEvent(),
		InvoiceID: invoice.ID,
		ProofID:   proof.ID,
		Reference: invoice.Reference,
		ObjectKey: objectKey,
		Client:    clientContact(booking),
	})

	return proof, nil
}

// VerifyPayment resolves the admin's verdict on the submitted proofs.
// Verified moves the invoice to PAID and batch-marks every proof; rejected
// annotates every proof and leaves the status untouched.
func (s *Service) VerifyPayment(ctx context.Context, invoiceID, adminID uuid.UUID, verified bool, notes string) (*repository.Invoice, error) {
	invoice, err := s.load(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	proofs, err := s.repo.ListProofs(ctx, invoice.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list proofs", err)
	}
	if err := domain.CanVerifyPayment(len(proofs)); err != nil {
		return nil, err
	}

	if !verified {
		rejection := domain.RejectionNotes(strings.TrimSpace(notes))
		if err := s.repo.AnnotateProofs(ctx, invoice.ID, rejection); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to annotate proofs", err)
		}
		return invoice, nil
	}

	if invoice.Status == domain.StatusPaid {
		return invoice, nil
	}

	if err := s.repo.ConfirmPayment(ctx, invoice.ID, adminID, strings.TrimSpace(notes)); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to confirm payment", err)
	}
	invoice.Status = domain.StatusPaid

	booking, err := s.loadBookingFor(ctx, invoice)
	if err == nil {
		s.bus.Publish(ctx, domainevents.PaymentConfirmed{
			BaseEvent:  events.NewBaseEvent(),
			InvoiceID:  invoice.ID,
			Reference:  invoice.Reference,
			TotalCents: invoice.TotalCents,
			Client:     clientContact(booking),
		})
	}

	return invoice, nil
}

// Get returns an invoice for staff.
func (s *Service) Get(ctx context.Context, invoiceID uuid.UUID) (*repository.Invoice, error) {
	return s.load(ctx, invoiceID)
}

// GetForQuote returns the invoice generated from a quote.
func (s *Service) GetForQuote(ctx context.Context, quoteID uuid.UUID) (*repository.Invoice, error) {
	invoice, err := s.repo.GetByQuoteID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("quote has no invoice")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load invoice", err)
	}
	return invoice, nil
}

// GetPublic returns the client view of an invoice reached by token.
func (s *Service) GetPublic(ctx context.Context, token string) (*repository.Invoice, error) {
	invoice, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("invoice not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load invoice", err)
	}
	return invoice, nil
}

// Proofs returns an invoice's payment proofs for staff review, each with
// a short-lived download URL. A presign failure degrades to an empty URL;
// the record list itself never fails on storage trouble.
func (s *Service) Proofs(ctx context.Context, invoiceID uuid.UUID) ([]ProofRecord, error) {
	if _, err := s.load(ctx, invoiceID); err != nil {
		return nil, err
	}

	proofs, err := s.repo.ListProofs(ctx, invoiceID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list proofs", err)
	}

	records := make([]ProofRecord, 0, len(proofs))
	for _, proof := range proofs {
		record := ProofRecord{PaymentProof: proof}
		if downloadURL, err := s.proofs.PresignProofDownload(ctx, proof.ObjectKey); err != nil {
			s.log.Error("failed to presign proof download", "proof_id", proof.ID, "error", err.Error())
		} else {
			record.DownloadURL = downloadURL
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Service) load(ctx context.Context, invoiceID uuid.UUID) (*repository.Invoice, error) {
	invoice, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("invoice not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load invoice", err)
	}
	return invoice, nil
}

func (s *Service) loadByToken(ctx context.Context, token, email string) (*repository.Invoice, *bookingsrepo.Booking, error) {
	invoice, err := s.GetPublic(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	booking, err := s.loadBookingFor(ctx, invoice)
	if err != nil {
		return nil, nil, err
	}

	if !strings.EqualFold(strings.TrimSpace(email), booking.ClientEmail) {
		return nil, nil, apperr.Forbidden("email does not match the booking on file")
	}
	return invoice, booking, nil
}

func (s *Service) loadQuote(ctx context.Context, quoteID uuid.UUID) (*quotesrepo.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, quotesrepo.ErrNotFound) {
			return nil, apperr.NotFound("quote not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load quote", err)
	}
	return quote, nil
}

func (s *Service) loadBookingFor(ctx context.Context, invoice *repository.Invoice) (*bookingsrepo.Booking, error) {
	quote, err := s.loadQuote(ctx, invoice.QuoteID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, quote.BookingID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load booking", err)
	}
	return booking, nil
}

func clientContact(b *bookingsrepo.Booking) domainevents.ClientContact {
	return domainevents.ClientContact{
		Name:  b.ClientName,
		Email: b.ClientEmail,
		Phone: b.ClientPhone,
	}
}

func newReference(now time.Time) string {
	suffix := make([]byte, 4)
	raw := make([]byte, 4)
	_, _ = rand.Read(raw)
	for i, b := range raw {
		suffix[i] = referenceCharset[int(b)%len(referenceCharset)]
	}
	return "INV-" + now.Format("20060102") + "-" + string(suffix)
}

func newPublicToken() string {
	raw := make([]byte, 32)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}
