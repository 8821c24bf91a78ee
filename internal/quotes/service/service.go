// Package service implements the quote lifecycle: drafting, dispatch,
// client negotiation, signed-document approval, and admin verification.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	bookingsrepo "servicehub_backend/internal/bookings/repository"
	domainevents "servicehub_backend/internal/events"
	"servicehub_backend/internal/quotes/domain"
	"servicehub_backend/internal/quotes/repository"
	"servicehub_backend/platform/apperr"
	"servicehub_backend/platform/db"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"
	"servicehub_backend/platform/phone"

	"github.com/google/uuid"
)

// DocumentStore issues presigned URLs for signed quote documents: uploads
// for clients, downloads for staff review.
type DocumentStore interface {
	PresignSignedQuoteUpload(ctx context.Context, objectKey, contentType string) (string, error)
	PresignSignedQuoteDownload(ctx context.Context, objectKey string) (string, error)
}

// DraftInput carries the editable quote content.
type DraftInput struct {
	Items         []domain.LineItemInput
	ClientNotes   string
	InternalNotes string
}

// RespondInput carries a client response to a sent quote.
type RespondInput struct {
	Token    string
	Email    string
	Kind     string
	Message  string
	AgreedAt *time.Time
}

// Service implements quote operations.
type Service struct {
	repo     repository.QuotesRepository
	bookings bookingsrepo.BookingReader
	docs     DocumentStore
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new quotes service.
func New(repo repository.QuotesRepository, bookings bookingsrepo.BookingReader, docs DocumentStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bookings: bookings, docs: docs, bus: bus, log: log}
}

// Create drafts a quote against an unquoted booking. The total is computed
// from the line items, never taken from input.
func (s *Service) Create(ctx context.Context, authorID, bookingID uuid.UUID, input DraftInput) (*repository.Quote, error) {
	if err := domain.ValidateItems(input.Items); err != nil {
		return nil, err
	}

	if _, err := s.loadBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	now := time.Now()
	quote := &repository.Quote{
		ID:            uuid.New(),
		BookingID:     bookingID,
		AuthorID:      authorID,
		Status:        domain.StatusDraft,
		Items:         buildItems(uuid.Nil, input.Items),
		TotalCents:    domain.ComputeTotal(input.Items),
		ClientNotes:   strings.TrimSpace(input.ClientNotes),
		InternalNotes: strings.TrimSpace(input.InternalNotes),
		PublicToken:   newPublicToken(),
		CreatedAt:     now,
	}
	for i := range quote.Items {
		quote.Items[i].QuoteID = quote.ID
	}

	if err := s.repo.Insert(ctx, quote); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflict("booking already has a quote")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create quote", err)
	}

	return quote, nil
}

// Update replaces the full line item set of a draft quote and recomputes
// the total. Stale items are discarded.
func (s *Service) Update(ctx context.Context, quoteID uuid.UUID, input DraftInput) (*repository.Quote, error) {
	if err := domain.ValidateItems(input.Items); err != nil {
		return nil, err
	}

	quote, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(quote.Status, quote.Locked); err != nil {
		return nil, err
	}

	items := buildItems(quote.ID, input.Items)
	total := domain.ComputeTotal(input.Items)
	clientNotes := strings.TrimSpace(input.ClientNotes)
	internalNotes := strings.TrimSpace(input.InternalNotes)

	if err := s.repo.ReplaceItems(ctx, quote.ID, items, total, clientNotes, internalNotes); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update quote", err)
	}

	quote.Items = items
	quote.TotalCents = total
	quote.ClientNotes = clientNotes
	quote.InternalNotes = internalNotes
	return quote, nil
}

// Send dispatches the quote to the client over one delivery method. The
// chat-link method requires a valid international phone number on the
// booking; its absence is a client-visible validation error, not a silent
// no-op. The notification fires only after the status change is committed.
func (s *Service) Send(ctx context.Context, quoteID uuid.UUID, rawMethod string) (*repository.Quote, error) {
	method, ok := domain.ParseMethod(rawMethod)
	if !ok {
		return nil, apperr.Validation("unknown delivery method")
	}

	quote, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSend(quote.Status, quote.Locked); err != nil {
		return nil, err
	}

	booking, err := s.loadBooking(ctx, quote.BookingID)
	if err != nil {
		return nil, err
	}

	if method == domain.MethodChatLink && !phone.IsValid(booking.ClientPhone) {
		return nil, apperr.Validation("chat-link delivery requires a valid international phone number")
	}

	methods := domain.AccumulateMethods(quote.DeliveryMethods, method)
	if err := s.repo.RecordSend(ctx, quote.ID, methods); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to send quote", err)
	}

	quote.Status = domain.StatusSent
	quote.DeliveryMethods = methods

	s.bus.Publish(ctx, domainevents.QuoteSent{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		Method:      string(method),
		TotalCents:  quote.TotalCents,
		PublicToken: quote.PublicToken,
		Client:      clientContact(booking),
	})

	return quote, nil
}

// Respond applies a client response reached through the capability token.
// The email on file must match as a secondary check. Re-approving an
// approved quote is a no-op.
func (s *Service) Respond(ctx context.Context, input RespondInput) (*repository.Quote, error) {
	kind, ok := domain.ParseResponseKind(input.Kind)
	if !ok {
		return nil, apperr.Validation("unknown response kind")
	}

	quote, booking, err := s.loadByToken(ctx, input.Token, input.Email)
	if err != nil {
		return nil, err
	}

	next, noop, err := domain.ApplyResponse(quote.Status, kind)
	if err != nil {
		return nil, err
	}
	if noop {
		return quote, nil
	}

	var agreedAt *time.Time
	if kind == domain.ResponseApproval {
		at := time.Now()
		if input.AgreedAt != nil {
			at = *input.AgreedAt
		}
		agreedAt = &at
	}

	message := strings.TrimSpace(input.Message)
	if err := s.repo.RecordResponse(ctx, quote.ID, next, kind, message, agreedAt); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to record response", err)
	}
	quote.Status = next

	s.bus.Publish(ctx, domainevents.QuoteResponded{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    quote.ID,
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		Approved:   kind == domain.ResponseApproval,
		Comment:    message,
		TotalCents: quote.TotalCents,
		Client:     clientContact(booking),
	})

	return quote, nil
}

// PresignDocumentUpload issues a presigned URL the client can PUT the
// signed document to. Token plus email gate the issue, same as Respond.
func (s *Service) PresignDocumentUpload(ctx context.Context, token, email, contentType string) (uploadURL, objectKey string, err error) {
	quote, _, err := s.loadByToken(ctx, token, email)
	if err != nil {
		return "", "", err
	}
	if err := domain.CanAttachDocument(quote.Locked); err != nil {
		return "", "", err
	}

	objectKey = "quotes/" + quote.ID.String() + "/signed-" + uuid.NewString() + ".pdf"
	uploadURL, err = s.docs.PresignSignedQuoteUpload(ctx, objectKey, contentType)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to presign upload", err)
	}
	return uploadURL, objectKey, nil
}

// AttachSignedDocument records an uploaded signed document and force-
// approves the quote from any prior status, including REJECTED. Attaching
// to an already-approved quote just records the document reference.
func (s *Service) AttachSignedDocument(ctx context.Context, token, email, objectKey string) (*repository.Quote, error) {
	if strings.TrimSpace(objectKey) == "" {
		return nil, apperr.Validation("document reference is required")
	}

	quote, booking, err := s.loadByToken(ctx, token, email)
	if err != nil {
		return nil, err
	}
	if err := domain.CanAttachDocument(quote.Locked); err != nil {
		return nil, err
	}

	next, changed := domain.ForceApprove(quote.Status)
	if err := s.repo.RecordSignedDocument(ctx, quote.ID, objectKey); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to record signed document", err)
	}
	quote.Status = next
	quote.SignedDocKey = &objectKey

	if changed {
		s.log.Info("quote force-approved by signed document",
			"quote_id", quote.ID, "booking", booking.Reference)
	}

	s.bus.Publish(ctx, domainevents.QuoteDocumentUploaded{
		BaseEvent: events.NewBaseEvent(),
		QuoteID:   quote.ID,
		BookingID: booking.ID,
		Reference: booking.Reference,
		ObjectKey: objectKey,
		Client:    clientContact(booking),
	})

	return quote, nil
}

// Verify confirms the signed document, stamps the verifier, and locks the
// quote against any further edits.
func (s *Service) Verify(ctx context.Context, quoteID, adminID uuid.UUID) (*repository.Quote, error) {
	quote, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanVerify(quote.SignedDocKey != nil); err != nil {
		return nil, err
	}

	if err := s.repo.Verify(ctx, quote.ID, adminID); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to verify quote", err)
	}
	quote.Status = domain.StatusApproved
	quote.Locked = true

	booking, err := s.loadBooking(ctx, quote.BookingID)
	if err == nil {
		s.bus.Publish(ctx, domainevents.QuoteVerified{
			BaseEvent: events.NewBaseEvent(),
			QuoteID:   quote.ID,
			BookingID: booking.ID,
			Reference: booking.Reference,
			Client:    clientContact(booking),
		})
	}

	return quote, nil
}

// Get returns a quote for staff.
func (s *Service) Get(ctx context.Context, quoteID uuid.UUID) (*repository.Quote, error) {
	return s.load(ctx, quoteID)
}

// SignedDocumentURL returns a short-lived download link for the signed
// document, or empty when none is on file or storage is unavailable. The
// link is a staff convenience; its absence never fails the quote view.
func (s *Service) SignedDocumentURL(ctx context.Context, quote *repository.Quote) string {
	if quote.SignedDocKey == nil {
		return ""
	}
	downloadURL, err := s.docs.PresignSignedQuoteDownload(ctx, *quote.SignedDocKey)
	if err != nil {
		s.log.Error("failed to presign signed document", "quote_id", quote.ID, "error", err.Error())
		return ""
	}
	return downloadURL
}

// GetForBooking returns the quote owned by a booking.
func (s *Service) GetForBooking(ctx context.Context, bookingID uuid.UUID) (*repository.Quote, error) {
	quote, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("booking has no quote")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load quote", err)
	}
	return quote, nil
}

// GetPublic returns the client view of a quote reached by token.
func (s *Service) GetPublic(ctx context.Context, token string) (*repository.Quote, error) {
	quote, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("quote not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load quote", err)
	}
	return quote, nil
}

func (s *Service) load(ctx context.Context, quoteID uuid.UUID) (*repository.Quote, error) {
	quote, err := s.repo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("quote not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load quote", err)
	}
	return quote, nil
}

// loadByToken resolves a quote through its capability token and enforces
// the email-on-file secondary check.
func (s *Service) loadByToken(ctx context.Context, token, email string) (*repository.Quote, *bookingsrepo.Booking, error) {
	quote, err := s.GetPublic(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	booking, err := s.loadBooking(ctx, quote.BookingID)
	if err != nil {
		return nil, nil, err
	}

	if !strings.EqualFold(strings.TrimSpace(email), booking.ClientEmail) {
		return nil, nil, apperr.Forbidden("email does not match the booking on file")
	}
	return quote, booking, nil
}

func (s *Service) loadBooking(ctx context.Context, bookingID uuid.UUID) (*bookingsrepo.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingsrepo.ErrNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load booking", err)
	}
	return booking, nil
}

func buildItems(quoteID uuid.UUID, inputs []domain.LineItemInput) []repository.LineItem {
	items := make([]repository.LineItem, 0, len(inputs))
	for i, input := range inputs {
		items = append(items, repository.LineItem{
			ID:             uuid.New(),
			QuoteID:        quoteID,
			Position:       i + 1,
			Description:    strings.TrimSpace(input.Description),
			Quantity:       input.Quantity,
			UnitPriceCents: input.UnitPriceCents,
			LineTotalCents: domain.LineTotal(input),
		})
	}
	return items
}

func clientContact(b *bookingsrepo.Booking) domainevents.ClientContact {
	return domainevents.ClientContact{
		Name:  b.ClientName,
		Email: b.ClientEmail,
		Phone: b.ClientPhone,
	}
}
