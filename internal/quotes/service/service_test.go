package service

import (
	"context"
	"testing"
	"time"

	bookingsdomain "servicehub_backend/internal/bookings/domain"
	bookingsrepo "servicehub_backend/internal/bookings/repository"
	"servicehub_backend/internal/quotes/domain"
	"servicehub_backend/internal/quotes/repository"
	"servicehub_backend/platform/apperr"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type memQuoteStore struct {
	quotes map[uuid.UUID]*repository.Quote
}

func newMemQuoteStore() *memQuoteStore {
	return &memQuoteStore{quotes: make(map[uuid.UUID]*repository.Quote)}
}

// stored returns the persisted row, bypassing the copies the Get methods
// hand out.
func (m *memQuoteStore) stored(id uuid.UUID) *repository.Quote { return m.quotes[id] }

func cloneQuote(q *repository.Quote) *repository.Quote {
	out := *q
	out.Items = append([]repository.LineItem(nil), q.Items...)
	out.DeliveryMethods = append([]domain.Method(nil), q.DeliveryMethods...)
	return &out
}

func (m *memQuoteStore) Insert(_ context.Context, q *repository.Quote) error {
	for _, have := range m.quotes {
		if have.BookingID == q.BookingID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "quotes_booking_id_key"}
		}
	}
	m.quotes[q.ID] = cloneQuote(q)
	return nil
}

func (m *memQuoteStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneQuote(q), nil
}

func (m *memQuoteStore) GetByBookingID(_ context.Context, bookingID uuid.UUID) (*repository.Quote, error) {
	for _, q := range m.quotes {
		if q.BookingID == bookingID {
			return cloneQuote(q), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memQuoteStore) GetByToken(_ context.Context, token string) (*repository.Quote, error) {
	for _, q := range m.quotes {
		if q.PublicToken == token {
			return cloneQuote(q), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memQuoteStore) ReplaceItems(_ context.Context, quoteID uuid.UUID, items []repository.LineItem, totalCents int64, clientNotes, internalNotes string) error {
	q := m.quotes[quoteID]
	q.Items = items
	q.TotalCents = totalCents
	q.ClientNotes = clientNotes
	q.InternalNotes = internalNotes
	return nil
}

func (m *memQuoteStore) RecordSend(_ context.Context, id uuid.UUID, methods []domain.Method) error {
	q := m.quotes[id]
	q.Status = domain.StatusSent
	q.DeliveryMethods = methods
	if q.SentAt == nil {
		now := time.Now()
		q.SentAt = &now
	}
	return nil
}

func (m *memQuoteStore) RecordResponse(_ context.Context, id uuid.UUID, status domain.Status, kind domain.ResponseKind, message string, agreedAt *time.Time) error {
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
	q.Status = domain.StatusApproved
	if q.AgreedAt == nil {
		now := time.Now()
		q.AgreedAt = &now
	}
	return nil
}

func (m *memQuoteStore) Verify(_ context.Context, id uuid.UUID, verifier uuid.UUID) error {
	q := m.quotes[id]
	now := time.Now()
	q.Status = domain.StatusApproved
	q.Locked = true
	q.VerifiedAt = &now
	q.VerifiedBy = &verifier
	return nil
}

func (m *memQuoteStore) ListStaleSent(context.Context, time.Time, time.Time) ([]repository.StaleQuote, error) {
	return nil, nil
}

func (m *memQuoteStore) MarkReminderSent(context.Context, uuid.UUID) error { return nil }

var _ repository.QuotesRepository = (*memQuoteStore)(nil)

type memBookingStore struct {
	bookings map[uuid.UUID]*bookingsrepo.Booking
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

var _ bookingsrepo.BookingReader = (*memBookingStore)(nil)

type fakeDocStore struct{}

func (fakeDocStore) PresignSignedQuoteUpload(_ context.Context, objectKey, _ string) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (fakeDocStore) PresignSignedQuoteDownload(_ context.Context, objectKey string) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

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

type quoteFixture struct {
	svc     *Service
	store   *memQuoteStore
	bus     *recordingBus
	booking *bookingsrepo.Booking
}

func newQuoteFixture(clientPhone string) *quoteFixture {
	booking := &bookingsrepo.Booking{
		ID:          uuid.New(),
		Reference:   "BK-20260829-7KQ2",
		ClientName:  "Jamie de Vries",
		ClientEmail: "jamie@example.com",
		ClientPhone: clientPhone,
		ServiceType: "plumbing",
		Status:      bookingsdomain.StatusNew,
	}
	store := newMemQuoteStore()
	bus := &recordingBus{}
	bookings := &memBookingStore{bookings: map[uuid.UUID]*bookingsrepo.Booking{booking.ID: booking}}
	return &quoteFixture{
		svc:     New(store, bookings, fakeDocStore{}, bus, logger.New("test")),
		store:   store,
		bus:     bus,
		booking: booking,
	}
}

func draftItems() []domain.LineItemInput {
	return []domain.LineItemInput{
		{Description: "Boiler replacement", Quantity: 1, UnitPriceCents: 120000},
		{Description: "Labor", Quantity: 2, UnitPriceCents: 2500},
	}
}

func TestCreate_SecondQuoteForBookingConflicts(t *testing.T) {
	fx := newQuoteFixture("+31612345678")

	if _, err := fx.svc.Create(t.Context(), uuid.New(), fx.booking.ID, DraftInput{Items: draftItems()}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := fx.svc.Create(t.Context(), uuid.New(), fx.booking.ID, DraftInput{Items: draftItems()})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for second quote on the booking, got %v", err)
	}
}

func TestSend_ChatLinkWithoutPhoneLeavesQuoteUntouched(t *testing.T) {
	fx := newQuoteFixture("")
	quote, err := fx.svc.Create(t.Context(), uuid.New(), fx.booking.ID, DraftInput{Items: draftItems()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = fx.svc.Send(t.Context(), quote.ID, "chat-link")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for chat-link without phone, got %v", err)
	}

	stored := fx.store.stored(quote.ID)
	if stored.Status != domain.StatusDraft {
		t.Fatalf("expected quote to stay DRAFT, got %s", stored.Status)
	}
	if len(stored.DeliveryMethods) != 0 {
		t.Fatalf("expected no delivery methods recorded, got %v", stored.DeliveryMethods)
	}
	if len(fx.bus.published) != 0 {
		t.Fatalf("expected no events for the refused send, got %d", len(fx.bus.published))
	}
}

func TestSend_MethodsAccumulateAcrossSends(t *testing.T) {
	fx := newQuoteFixture("+31612345678")
	quote, err := fx.svc.Create(t.Context(), uuid.New(), fx.booking.ID, DraftInput{Items: draftItems()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := fx.svc.Send(t.Context(), quote.ID, "direct-message"); err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	sent, err := fx.svc.Send(t.Context(), quote.ID, "secure-portal-link")
	if err != nil {
		t.Fatalf("second send failed: %v", err)
	}

	if sent.Status != domain.StatusSent {
		t.Fatalf("expected SENT, got %s", sent.Status)
	}
	stored := fx.store.stored(quote.ID)
	want := []domain.Method{domain.MethodDirectMessage, domain.MethodPortalLink}
	if len(stored.DeliveryMethods) != len(want) {
		t.Fatalf("expected methods %v, got %v", want, stored.DeliveryMethods)
	}
	for i, m := range want {
		if stored.DeliveryMethods[i] != m {
			t.Fatalf("expected methods %v, got %v", want, stored.DeliveryMethods)
		}
	}
	if len(fx.bus.published) != 2 {
		t.Fatalf("expected one event per send, got %d", len(fx.bus.published))
	}
}

func TestRespond_EmailMismatchForbidden(t *testing.T) {
	fx := newQuoteFixture("+31612345678")
	quote, err := fx.svc.Create(t.Context(), uuid.New(), fx.booking.ID, DraftInput{Items: draftItems()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := fx.svc.Send(t.Context(), quote.ID, "direct-message"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	_, err = fx.svc.Respond(t.Context(), RespondInput{
		Token: quote.PublicToken,
		Email: "intruder@example.com",
		Kind:  "approval",
	})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for mismatched email, got %v", err)
	}
	if got := fx.store.stored(quote.ID).Status; got != domain.StatusSent {
		t.Fatalf("expected quote to stay SENT, got %s", got)
	}
}

func TestAttachSignedDocument_LockedQuoteKeepsVerifiedDocument(t *testing.T) {
	fx := newQuoteFixture("+31612345678")
	quote, err := fx.svc.Create(t.Context(), uuid.New(), fx.booking.ID, DraftInput{Items: draftItems()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := fx.svc.Send(t.Context(), quote.ID, "direct-message"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	original := "quotes/" + quote.ID.String() + "/signed-original.pdf"
	if _, err := fx.svc.AttachSignedDocument(t.Context(), quote.PublicToken, "jamie@example.com", original); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if _, err := fx.svc.Verify(t.Context(), quote.ID, uuid.New()); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	_, err = fx.svc.AttachSignedDocument(t.Context(), quote.PublicToken, "jamie@example.com", "quotes/"+quote.ID.String()+"/signed-replacement.pdf")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict attaching to a locked quote, got %v", err)
	}

	stored := fx.store.stored(quote.ID)
	if stored.SignedDocKey == nil || *stored.SignedDocKey != original {
		t.Fatalf("expected the verified document to survive, got %v", stored.SignedDocKey)
	}
}

func TestPresignDocumentUpload_LockedQuoteRejected(t *testing.T) {
	fx := newQuoteFixture("+31612345678")
	quote, err := fx.svc.Create(t.Context(), uuid.New(), fx.booking.ID, DraftInput{Items: draftItems()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	key := "quotes/" + quote.ID.String() + "/signed-original.pdf"
	if _, err := fx.svc.AttachSignedDocument(t.Context(), quote.PublicToken, "jamie@example.com", key); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if _, err := fx.svc.Verify(t.Context(), quote.ID, uuid.New()); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	_, _, err = fx.svc.PresignDocumentUpload(t.Context(), quote.PublicToken, "jamie@example.com", "application/pdf")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict presigning for a locked quote, got %v", err)
	}
}

func TestSignedDocumentURL_PresignsOnlyWhenOnFile(t *testing.T) {
	fx := newQuoteFixture("+31612345678")
	key := "quotes/abc/signed-1.pdf"

	withDoc := &repository.Quote{ID: uuid.New(), SignedDocKey: &key}
	if got := fx.svc.SignedDocumentURL(t.Context(), withDoc); got != "https://storage.test/"+key {
		t.Fatalf("unexpected download url: %s", got)
	}

	if got := fx.svc.SignedDocumentURL(t.Context(), &repository.Quote{ID: uuid.New()}); got != "" {
		t.Fatalf("expected empty url without a document, got %s", got)
	}
}
