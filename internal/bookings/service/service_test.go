package service

import (
	"context"
	"testing"
	"time"

	"servicehub_backend/internal/bookings/domain"
	"servicehub_backend/internal/bookings/repository"
	staffrepo "servicehub_backend/internal/staff/repository"
	"servicehub_backend/platform/apperr"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type memBookingStore struct {
	bookings map[uuid.UUID]*repository.Booking
	logs     []repository.ContactLog
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: make(map[uuid.UUID]*repository.Booking)}
}

// stored returns the persisted row, bypassing the copies the Get methods
// hand out.
func (m *memBookingStore) stored(id uuid.UUID) *repository.Booking { return m.bookings[id] }

func cloneBooking(b *repository.Booking) *repository.Booking {
	out := *b
	return &out
}

func (m *memBookingStore) Insert(_ context.Context, b *repository.Booking) error {
	for _, have := range m.bookings {
		if have.Reference == b.Reference {
			return &pgconn.PgError{Code: "23505", ConstraintName: "bookings_reference_key"}
		}
	}
	m.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (m *memBookingStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (m *memBookingStore) GetByReference(_ context.Context, reference string) (*repository.Booking, error) {
	for _, b := range m.bookings {
		if b.Reference == reference {
			return cloneBooking(b), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memBookingStore) List(_ context.Context, filter repository.ListFilter) ([]repository.Booking, error) {
	var out []repository.Booking
	for _, b := range m.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.ConsultantID != nil && (b.ConsultantID == nil || *b.ConsultantID != *filter.ConsultantID) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *memBookingStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status, stampFirstReply bool) error {
	b := m.bookings[id]
	b.Status = status
	if stampFirstReply && b.FirstReplyAt == nil {
		now := time.Now()
		b.FirstReplyAt = &now
	}
	return nil
}

func (m *memBookingStore) MarkConfirmationSent(_ context.Context, id uuid.UUID) error {
	now := time.Now()
	m.bookings[id].ConfirmationSentAt = &now
	return nil
}

func (m *memBookingStore) LogContact(_ context.Context, entry *repository.ContactLog) error {
	b := m.bookings[entry.BookingID]
	b.Status = domain.AfterContact()
	if b.FirstReplyAt == nil {
		now := time.Now()
		b.FirstReplyAt = &now
	}
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *memBookingStore) ListContactLogs(_ context.Context, bookingID uuid.UUID) ([]repository.ContactLog, error) {
	var out []repository.ContactLog
	for _, entry := range m.logs {
		if entry.BookingID == bookingID {
			out = append(out, entry)
		}
	}
	return out, nil
}

var _ repository.BookingsRepository = (*memBookingStore)(nil)

type fakeRouter struct {
	consultant *staffrepo.Consultant
}

func (r fakeRouter) Route(context.Context, string) *staffrepo.Consultant { return r.consultant }

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

func newBookingFixture(consultant *staffrepo.Consultant) (*Service, *memBookingStore, *recordingBus) {
	store := newMemBookingStore()
	bus := &recordingBus{}
	return New(store, fakeRouter{consultant: consultant}, bus, logger.New("test")), store, bus
}

func intakeInput() CreateInput {
	return CreateInput{
		ClientName:  "Jamie de Vries",
		ClientEmail: "Jamie@Example.com",
		ClientPhone: "+31612345678",
		ServiceType: "plumbing",
		Details:     "Leaking boiler",
	}
}

func TestCreate_RoutedBookingStartsAssigned(t *testing.T) {
	consultant := &staffrepo.Consultant{ID: uuid.New(), FullName: "Alex Consultant"}
	svc, store, bus := newBookingFixture(consultant)

	booking, err := svc.Create(t.Context(), intakeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if booking.Status != domain.StatusAssigned {
		t.Fatalf("expected ASSIGNED, got %s", booking.Status)
	}
	if booking.ConsultantID == nil || *booking.ConsultantID != consultant.ID {
		t.Fatalf("expected booking assigned to %s, got %v", consultant.ID, booking.ConsultantID)
	}
	if booking.AssignedAt == nil {
		t.Fatal("expected assignment timestamp")
	}
	if booking.ClientEmail != "jamie@example.com" {
		t.Fatalf("expected lowercased email, got %s", booking.ClientEmail)
	}
	if store.stored(booking.ID) == nil {
		t.Fatal("expected booking persisted")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one created event, got %d", len(bus.published))
	}
}

func TestCreate_UnroutedBookingStartsNew(t *testing.T) {
	svc, _, _ := newBookingFixture(nil)

	booking, err := svc.Create(t.Context(), intakeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if booking.Status != domain.StatusNew {
		t.Fatalf("expected NEW, got %s", booking.Status)
	}
	if booking.ConsultantID != nil {
		t.Fatalf("expected no consultant, got %v", booking.ConsultantID)
	}
}

func TestCreate_InvalidPhoneRejected(t *testing.T) {
	svc, store, _ := newBookingFixture(nil)

	input := intakeInput()
	input.ClientPhone = "not-a-number"
	_, err := svc.Create(t.Context(), input)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.bookings) != 0 {
		t.Fatalf("expected nothing persisted, got %d bookings", len(store.bookings))
	}
}

func TestLogContact_NonAssignedConsultantRejected(t *testing.T) {
	assigned := &staffrepo.Consultant{ID: uuid.New(), FullName: "Alex Consultant"}
	svc, store, _ := newBookingFixture(assigned)

	booking, err := svc.Create(t.Context(), intakeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = svc.LogContact(t.Context(), LogContactInput{
		BookingID:    booking.ID,
		ConsultantID: uuid.New(),
		Channel:      "phone",
		Note:         "left a voicemail",
	})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for non-assigned consultant, got %v", err)
	}
	if len(store.logs) != 0 {
		t.Fatalf("expected no contact log, got %d", len(store.logs))
	}
	if got := store.stored(booking.ID).Status; got != domain.StatusAssigned {
		t.Fatalf("expected status unchanged, got %s", got)
	}
}

func TestLogContact_AssignedConsultantParksAwaitingClient(t *testing.T) {
	assigned := &staffrepo.Consultant{ID: uuid.New(), FullName: "Alex Consultant"}
	svc, store, _ := newBookingFixture(assigned)

	booking, err := svc.Create(t.Context(), intakeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = svc.LogContact(t.Context(), LogContactInput{
		BookingID:    booking.ID,
		ConsultantID: assigned.ID,
		Channel:      "phone",
		Note:         "  discussed the boiler  ",
	})
	if err != nil {
		t.Fatalf("log contact failed: %v", err)
	}

	if len(store.logs) != 1 {
		t.Fatalf("expected one contact log, got %d", len(store.logs))
	}
	if store.logs[0].Note != "discussed the boiler" {
		t.Fatalf("expected trimmed note, got %q", store.logs[0].Note)
	}
	stored := store.stored(booking.ID)
	if stored.Status != domain.StatusAwaitingClient {
		t.Fatalf("expected AWAITING_CLIENT, got %s", stored.Status)
	}
	if stored.FirstReplyAt == nil {
		t.Fatal("expected first reply timestamp")
	}
}
