// Package service implements the booking lifecycle.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"servicehub_backend/internal/bookings/domain"
	"servicehub_backend/internal/bookings/repository"
	domainevents "servicehub_backend/internal/events"
	staffrepo "servicehub_backend/internal/staff/repository"
	"servicehub_backend/platform/apperr"
	"servicehub_backend/platform/db"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"
	"servicehub_backend/platform/phone"

	"github.com/google/uuid"
)

const maxReferenceAttempts = 5

// CreateInput is the public intake payload after transport validation.
type CreateInput struct {
	ClientName  string
	ClientEmail string
	ClientPhone string
	ServiceType string
	Details     string
}

// LogContactInput records a consultant's outreach to the client.
type LogContactInput struct {
	BookingID    uuid.UUID
	ConsultantID uuid.UUID
	Channel      string
	Note         string
}

// Router picks the consultant who should own a new booking, or nil when
// nobody covers the service type.
type Router interface {
	Route(ctx context.Context, serviceType string) *staffrepo.Consultant
}

// Service implements booking operations.
type Service struct {
	repo   repository.BookingsRepository
	router Router
	bus    events.Bus
	log    *logger.Logger
}

// New creates a new bookings service.
func New(repo repository.BookingsRepository, router Router, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, router: router, bus: bus, log: log}
}

// Create handles a public intake: normalizes contact details, routes the
// booking to a consultant, and persists it. The created event is published
// only after the insert commits.
func (s *Service) Create(ctx context.Context, input CreateInput) (*repository.Booking, error) {
	clientPhone := strings.TrimSpace(input.ClientPhone)
	if clientPhone != "" {
		if !phone.IsValid(clientPhone) {
			return nil, apperr.Validation("invalid phone number")
		}
		clientPhone = phone.NormalizeE164(clientPhone)
	}

	consultant := s.router.Route(ctx, input.ServiceType)
	var consultantID *uuid.UUID
	if consultant != nil {
		id := consultant.ID
		consultantID = &id
	}

	now := time.Now()
	booking := &repository.Booking{
		ID:           uuid.New(),
		ClientName:   strings.TrimSpace(input.ClientName),
		ClientEmail:  strings.ToLower(strings.TrimSpace(input.ClientEmail)),
		ClientPhone:  clientPhone,
		ServiceType:  input.ServiceType,
		Details:      strings.TrimSpace(input.Details),
		Status:       domain.InitialStatus(consultantID != nil),
		ConsultantID: consultantID,
		CreatedAt:    now,
	}
	if consultantID != nil {
		assignedAt := now
		booking.AssignedAt = &assignedAt
	}

	if err := s.insertWithReference(ctx, booking, now); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, domainevents.BookingCreated{
		BaseEvent:    events.NewBaseEvent(),
		BookingID:    booking.ID,
		Reference:    booking.Reference,
		ServiceType:  booking.ServiceType,
		Client:       clientContact(booking),
		ConsultantID: booking.ConsultantID,
	})

	return booking, nil
}

// insertWithReference generates references until the insert sticks or the
// attempt budget runs out.
func (s *Service) insertWithReference(ctx context.Context, booking *repository.Booking, now time.Time) error {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		booking.Reference = newReference(now)
		err := s.repo.Insert(ctx, booking)
		if err == nil {
			return nil
		}
		if !db.IsUniqueViolation(err) {
			return apperr.Wrap(apperr.KindInternal, "failed to create booking", err)
		}
		s.log.Warn("booking reference collision", "reference", booking.Reference, "attempt", attempt+1)
	}
	return apperr.Internal("could not allocate booking reference")
}

// Get returns a booking visible to the caller. Consultants only see
// bookings assigned to them; admins see everything.
func (s *Service) Get(ctx context.Context, id uuid.UUID, callerID uuid.UUID, isAdmin bool) (*repository.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load booking", err)
	}

	if !isAdmin && (booking.ConsultantID == nil || *booking.ConsultantID != callerID) {
		return nil, apperr.Forbidden("booking is not assigned to you")
	}
	return booking, nil
}

// List returns bookings visible to the caller.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, isAdmin bool, status *domain.Status) ([]repository.Booking, error) {
	filter := repository.ListFilter{Status: status}
	if !isAdmin {
		filter.ConsultantID = &callerID
	}

	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list bookings", err)
	}
	return bookings, nil
}

// UpdateStatus moves a booking to the given status. Admin only; the handler
// enforces the role, this validates the target value.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*repository.Booking, error) {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation("unknown booking status")
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load booking", err)
	}

	if booking.Status == status {
		return booking, nil
	}

	oldStatus := booking.Status
	stampFirstReply := status == domain.StatusAwaitingClient
	if err := s.repo.UpdateStatus(ctx, id, status, stampFirstReply); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update booking status", err)
	}
	booking.Status = status

	s.bus.Publish(ctx, domainevents.BookingStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		BookingID: booking.ID,
		Reference: booking.Reference,
		OldStatus: string(oldStatus),
		NewStatus: string(status),
	})

	return booking, nil
}

// LogContact appends a contact note and parks the booking on
// AWAITING_CLIENT. Only the assigned consultant may log contact.
func (s *Service) LogContact(ctx context.Context, input LogContactInput) error {
	booking, err := s.repo.GetByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("booking not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to load booking", err)
	}

	if booking.ConsultantID == nil || *booking.ConsultantID != input.ConsultantID {
		return apperr.Forbidden("only the assigned consultant can log contact")
	}

	entry := &repository.ContactLog{
		ID:           uuid.New(),
		BookingID:    input.BookingID,
		ConsultantID: input.ConsultantID,
		Channel:      input.Channel,
		Note:         strings.TrimSpace(input.Note),
		CreatedAt:    time.Now(),
	}

	if err := s.repo.LogContact(ctx, entry); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to log contact", err)
	}
	return nil
}

// ContactLogs returns a booking's contact history, restricted like Get.
func (s *Service) ContactLogs(ctx context.Context, bookingID uuid.UUID, callerID uuid.UUID, isAdmin bool) ([]repository.ContactLog, error) {
	if _, err := s.Get(ctx, bookingID, callerID, isAdmin); err != nil {
		return nil, err
	}

	logs, err := s.repo.ListContactLogs(ctx, bookingID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list contact logs", err)
	}
	return logs, nil
}

func clientContact(b *repository.Booking) domainevents.ClientContact {
	return domainevents.ClientContact{
		Name:  b.ClientName,
		Email: b.ClientEmail,
		Phone: b.ClientPhone,
	}
}
