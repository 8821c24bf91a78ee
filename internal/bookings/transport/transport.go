// Package transport defines the HTTP request and response shapes for bookings.
package transport

import (
	"time"

	"servicehub_backend/internal/bookings/repository"
)

// CreateBookingRequest is the public intake payload.
type CreateBookingRequest struct {
	ClientName  string `json:"clientName" validate:"required,min=2,max=120"`
	ClientEmail string `json:"clientEmail" validate:"required,email"`
	ClientPhone string `json:"clientPhone" validate:"omitempty,max=32"`
	ServiceType string `json:"serviceType" validate:"required,min=2,max=80"`
	Details     string `json:"details" validate:"omitempty,max=4000"`
}

// UpdateStatusRequest moves a booking to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LogContactRequest records consultant outreach.
type LogContactRequest struct {
	Channel string `json:"channel" validate:"required,oneof=phone email whatsapp in_person"`
	Note    string `json:"note" validate:"required,min=2,max=2000"`
}

// BookingResponse is the API shape of a booking.
type BookingResponse struct {
	ID                 string     `json:"id"`
	Reference          string     `json:"reference"`
	ClientName         string     `json:"clientName"`
	ClientEmail        string     `json:"clientEmail"`
	ClientPhone        string     `json:"clientPhone,omitempty"`
	ServiceType        string     `json:"serviceType"`
	Details            string     `json:"details,omitempty"`
	Status             string     `json:"status"`
	ConsultantID       *string    `json:"consultantId,omitempty"`
	AssignedAt         *time.Time `json:"assignedAt,omitempty"`
	FirstReplyAt       *time.Time `json:"firstReplyAt,omitempty"`
	ConfirmationSentAt *time.Time `json:"confirmationSentAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ContactLogResponse is the API shape of a contact log entry.
type ContactLogResponse struct {
	ID           string    `json:"id"`
	ConsultantID string    `json:"consultantId"`
	Channel      string    `json:"channel"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromBooking maps a repository booking to its API shape.
func FromBooking(b *repository.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                 b.ID.String(),
		Reference:          b.Reference,
		ClientName:         b.ClientName,
		ClientEmail:        b.ClientEmail,
		ClientPhone:        b.ClientPhone,
		ServiceType:        b.ServiceType,
		Details:            b.Details,
		Status:             string(b.Status),
		AssignedAt:         b.AssignedAt,
		FirstReplyAt:       b.FirstReplyAt,
		ConfirmationSentAt: b.ConfirmationSentAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	if b.ConsultantID != nil {
		id := b.ConsultantID.String()
		resp.ConsultantID = &id
	}
	return resp
}

// FromBookings maps a booking slice to API shapes.
func FromBookings(bookings []repository.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, FromBooking(&bookings[i]))
	}
	return out
}

// FromContactLogs maps contact log entries to API shapes.
func FromContactLogs(logs []repository.ContactLog) []ContactLogResponse {
	out := make([]ContactLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, ContactLogResponse{
			ID:           l.ID.String(),
			ConsultantID: l.ConsultantID.String(),
			Channel:      l.Channel,
			Note:         l.Note,
			CreatedAt:    l.CreatedAt,
		})
	}
	return out
}
