// Package domain holds the booking lifecycle types and transition rules.
package domain

// Status is the booking lifecycle status.
type Status string

// Booking statuses.
const (
	StatusNew            Status = "NEW"
	StatusAssigned       Status = "ASSIGNED"
	StatusAwaitingClient Status = "AWAITING_CLIENT"
	StatusCompleted      Status = "COMPLETED"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	switch s {
	case StatusNew, StatusAssigned, StatusAwaitingClient, StatusCompleted:
		return s, true
	default:
		return "", false
	}
}

// InitialStatus returns the status a new booking starts in: ASSIGNED when
// routing found a consultant, NEW otherwise.
func InitialStatus(assigned bool) Status {
	if assigned {
		return StatusAssigned
	}
	return StatusNew
}

// AfterContact returns the status a booking moves to when the assigned
// consultant logs a client contact. Contact always parks the booking on the
// client's side of the net, regardless of its current status.
func AfterContact() Status {
	return StatusAwaitingClient
}
