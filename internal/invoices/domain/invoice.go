// Package domain holds the invoice lifecycle types and transition rules.
package domain

import (
	"time"

	quotedomain "servicehub_backend/internal/quotes/domain"
	"servicehub_backend/platform/apperr"
)

// Status is the invoice lifecycle status.
type Status string

// Invoice statuses.
const (
	StatusGenerated Status = "GENERATED"
	StatusSent      Status = "SENT"
	StatusPaid      Status = "PAID"
)

// CanCreateFrom checks the source quote status. Only approved quotes can
// be invoiced; the total is snapshotted at creation and never recomputed.
func CanCreateFrom(quoteStatus quotedomain.Status) error {
	if quoteStatus != quotedomain.StatusApproved {
		return apperr.Conflict("invoice requires an approved quote")
	}
	return nil
}

// CanSend checks whether the invoice may be dispatched. Re-sending an
// unpaid invoice is allowed.
func CanSend(status Status) error {
	if status == StatusPaid {
		return apperr.Conflict("invoice is already paid")
	}
	return nil
}

// CanSubmitProof checks whether a payment proof may be appended.
func CanSubmitProof(status Status) error {
	if status == StatusPaid {
		return apperr.Conflict("invoice is already paid")
	}
	return nil
}

// CanVerifyPayment checks the admin verification precondition: at least
// one proof must be on file. The admin verifies the payment, not a single
// proof.
func CanVerifyPayment(proofCount int) error {
	if proofCount == 0 {
		return apperr.Conflict("invoice has no payment proof to verify")
	}
	return nil
}

// CanEdit checks whether due date and bank fields may still change.
func CanEdit(status Status) error {
	if status == StatusPaid {
		return apperr.Conflict("paid invoices can no longer be edited")
	}
	return nil
}

// ResolveDueDate returns the explicit due date when supplied, otherwise
// the default offset from now.
func ResolveDueDate(explicit *time.Time, now time.Time, defaultDays int) time.Time {
	if explicit != nil {
		return *explicit
	}
	return now.AddDate(0, 0, defaultDays)
}

// RejectionNotes returns the notes to annotate proofs with on a rejected
// verification, falling back to a default when the admin supplied none.
func RejectionNotes(notes string) string {
	if notes == "" {
		return "payment could not be verified"
	}
	return notes
}
