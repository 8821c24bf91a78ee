// Package domain holds the quote lifecycle types and transition rules.
// The transition functions are pure so the state machine can be exercised
// without storage.
package domain

import (
	"servicehub_backend/platform/apperr"
)

// Status is the quote lifecycle status.
type Status string

// Quote statuses.
const (
	StatusDraft       Status = "DRAFT"
	StatusSent        Status = "SENT"
	StatusNegotiating Status = "NEGOTIATING"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
)

// Method is a delivery method tag. Methods accumulate across sends.
type Method string

// Delivery methods.
const (
	MethodDirectMessage Method = "direct-message"
	MethodChatLink      Method = "chat-link"
	MethodPortalLink    Method = "secure-portal-link"
)

// ResponseKind is the client's recorded answer to a sent quote.
type ResponseKind string

// Client response kinds.
const (
	ResponseApproval  ResponseKind = "approval"
	ResponseRejection ResponseKind = "rejection"
	ResponseMessage   ResponseKind = "message"
)

// ParseMethod validates a raw delivery method tag.
func ParseMethod(raw string) (Method, bool) {
	m := Method(raw)
	switch m {
	case MethodDirectMessage, MethodChatLink, MethodPortalLink:
		return m, true
	default:
		return "", false
	}
}

// ParseResponseKind validates a raw client response kind.
func ParseResponseKind(raw string) (ResponseKind, bool) {
	k := ResponseKind(raw)
	switch k {
	case ResponseApproval, ResponseRejection, ResponseMessage:
		return k, true
	default:
		return "", false
	}
}

// LineItemInput is an unpersisted line item as submitted by staff.
type LineItemInput struct {
	Description    string
	Quantity       int64
	UnitPriceCents int64
}

// ValidateItems checks the line item set: at least one item, positive
// quantity, non-negative unit price, non-empty description.
func ValidateItems(items []LineItemInput) error {
	if len(items) == 0 {
		return apperr.Validation("quote requires at least one line item")
	}
	for _, item := range items {
		if item.Description == "" {
			return apperr.Validation("line item description is required")
		}
		if item.Quantity <= 0 {
			return apperr.Validation("line item quantity must be positive")
		}
		if item.UnitPriceCents < 0 {
			return apperr.Validation("line item unit price cannot be negative")
		}
	}
	return nil
}

// LineTotal computes one line's total in cents.
func LineTotal(item LineItemInput) int64 {
	return item.Quantity * item.UnitPriceCents
}

// ComputeTotal computes the quote total as the sum of line totals. The
// total is never accepted from input.
func ComputeTotal(items []LineItemInput) int64 {
	var total int64
	for _, item := range items {
		total += LineTotal(item)
	}
	return total
}

// CanEdit reports whether the line items and notes may be replaced.
// Editing requires DRAFT, and the lock wins over status unconditionally.
func CanEdit(status Status, locked bool) error {
	if locked {
		return apperr.Conflict("quote is locked and can no longer be edited")
	}
	if status != StatusDraft {
		return apperr.Conflict("only draft quotes can be edited")
	}
	return nil
}

// CanSend reports whether the quote may be dispatched to the client.
// Re-sending from SENT or NEGOTIATING is allowed; terminal states are not.
func CanSend(status Status, locked bool) error {
	if locked {
		return apperr.Conflict("quote is locked and can no longer be sent")
	}
	switch status {
	case StatusDraft, StatusSent, StatusNegotiating:
		return nil
	default:
		return apperr.Conflict("quote can no longer be sent in its current status")
	}
}

// AccumulateMethods appends a delivery method to the methods-ever-used set.
// Sending twice via the same method records it once.
func AccumulateMethods(existing []Method, m Method) []Method {
	for _, have := range existing {
		if have == m {
			return existing
		}
	}
	return append(existing, m)
}

// ApplyResponse resolves the status after a client response. The noop
// result is true when approving an already-approved quote: re-approval is
// idempotent, not an error. Responses to quotes that were never sent, or
// that reached a terminal state, are wrong-state triggers.
func ApplyResponse(current Status, kind ResponseKind) (next Status, noop bool, err error) {
	if current == StatusApproved && kind == ResponseApproval {
		return StatusApproved, true, nil
	}

	switch current {
	case StatusSent, StatusNegotiating:
	default:
		return current, false, apperr.Conflict("quote is not awaiting a client response")
	}

	switch kind {
	case ResponseApproval:
		return StatusApproved, false, nil
	case ResponseRejection:
		return StatusRejected, false, nil
	case ResponseMessage:
		return StatusNegotiating, false, nil
	default:
		return current, false, apperr.Validation("unknown response kind")
	}
}

// ForceApprove resolves the status after a signed-document upload. The
// upload wins from any prior status, including REJECTED and NEGOTIATING.
// Returns changed=false when the quote was already APPROVED.
func ForceApprove(current Status) (next Status, changed bool) {
	return StatusApproved, current != StatusApproved
}

// CanAttachDocument reports whether a signed document may be recorded.
// The lock is terminal regardless of status: once an admin has verified,
// the document on file is never replaced.
func CanAttachDocument(locked bool) error {
	if locked {
		return apperr.Conflict("quote is locked and the signed document can no longer be replaced")
	}
	return nil
}

// CanVerify reports whether an admin may verify and lock the quote.
// Verification requires the signed document to already be on file.
func CanVerify(hasSignedDoc bool) error {
	if !hasSignedDoc {
		return apperr.Conflict("quote has no signed document to verify")
	}
	return nil
}
