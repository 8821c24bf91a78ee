package domain

import (
	"testing"

	quotedomain "servicehub_backend/internal/quotes/domain"
)

// Walks the happy path from a sent quote to a paid invoice at the
// transition level: negotiate, sign, invoice, remind, verify.
func TestLifecycle_NegotiatedQuoteToPaidInvoice(t *testing.T) {
	quoteStatus := quotedomain.StatusSent

	// Client pushes back first.
	next, noop, err := quotedomain.ApplyResponse(quoteStatus, quotedomain.ResponseMessage)
	if err != nil || noop || next != quotedomain.StatusNegotiating {
		t.Fatalf("expected NEGOTIATING after client message, got %s (noop=%v, err=%v)", next, noop, err)
	}
	quoteStatus = next

	// No invoice while negotiation is open.
	if err := CanCreateFrom(quoteStatus); err == nil {
		t.Fatal("expected invoice creation to be blocked while negotiating")
	}

	// The signed document arrives out of band and settles the matter.
	next, changed := quotedomain.ForceApprove(quoteStatus)
	if !changed || next != quotedomain.StatusApproved {
		t.Fatalf("expected signed upload to approve the quote, got %s (changed=%v)", next, changed)
	}
	quoteStatus = next

	if err := CanCreateFrom(quoteStatus); err != nil {
		t.Fatalf("expected approved quote to be invoiceable, got %v", err)
	}

	invoiceStatus := StatusGenerated
	if err := CanSend(invoiceStatus); err != nil {
		t.Fatalf("expected generated invoice to be sendable, got %v", err)
	}
	invoiceStatus = StatusSent

	// Proofs accumulate; the invoice stays SENT until the admin verifies.
	if err := CanSubmitProof(invoiceStatus); err != nil {
		t.Fatalf("expected proof submission on sent invoice, got %v", err)
	}
	if err := CanVerifyPayment(0); err == nil {
		t.Fatal("expected verification to require a proof on file")
	}
	if err := CanVerifyPayment(1); err != nil {
		t.Fatalf("expected verification with a proof to pass, got %v", err)
	}
	invoiceStatus = StatusPaid

	// Paid is terminal for mutations.
	if err := CanEdit(invoiceStatus); err == nil {
		t.Fatal("expected paid invoice edits to be rejected")
	}
	if err := CanSubmitProof(invoiceStatus); err == nil {
		t.Fatal("expected proof submission on paid invoice to be rejected")
	}
	if err := CanSend(invoiceStatus); err == nil {
		t.Fatal("expected re-send of paid invoice to be rejected")
	}
}
