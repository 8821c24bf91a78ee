package domain

import (
	"testing"

	"servicehub_backend/platform/apperr"
)

func TestComputeTotal_SumsLineTotals(t *testing.T) {
	items := []LineItemInput{
		{Description: "site survey", Quantity: 1, UnitPriceCents: 15000},
		{Description: "installation hours", Quantity: 8, UnitPriceCents: 9500},
		{Description: "materials", Quantity: 3, UnitPriceCents: 4250},
	}

	total := ComputeTotal(items)

	if total != 15000+8*9500+3*4250 {
		t.Fatalf("expected total %d, got %d", 15000+8*9500+3*4250, total)
	}
}

func TestValidateItems_RejectsEmptySet(t *testing.T) {
	err := ValidateItems(nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}
}

func TestValidateItems_RejectsZeroQuantity(t *testing.T) {
	err := ValidateItems([]LineItemInput{
		{Description: "labor", Quantity: 0, UnitPriceCents: 100},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
}

func TestValidateItems_AllowsFreeLineItem(t *testing.T) {
	err := ValidateItems([]LineItemInput{
		{Description: "goodwill discount callout", Quantity: 1, UnitPriceCents: 0},
	})
	if err != nil {
		t.Fatalf("expected zero-price item to be valid, got %v", err)
	}
}

func TestCanEdit_LockWinsOverDraftStatus(t *testing.T) {
	if err := CanEdit(StatusDraft, true); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on locked draft, got %v", err)
	}
	if err := CanEdit(StatusDraft, false); err != nil {
		t.Fatalf("expected unlocked draft to be editable, got %v", err)
	}
}

func TestCanEdit_RejectsNonDraft(t *testing.T) {
	for _, status := range []Status{StatusSent, StatusNegotiating, StatusApproved, StatusRejected} {
		if err := CanEdit(status, false); !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("expected conflict editing %s quote, got %v", status, err)
		}
	}
}

func TestCanSend_AllowsResend(t *testing.T) {
	for _, status := range []Status{StatusDraft, StatusSent, StatusNegotiating} {
		if err := CanSend(status, false); err != nil {
			t.Fatalf("expected send from %s to be allowed, got %v", status, err)
		}
	}
}

func TestCanSend_RejectsTerminalAndLocked(t *testing.T) {
	for _, status := range []Status{StatusApproved, StatusRejected} {
		if err := CanSend(status, false); !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("expected conflict sending %s quote, got %v", status, err)
		}
	}
	if err := CanSend(StatusDraft, true); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict sending locked quote, got %v", err)
	}
}

func TestAccumulateMethods_DeduplicatesAcrossSends(t *testing.T) {
	methods := AccumulateMethods(nil, MethodDirectMessage)
	methods = AccumulateMethods(methods, MethodChatLink)
	methods = AccumulateMethods(methods, MethodDirectMessage)

	if len(methods) != 2 {
		t.Fatalf("expected 2 distinct methods, got %d: %v", len(methods), methods)
	}
	if methods[0] != MethodDirectMessage || methods[1] != MethodChatLink {
		t.Fatalf("expected insertion order preserved, got %v", methods)
	}
}

func TestApplyResponse_Transitions(t *testing.T) {
	cases := []struct {
		current Status
		kind    ResponseKind
		next    Status
	}{
		{StatusSent, ResponseApproval, StatusApproved},
		{StatusSent, ResponseRejection, StatusRejected},
		{StatusSent, ResponseMessage, StatusNegotiating},
		{StatusNegotiating, ResponseApproval, StatusApproved},
		{StatusNegotiating, ResponseRejection, StatusRejected},
		{StatusNegotiating, ResponseMessage, StatusNegotiating},
	}

	for _, tc := range cases {
		next, noop, err := ApplyResponse(tc.current, tc.kind)
		if err != nil {
			t.Fatalf("%s + %s: unexpected error %v", tc.current, tc.kind, err)
		}
		if noop {
			t.Fatalf("%s + %s: unexpected noop", tc.current, tc.kind)
		}
		if next != tc.next {
			t.Fatalf("%s + %s: expected %s, got %s", tc.current, tc.kind, tc.next, next)
		}
	}
}

func TestApplyResponse_ReapprovalIsIdempotent(t *testing.T) {
	next, noop, err := ApplyResponse(StatusApproved, ResponseApproval)
	if err != nil {
		t.Fatalf("expected re-approval to succeed, got %v", err)
	}
	if !noop {
		t.Fatal("expected re-approval to be a noop")
	}
	if next != StatusApproved {
		t.Fatalf("expected APPROVED, got %s", next)
	}
}

func TestApplyResponse_RejectsWrongState(t *testing.T) {
	for _, current := range []Status{StatusDraft, StatusRejected} {
		_, _, err := ApplyResponse(current, ResponseApproval)
		if !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("expected conflict responding to %s quote, got %v", current, err)
		}
	}
	if _, _, err := ApplyResponse(StatusApproved, ResponseMessage); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict messaging an approved quote, got %v", err)
	}
}

func TestForceApprove_WinsFromAnyStatus(t *testing.T) {
	for _, current := range []Status{StatusDraft, StatusSent, StatusNegotiating, StatusRejected} {
		next, changed := ForceApprove(current)
		if next != StatusApproved || !changed {
			t.Fatalf("expected %s to force-approve with change, got %s changed=%v", current, next, changed)
		}
	}

	next, changed := ForceApprove(StatusApproved)
	if next != StatusApproved || changed {
		t.Fatalf("expected approved quote to stay approved without change, got %s changed=%v", next, changed)
	}
}

func TestCanAttachDocument_LockIsTerminal(t *testing.T) {
	if err := CanAttachDocument(true); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict attaching to a locked quote, got %v", err)
	}
	if err := CanAttachDocument(false); err != nil {
		t.Fatalf("expected attachment on an unlocked quote to pass, got %v", err)
	}
}

func TestCanVerify_RequiresSignedDocument(t *testing.T) {
	if err := CanVerify(false); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict without signed document, got %v", err)
	}
	if err := CanVerify(true); err != nil {
		t.Fatalf("expected verification with signed document to pass, got %v", err)
	}
}

func TestParseMethod_KnownTags(t *testing.T) {
	for _, raw := range []string{"direct-message", "chat-link", "secure-portal-link"} {
		if _, ok := ParseMethod(raw); !ok {
			t.Fatalf("expected %q to parse", raw)
		}
	}
	if _, ok := ParseMethod("carrier-pigeon"); ok {
		t.Fatal("expected unknown method to be rejected")
	}
}
