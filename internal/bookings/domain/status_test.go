package domain

import "testing"

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"NEW", "ASSIGNED", "AWAITING_CLIENT", "COMPLETED"} {
		if _, ok := ParseStatus(raw); !ok {
			t.Fatalf("expected %q to parse", raw)
		}
	}
	for _, raw := range []string{"new", "PENDING", ""} {
		if _, ok := ParseStatus(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestInitialStatus_DependsOnRoutingOutcome(t *testing.T) {
	if got := InitialStatus(true); got != StatusAssigned {
		t.Fatalf("expected ASSIGNED for routed booking, got %s", got)
	}
	if got := InitialStatus(false); got != StatusNew {
		t.Fatalf("expected NEW for unrouted booking, got %s", got)
	}
}

func TestAfterContact_AlwaysParksOnClient(t *testing.T) {
	if got := AfterContact(); got != StatusAwaitingClient {
		t.Fatalf("expected AWAITING_CLIENT after contact, got %s", got)
	}
}
