package service

import (
	"testing"
	"time"

	"servicehub_backend/internal/staff/repository"

	"github.com/google/uuid"
)

func TestPickConsultant_PrefersEarliestCreated(t *testing.T) {
	older := repository.Consultant{
		ID:        uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		FullName:  "Senior",
		Active:    true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := repository.Consultant{
		ID:        uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		FullName:  "Junior",
		Active:    true,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	picked := pickConsultant([]repository.Consultant{newer, older})
	if picked == nil || picked.ID != older.ID {
		t.Fatalf("expected earliest-created consultant, got %+v", picked)
	}
}

func TestPickConsultant_BreaksCreationTiesByID(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := repository.Consultant{
		ID:        uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000"),
		Active:    true,
		CreatedAt: created,
	}
	b := repository.Consultant{
		ID:        uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000"),
		Active:    true,
		CreatedAt: created,
	}

	picked := pickConsultant([]repository.Consultant{b, a})
	if picked == nil || picked.ID != a.ID {
		t.Fatalf("expected lowest ID on tie, got %+v", picked)
	}

	// Input order must not matter.
	picked = pickConsultant([]repository.Consultant{a, b})
	if picked == nil || picked.ID != a.ID {
		t.Fatalf("expected selection independent of order, got %+v", picked)
	}
}

func TestPickConsultant_SkipsInactive(t *testing.T) {
	inactive := repository.Consultant{
		ID:        uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Active:    false,
		CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	active := repository.Consultant{
		ID:        uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		Active:    true,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	picked := pickConsultant([]repository.Consultant{inactive, active})
	if picked == nil || picked.ID != active.ID {
		t.Fatalf("expected inactive consultants to be skipped, got %+v", picked)
	}
}

func TestPickConsultant_NoCandidates(t *testing.T) {
	if picked := pickConsultant(nil); picked != nil {
		t.Fatalf("expected nil for empty candidate list, got %+v", picked)
	}
	inactive := repository.Consultant{ID: uuid.New(), Active: false}
	if picked := pickConsultant([]repository.Consultant{inactive}); picked != nil {
		t.Fatalf("expected nil when all candidates inactive, got %+v", picked)
	}
}
