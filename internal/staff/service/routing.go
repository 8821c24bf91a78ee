package service

import (
	"servicehub_backend/internal/staff/repository"
)

// pickConsultant selects the consultant a new booking is routed to: the
// most senior eligible candidate, where seniority is creation time with the
// ID breaking ties. Returns nil when no candidate is eligible; the booking
// then stays unassigned for manual pickup.
//
// The selection is a pure function of the candidate list so routing stays
// deterministic for a given directory state.
func pickConsultant(candidates []repository.Consultant) *repository.Consultant {
	var best *repository.Consultant
	for i := range candidates {
		c := &candidates[i]
		if !c.Active {
			continue
		}
		if best == nil || earlier(c, best) {
			best = c
		}
	}
	return best
}

func earlier(a, b *repository.Consultant) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
