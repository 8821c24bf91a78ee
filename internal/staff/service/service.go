// Package service implements the consultant directory and booking router.
package service

import (
	"context"

	"servicehub_backend/internal/staff/repository"
	"servicehub_backend/platform/apperr"
	"servicehub_backend/platform/logger"

	"github.com/google/uuid"
)

// Service manages consultants and routes bookings to them.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new staff service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Route returns the consultant a new booking for the given service type
// should be assigned to, or nil when no active consultant covers it.
// Routing never fails a booking: a directory error degrades to unassigned.
func (s *Service) Route(ctx context.Context, serviceType string) *repository.Consultant {
	candidates, err := s.repo.ListActiveByService(ctx, serviceType)
	if err != nil {
		s.log.DatabaseError("staff.Route", err)
		return nil
	}

	chosen := pickConsultant(candidates)
	if chosen == nil {
		s.log.Info("no consultant for service type", "service_type", serviceType)
	}
	return chosen
}

// ListConsultants returns every consultant with their assignments.
func (s *Service) ListConsultants(ctx context.Context) ([]repository.Consultant, error) {
	consultants, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list consultants", err)
	}
	return consultants, nil
}

// AssignServices replaces a consultant's service type assignments.
func (s *Service) AssignServices(ctx context.Context, userID uuid.UUID, services []string) error {
	if err := s.repo.ReplaceServices(ctx, userID, services); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to assign services", err)
	}
	return nil
}
