// Package staff provides the consultant directory and the router that
// assigns new bookings to consultants.
package staff

import (
	apphttp "servicehub_backend/internal/http"
	"servicehub_backend/internal/staff/handler"
	"servicehub_backend/internal/staff/repository"
	"servicehub_backend/internal/staff/service"
	"servicehub_backend/platform/logger"
	"servicehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the staff feature.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the staff module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "staff" }

// Service exposes the router to the bookings module.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes attaches staff routes.
func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	rc.Admin.GET("/consultants", m.handler.ListConsultants)
	rc.Admin.PUT("/consultants/:id/services", m.handler.AssignServices)
}
