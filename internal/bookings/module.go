// Package bookings provides the booking intake and lifecycle feature.
package bookings

import (
	"servicehub_backend/internal/bookings/handler"
	"servicehub_backend/internal/bookings/repository"
	"servicehub_backend/internal/bookings/service"
	apphttp "servicehub_backend/internal/http"
	staffservice "servicehub_backend/internal/staff/service"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"
	"servicehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the bookings feature.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule wires the bookings module.
func NewModule(pool *pgxpool.Pool, router *staffservice.Service, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, router, bus, log)
	return &Module{
		handler:    handler.New(svc, val),
		service:    svc,
		repository: repo,
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "bookings" }

// Repository exposes booking lookups to the quotes module.
func (m *Module) Repository() *repository.Repository { return m.repository }

// RegisterRoutes attaches booking routes.
func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	rc.Public.POST("/bookings", m.handler.Create)

	rc.Protected.GET("/bookings", m.handler.List)
	rc.Protected.GET("/bookings/:id", m.handler.Get)
	rc.Protected.POST("/bookings/:id/contact", m.handler.LogContact)
	rc.Protected.GET("/bookings/:id/contact", m.handler.ContactLogs)

	rc.Admin.PATCH("/bookings/:id/status", m.handler.UpdateStatus)
}
