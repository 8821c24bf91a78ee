// Package quotes provides the quote drafting, dispatch, negotiation, and
// verification feature.
package quotes

import (
	bookingsrepo "servicehub_backend/internal/bookings/repository"
	apphttp "servicehub_backend/internal/http"
	"servicehub_backend/internal/quotes/handler"
	"servicehub_backend/internal/quotes/repository"
	"servicehub_backend/internal/quotes/service"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"
	"servicehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the quotes feature.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule wires the quotes module.
func NewModule(pool *pgxpool.Pool, bookings *bookingsrepo.Repository, docs service.DocumentStore, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bookings, docs, bus, log)
	return &Module{
		handler:    handler.New(svc, val),
		service:    svc,
		repository: repo,
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "quotes" }

// Repository exposes quote lookups to the invoices module and the
// reminder sweep.
func (m *Module) Repository() *repository.Repository { return m.repository }

// RegisterRoutes attaches quote routes.
func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	rc.Protected.POST("/bookings/:id/quote", m.handler.Create)
	rc.Protected.GET("/bookings/:id/quote", m.handler.GetForBooking)
	rc.Protected.GET("/quotes/:id", m.handler.Get)
	rc.Protected.PUT("/quotes/:id", m.handler.Update)
	rc.Protected.POST("/quotes/:id/send", m.handler.Send)

	rc.Admin.POST("/quotes/:id/verify", m.handler.Verify)

	rc.Public.GET("/quotes/:token", m.handler.GetPublic)
	rc.Public.POST("/quotes/:token/respond", m.handler.Respond)
	rc.Public.POST("/quotes/:token/documents/upload-url", m.handler.DocumentUploadURL)
	rc.Public.POST("/quotes/:token/signed-document", m.handler.AttachDocument)
}
