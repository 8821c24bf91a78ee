// Package invoices provides the billing and payment verification feature.
package invoices

import (
	bookingsrepo "servicehub_backend/internal/bookings/repository"
	apphttp "servicehub_backend/internal/http"
	"servicehub_backend/internal/invoices/handler"
	"servicehub_backend/internal/invoices/repository"
	"servicehub_backend/internal/invoices/service"
	quotesrepo "servicehub_backend/internal/quotes/repository"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/events"
	"servicehub_backend/platform/logger"
	"servicehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the invoices feature.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule wires the invoices module.
func NewModule(pool *pgxpool.Pool, quotes *quotesrepo.Repository, bookings *bookingsrepo.Repository, proofs service.ProofStore, bus events.Bus, cfg config.BillingConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, quotes, bookings, proofs, bus, cfg, log)
	return &Module{
		handler:    handler.New(svc, val),
		service:    svc,
		repository: repo,
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "invoices" }

// Repository exposes invoice lookups to the reminder sweep.
func (m *Module) Repository() *repository.Repository { return m.repository }

// RegisterRoutes attaches invoice routes.
func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	rc.Protected.POST("/invoices", m.handler.Create)
	rc.Protected.GET("/invoices/:id", m.handler.Get)
	rc.Protected.GET("/quotes/:id/invoice", m.handler.GetForQuote)
	rc.Protected.POST("/invoices/:id/send", m.handler.Send)
	rc.Protected.PUT("/invoices/:id", m.handler.Update)
	rc.Protected.GET("/invoices/:id/proofs", m.handler.Proofs)

	rc.Admin.POST("/invoices/:id/verify-payment", m.handler.VerifyPayment)

	rc.Public.GET("/invoices/:token", m.handler.GetPublic)
	rc.Public.POST("/invoices/:token/proofs/upload-url", m.handler.ProofUploadURL)
	rc.Public.POST("/invoices/:token/proofs", m.handler.SubmitProof)
}
