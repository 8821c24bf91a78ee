// Package auth provides staff authentication: credential login and
// access-token issuance.
package auth

import (
	"servicehub_backend/internal/auth/handler"
	"servicehub_backend/internal/auth/repository"
	"servicehub_backend/internal/auth/service"
	apphttp "servicehub_backend/internal/http"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/logger"
	"servicehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the auth feature.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "auth" }

// RegisterRoutes attaches auth routes.
func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	rc.Public.POST("/auth/login", m.handler.Login)
	rc.Protected.GET("/auth/me", m.handler.Me)
}
