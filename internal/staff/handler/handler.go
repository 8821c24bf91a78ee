// Package handler provides HTTP handlers for the consultant directory.
package handler

import (
	"time"

	"servicehub_backend/internal/staff/service"
	"servicehub_backend/platform/httpkit"
	"servicehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type consultantResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	Services  []string  `json:"services"`
}

type assignServicesRequest struct {
	Services []string `json:"services" validate:"required,dive,min=1"`
}

// Handler handles staff HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new staff handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListConsultants handles GET /admin/consultants.
func (h *Handler) ListConsultants(c *gin.Context) {
	consultants, err := h.svc.ListConsultants(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]consultantResponse, 0, len(consultants))
	for _, item := range consultants {
		out = append(out, consultantResponse{
			ID:        item.ID.String(),
			FullName:  item.FullName,
			Email:     item.Email,
			Phone:     item.Phone,
			Active:    item.Active,
			CreatedAt: item.CreatedAt,
			Services:  item.Services,
		})
	}
	httpkit.OK(c, gin.H{"consultants": out})
}

// AssignServices handles PUT /admin/consultants/:id/services.
func (h *Handler) AssignServices(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid consultant id", nil)
		return
	}

	var req assignServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	if err := h.svc.AssignServices(c.Request.Context(), userID, req.Services); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"updated": true})
}
