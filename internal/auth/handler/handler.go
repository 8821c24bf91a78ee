// Package handler provides HTTP handlers for authentication.
package handler

import (
	"time"

	"servicehub_backend/internal/auth/service"
	"servicehub_backend/platform/httpkit"
	"servicehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId"`
	FullName    string    `json:"fullName"`
	Roles       []string  `json:"roles"`
}

// Handler handles auth HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new auth handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Login handles POST /public/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, loginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		UserID:      result.UserID,
		FullName:    result.FullName,
		Roles:       result.Roles,
	})
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	httpkit.OK(c, gin.H{
		"userId": id.UserID().String(),
		"roles":  id.Roles(),
	})
}
