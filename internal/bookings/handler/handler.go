// Package handler provides HTTP handlers for bookings.
package handler

import (
	"servicehub_backend/internal/bookings/domain"
	"servicehub_backend/internal/bookings/service"
	"servicehub_backend/internal/bookings/transport"
	"servicehub_backend/platform/httpkit"
	"servicehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles booking HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new bookings handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create handles POST /public/bookings (client intake, unauthenticated).
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	booking, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		ServiceType: req.ServiceType,
		Details:     req.Details,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.FromBooking(booking))
}

// List handles GET /bookings.
func (h *Handler) List(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var status *domain.Status
	if raw := c.Query("status"); raw != "" {
		parsed, ok := domain.ParseStatus(raw)
		if !ok {
			httpkit.Error(c, 400, "unknown booking status", nil)
			return
		}
		status = &parsed
	}

	bookings, err := h.svc.List(c.Request.Context(), id.UserID(), id.HasRole(httpkit.RoleAdmin), status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"bookings": transport.FromBookings(bookings)})
}

// Get handles GET /bookings/:id.
func (h *Handler) Get(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid booking id", nil)
		return
	}

	booking, err := h.svc.Get(c.Request.Context(), bookingID, id.UserID(), id.HasRole(httpkit.RoleAdmin))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromBooking(booking))
}

// UpdateStatus handles PATCH /admin/bookings/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid booking id", nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	booking, err := h.svc.UpdateStatus(c.Request.Context(), bookingID, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromBooking(booking))
}

// LogContact handles POST /bookings/:id/contact.
func (h *Handler) LogContact(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid booking id", nil)
		return
	}

	var req transport.LogContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	err = h.svc.LogContact(c.Request.Context(), service.LogContactInput{
		BookingID:    bookingID,
		ConsultantID: id.UserID(),
		Channel:      req.Channel,
		Note:         req.Note,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"logged": true})
}

// ContactLogs handles GET /bookings/:id/contact.
func (h *Handler) ContactLogs(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid booking id", nil)
		return
	}

	logs, err := h.svc.ContactLogs(c.Request.Context(), bookingID, id.UserID(), id.HasRole(httpkit.RoleAdmin))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"contactLogs": transport.FromContactLogs(logs)})
}
