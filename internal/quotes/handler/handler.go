// Package handler provides HTTP handlers for quotes, both the staff API
// and the token-gated public client API.
package handler

import (
	"servicehub_backend/internal/quotes/service"
	"servicehub_backend/internal/quotes/transport"
	"servicehub_backend/platform/httpkit"
	"servicehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles quote HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quotes handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create handles POST /bookings/:id/quote.
func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid booking id", nil)
		return
	}

	req, ok := h.bindDraft(c)
	if !ok {
		return
	}

	quote, err := h.svc.Create(c.Request.Context(), id.UserID(), bookingID, service.DraftInput{
		Items:         transport.ToItemInputs(req.Items),
		ClientNotes:   req.ClientNotes,
		InternalNotes: req.InternalNotes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.FromQuote(quote))
}

// Update handles PUT /quotes/:id.
func (h *Handler) Update(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid quote id", nil)
		return
	}

	req, ok := h.bindDraft(c)
	if !ok {
		return
	}

	quote, err := h.svc.Update(c.Request.Context(), quoteID, service.DraftInput{
		Items:         transport.ToItemInputs(req.Items),
		ClientNotes:   req.ClientNotes,
		InternalNotes: req.InternalNotes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromQuote(quote))
}

// Get handles GET /quotes/:id.
func (h *Handler) Get(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid quote id", nil)
		return
	}

	quote, err := h.svc.Get(c.Request.Context(), quoteID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.FromQuote(quote)
	resp.SignedDocURL = h.svc.SignedDocumentURL(c.Request.Context(), quote)
	httpkit.OK(c, resp)
}

// GetForBooking handles GET /bookings/:id/quote.
func (h *Handler) GetForBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid booking id", nil)
		return
	}

	quote, err := h.svc.GetForBooking(c.Request.Context(), bookingID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.FromQuote(quote)
	resp.SignedDocURL = h.svc.SignedDocumentURL(c.Request.Context(), quote)
	httpkit.OK(c, resp)
}

// Send handles POST /quotes/:id/send.
func (h *Handler) Send(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid quote id", nil)
		return
	}

	var req transport.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	quote, err := h.svc.Send(c.Request.Context(), quoteID, req.Method)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromQuote(quote))
}

// Verify handles POST /admin/quotes/:id/verify.
func (h *Handler) Verify(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid quote id", nil)
		return
	}

	quote, err := h.svc.Verify(c.Request.Context(), quoteID, id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromQuote(quote))
}

// GetPublic handles GET /public/quotes/:token.
func (h *Handler) GetPublic(c *gin.Context) {
	quote, err := h.svc.GetPublic(c.Request.Context(), c.Param("token"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromQuotePublic(quote))
}

// Respond handles POST /public/quotes/:token/respond.
func (h *Handler) Respond(c *gin.Context) {
	var req transport.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	quote, err := h.svc.Respond(c.Request.Context(), service.RespondInput{
		Token:    c.Param("token"),
		Email:    req.Email,
		Kind:     req.Kind,
		Message:  req.Message,
		AgreedAt: req.AgreedAt,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromQuotePublic(quote))
}

// DocumentUploadURL handles POST /public/quotes/:token/documents/upload-url.
func (h *Handler) DocumentUploadURL(c *gin.Context) {
	var req transport.DocumentUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	uploadURL, objectKey, err := h.svc.PresignDocumentUpload(
		c.Request.Context(), c.Param("token"), req.Email, req.ContentType)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"uploadUrl": uploadURL, "objectKey": objectKey})
}

// AttachDocument handles POST /public/quotes/:token/signed-document.
func (h *Handler) AttachDocument(c *gin.Context) {
	var req transport.AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	quote, err := h.svc.AttachSignedDocument(
		c.Request.Context(), c.Param("token"), req.Email, req.ObjectKey)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromQuotePublic(quote))
}

func (h *Handler) bindDraft(c *gin.Context) (*transport.DraftRequest, bool) {
	var req transport.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return nil, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return nil, false
	}
	return &req, true
}
