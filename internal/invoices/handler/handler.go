// Package handler provides HTTP handlers for invoices, both the staff API
// and the token-gated public client API.
package handler

import (
	"servicehub_backend/internal/invoices/service"
	"servicehub_backend/internal/invoices/transport"
	"servicehub_backend/platform/httpkit"
	"servicehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles invoice HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new invoices handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create handles POST /invoices.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	quoteID, err := uuid.Parse(req.QuoteID)
	if err != nil {
		httpkit.Error(c, 400, "invalid quote id", nil)
		return
	}

	invoice, err := h.svc.Create(c.Request.Context(), quoteID, req.DueDate)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.FromInvoice(invoice))
}

// Get handles GET /invoices/:id.
func (h *Handler) Get(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid invoice id", nil)
		return
	}

	invoice, err := h.svc.Get(c.Request.Context(), invoiceID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromInvoice(invoice))
}

// GetForQuote handles GET /quotes/:id/invoice.
func (h *Handler) GetForQuote(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid quote id", nil)
		return
	}

	invoice, err := h.svc.GetForQuote(c.Request.Context(), quoteID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromInvoice(invoice))
}

// Send handles POST /invoices/:id/send.
func (h *Handler) Send(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid invoice id", nil)
		return
	}

	invoice, err := h.svc.Send(c.Request.Context(), invoiceID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromInvoice(invoice))
}

// Update handles PUT /invoices/:id.
func (h *Handler) Update(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid invoice id", nil)
		return
	}

	var req transport.EditInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	invoice, err := h.svc.UpdateDetails(c.Request.Context(), invoiceID, service.EditInput{
		DueDate:           req.DueDate,
		BankAccountName:   req.BankAccountName,
		BankAccountNumber: req.BankAccountNumber,
		BankName:          req.BankName,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromInvoice(invoice))
}

// Proofs handles GET /invoices/:id/proofs.
func (h *Handler) Proofs(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid invoice id", nil)
		return
	}

	proofs, err := h.svc.Proofs(c.Request.Context(), invoiceID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"proofs": transport.FromProofs(proofs)})
}

// VerifyPayment handles POST /admin/invoices/:id/verify-payment.
func (h *Handler) VerifyPayment(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid invoice id", nil)
		return
	}

	var req transport.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	invoice, err := h.svc.VerifyPayment(c.Request.Context(), invoiceID, id.UserID(), req.Verified, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromInvoice(invoice))
}

// GetPublic handles GET /public/invoices/:token.
func (h *Handler) GetPublic(c *gin.Context) {
	invoice, err := h.svc.GetPublic(c.Request.Context(), c.Param("token"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromInvoicePublic(invoice))
}

// ProofUploadURL handles POST /public/invoices/:token/proofs/upload-url.
func (h *Handler) ProofUploadURL(c *gin.Context) {
	var req transport.ProofUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	uploadURL, objectKey, err := h.svc.PresignProofUpload(
		c.Request.Context(), c.Param("token"), req.Email, req.ContentType)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"uploadUrl": uploadURL, "objectKey": objectKey})
}

// SubmitProof handles POST /public/invoices/:token/proofs.
func (h *Handler) SubmitProof(c *gin.Context) {
	var req transport.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, "validation failed", validator.FieldErrors(err))
		return
	}

	proof, err := h.svc.SubmitProof(c.Request.Context(), c.Param("token"), req.Email, req.ObjectKey)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, gin.H{"proofId": proof.ID.String(), "uploadedAt": proof.UploadedAt})
}
