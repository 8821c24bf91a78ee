// Package transport defines the HTTP request and response shapes for invoices.
package transport

import (
	"time"

	"servicehub_backend/internal/invoices/repository"
	"servicehub_backend/internal/invoices/service"
)

// CreateInvoiceRequest generates an invoice from an approved quote.
type CreateInvoiceRequest struct {
	QuoteID string     `json:"quoteId" validate:"required,uuid4"`
	DueDate *time.Time `json:"dueDate"`
}

// EditInvoiceRequest changes the fields that stay editable until payment.
type EditInvoiceRequest struct {
	DueDate           time.Time `json:"dueDate" validate:"required"`
	BankAccountName   string    `json:"bankAccountName" validate:"required,max=120"`
	BankAccountNumber string    `json:"bankAccountNumber" validate:"required,max=64"`
	BankName          string    `json:"bankName" validate:"required,max=120"`
}

// VerifyPaymentRequest resolves the admin's verdict on submitted proofs.
type VerifyPaymentRequest struct {
	Verified bool   `json:"verified"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

// ProofUploadURLRequest asks for a presigned proof upload URL.
type ProofUploadURLRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ContentType string `json:"contentType" validate:"required"`
}

// SubmitProofRequest records an uploaded payment proof.
type SubmitProofRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ObjectKey string `json:"objectKey" validate:"required"`
}

// InvoiceResponse is the staff-facing API shape of an invoice.
type InvoiceResponse struct {
	ID                string     `json:"id"`
	QuoteID           string     `json:"quoteId"`
	Reference         string     `json:"reference"`
	TotalCents        int64      `json:"totalCents"`
	DueDate           time.Time  `json:"dueDate"`
	BankAccountName   string     `json:"bankAccountName"`
	BankAccountNumber string     `json:"bankAccountNumber"`
	BankName          string     `json:"bankName"`
	Status            string     `json:"status"`
	SentAt            *time.Time `json:"sentAt,omitempty"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// PublicInvoiceResponse is the client-facing view.
type PublicInvoiceResponse struct {
	Reference         string     `json:"reference"`
	TotalCents        int64      `json:"totalCents"`
	DueDate           time.Time  `json:"dueDate"`
	BankAccountName   string     `json:"bankAccountName"`
	BankAccountNumber string     `json:"bankAccountNumber"`
	BankName          string     `json:"bankName"`
	Status            string     `json:"status"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
}

// ProofResponse is the API shape of a payment proof.
type ProofResponse struct {
	ID          string     `json:"id"`
	ObjectKey   string     `json:"objectKey"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	UploadedAt  time.Time  `json:"uploadedAt"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// FromInvoice maps a repository invoice to its staff API shape.
func FromInvoice(inv *repository.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                inv.ID.String(),
		QuoteID:           inv.QuoteID.String(),
		Reference:         inv.Reference,
		TotalCents:        inv.TotalCents,
		DueDate:           inv.DueDate,
		BankAccountName:   inv.BankAccountName,
		BankAccountNumber: inv.BankAccountNumber,
		BankName:          inv.BankName,
		Status:            string(inv.Status),
		SentAt:            inv.SentAt,
		PaidAt:            inv.PaidAt,
		CreatedAt:         inv.CreatedAt,
	}
}

// FromInvoicePublic maps an invoice to its client-facing shape.
func FromInvoicePublic(inv *repository.Invoice) PublicInvoiceResponse {
	return PublicInvoiceResponse{
		Reference:         inv.Reference,
		TotalCents:        inv.TotalCents,
		DueDate:           inv.DueDate,
		BankAccountName:   inv.BankAccountName,
		BankAccountNumber: inv.BankAccountNumber,
		BankName:          inv.BankName,
		Status:            string(inv.Status),
		PaidAt:            inv.PaidAt,
	}
}

// FromProofs maps payment proof records to API shapes.
func FromProofs(proofs []service.ProofRecord) []ProofResponse {
	out := make([]ProofResponse, 0, len(proofs))
	for _, p := range proofs {
		out = append(out, ProofResponse{
			ID:          p.ID.String(),
			ObjectKey:   p.ObjectKey,
			DownloadURL: p.DownloadURL,
			UploadedAt:  p.UploadedAt,
			VerifiedAt:  p.VerifiedAt,
			Notes:       p.Notes,
		})
	}
	return out
}
