// Package transport defines the HTTP request and response shapes for quotes.
package transport

import (
	"time"

	"servicehub_backend/internal/quotes/domain"
	"servicehub_backend/internal/quotes/repository"
)

// LineItemRequest is one submitted quote line.
type LineItemRequest struct {
	Description    string `json:"description" validate:"required,min=1,max=500"`
	Quantity       int64  `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"gte=0"`
}

// DraftRequest creates or replaces a quote draft.
type DraftRequest struct {
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	ClientNotes   string            `json:"clientNotes" validate:"omitempty,max=4000"`
	InternalNotes string            `json:"internalNotes" validate:"omitempty,max=4000"`
}

// SendRequest dispatches a quote over one delivery method.
type SendRequest struct {
	Method string `json:"method" validate:"required"`
}

// RespondRequest is the client's answer, reached through the public token.
type RespondRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Kind     string     `json:"kind" validate:"required"`
	Message  string     `json:"message" validate:"omitempty,max=4000"`
	AgreedAt *time.Time `json:"agreedAt"`
}

// DocumentUploadURLRequest asks for a presigned signed-document upload URL.
type DocumentUploadURLRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ContentType string `json:"contentType" validate:"required"`
}

// AttachDocumentRequest records an uploaded signed document.
type AttachDocumentRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ObjectKey string `json:"objectKey" validate:"required"`
}

// LineItemResponse is the API shape of a quote line.
type LineItemResponse struct {
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	LineTotalCents int64  `json:"lineTotalCents"`
}

// QuoteResponse is the staff-facing API shape of a quote.
type QuoteResponse struct {
	ID              string             `json:"id"`
	BookingID       string             `json:"bookingId"`
	Status          string             `json:"status"`
	Items           []LineItemResponse `json:"items"`
	TotalCents      int64              `json:"totalCents"`
	ClientNotes     string             `json:"clientNotes,omitempty"`
	InternalNotes   string             `json:"internalNotes,omitempty"`
	DeliveryMethods []string           `json:"deliveryMethods"`
	SentAt          *time.Time         `json:"sentAt,omitempty"`
	ResponseKind    *string            `json:"responseKind,omitempty"`
	ResponseMessage string             `json:"responseMessage,omitempty"`
	RespondedAt     *time.Time         `json:"respondedAt,omitempty"`
	AgreedAt        *time.Time         `json:"agreedAt,omitempty"`
	SignedDocKey    *string            `json:"signedDocKey,omitempty"`
	SignedDocURL    string             `json:"signedDocUrl,omitempty"`
	VerifiedAt      *time.Time         `json:"verifiedAt,omitempty"`
	Locked          bool               `json:"locked"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// PublicQuoteResponse is the client-facing view: no internal notes, no
// verifier identity.
type PublicQuoteResponse struct {
	Status      string             `json:"status"`
	Items       []LineItemResponse `json:"items"`
	TotalCents  int64              `json:"totalCents"`
	ClientNotes string             `json:"clientNotes,omitempty"`
	SentAt      *time.Time         `json:"sentAt,omitempty"`
	AgreedAt    *time.Time         `json:"agreedAt,omitempty"`
	Locked      bool               `json:"locked"`
}

// ToItemInputs converts request lines to domain inputs.
func ToItemInputs(items []LineItemRequest) []domain.LineItemInput {
	out := make([]domain.LineItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, domain.LineItemInput{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return out
}

// FromQuote maps a repository quote to its staff API shape.
func FromQuote(q *repository.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:              q.ID.String(),
		BookingID:       q.BookingID.String(),
		Status:          string(q.Status),
		Items:           itemResponses(q.Items),
		TotalCents:      q.TotalCents,
		ClientNotes:     q.ClientNotes,
		InternalNotes:   q.InternalNotes,
		DeliveryMethods: methodStrings(q.DeliveryMethods),
		SentAt:          q.SentAt,
		ResponseMessage: q.ResponseMessage,
		RespondedAt:     q.RespondedAt,
		AgreedAt:        q.AgreedAt,
		SignedDocKey:    q.SignedDocKey,
		VerifiedAt:      q.VerifiedAt,
		Locked:          q.Locked,
		CreatedAt:       q.CreatedAt,
	}
	if q.ResponseKind != nil {
		kind := string(*q.ResponseKind)
		resp.ResponseKind = &kind
	}
	return resp
}

// FromQuotePublic maps a quote to its client-facing shape.
func FromQuotePublic(q *repository.Quote) PublicQuoteResponse {
	return PublicQuoteResponse{
		Status:      string(q.Status),
		Items:       itemResponses(q.Items),
		TotalCents:  q.TotalCents,
		ClientNotes: q.ClientNotes,
		SentAt:      q.SentAt,
		AgreedAt:    q.AgreedAt,
		Locked:      q.Locked,
	}
}

func itemResponses(items []repository.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemResponse{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return out
}

func methodStrings(methods []domain.Method) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	return out
}
