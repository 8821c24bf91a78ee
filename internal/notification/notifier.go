// Package notification subscribes to lifecycle events and dispatches the
// matching messages. Dispatch is strictly best-effort: every failure is
// logged and swallowed, never surfaced to the operation that committed
// the state change.
package notification

import (
	"context"
	"fmt"

	"servicehub_backend/internal/email"
	domainevents "servicehub_backend/internal/events"
	"servicehub_backend/internal/whatsapp"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/logger"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// ConsultantDirectory resolves a consultant's contact details for alerts.
type ConsultantDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (name, emailAddr string, err error)
}

// ConfirmationMarker stamps a booking's first confirmation send time.
type ConfirmationMarker interface {
	MarkConfirmationSent(ctx context.Context, bookingID uuid.UUID) error
}

// Notifier renders and sends messages for lifecycle events.
type Notifier struct {
	sender        email.Sender
	wa            *whatsapp.Client
	cfg           config.NotificationConfig
	consultants   ConsultantDirectory
	confirmations ConfirmationMarker
	log           *logger.Logger
}

// NewNotifier creates a notifier.
func NewNotifier(sender email.Sender, wa *whatsapp.Client, cfg config.NotificationConfig, consultants ConsultantDirectory, confirmations ConfirmationMarker, log *logger.Logger) *Notifier {
	return &Notifier{
		sender:        sender,
		wa:            wa,
		cfg:           cfg,
		consultants:   consultants,
		confirmations: confirmations,
		log:           log,
	}
}

func (n *Notifier) handleBookingCreated(ctx context.Context, e domainevents.BookingCreated) {
	if err := n.sender.SendBookingConfirmation(ctx, e.Client.Email, e.Client.Name, e.Reference); err != nil {
		n.log.NotificationError("email", e.Client.Email, err)
	} else if err := n.confirmations.MarkConfirmationSent(ctx, e.BookingID); err != nil {
		n.log.DatabaseError("notification.MarkConfirmationSent", err)
	}

	if adminEmail := n.cfg.GetAdminAlertEmail(); adminEmail != "" {
		if err := n.sender.SendBookingAdminAlert(ctx, adminEmail, e.Reference, e.ServiceType, e.Client.Name); err != nil {
			n.log.NotificationError("email", adminEmail, err)
		}
	}

	if e.ConsultantID != nil {
		name, addr, err := n.consultants.FindByID(ctx, *e.ConsultantID)
		if err != nil {
			n.log.DatabaseError("notification.FindConsultant", err)
			return
		}
		if err := n.sender.SendBookingConsultantAlert(ctx, addr, name, e.Reference, e.ServiceType); err != nil {
			n.log.NotificationError("email", addr, err)
		}
	}
}

func (n *Notifier) handleQuoteSent(ctx context.Context, e domainevents.QuoteSent) {
	quoteURL := n.quoteURL(e.PublicToken)

	if e.Method == "chat-link" {
		message := fmt.Sprintf("Hi %s, your quote for booking %s is ready (%s). Review and respond here: %s",
			e.Client.Name, e.Reference, formatEUR(e.TotalCents), quoteURL)
		if n.wa.Configured() {
			if err := n.wa.SendMessage(ctx, e.Client.Phone, message); err != nil {
				n.log.NotificationError("whatsapp", e.Client.Phone, err)
			}
			return
		}

		// No gateway: hand the conversation to the admin with a prefilled
		// wa.me link so the quote still reaches the client over chat.
		if adminEmail := n.cfg.GetAdminAlertEmail(); adminEmail != "" {
			subject := fmt.Sprintf("Send quote %s over WhatsApp", e.Reference)
			body := fmt.Sprintf(`<p>No WhatsApp gateway is configured. <a href="%s">Open the chat</a> to deliver the quote for booking <strong>%s</strong> to %s.</p>`,
				whatsapp.DeepLink(e.Client.Phone, message), e.Reference, e.Client.Name)
			if err := n.sender.SendCustomEmail(ctx, adminEmail, subject, body); err != nil {
				n.log.NotificationError("email", adminEmail, err)
			}
		}
		return
	}

	if err := n.sender.SendQuoteReady(ctx, e.Client.Email, e.Client.Name, e.Reference, e.TotalCents, quoteURL); err != nil {
		n.log.NotificationError("email", e.Client.Email, err)
	}
}

func (n *Notifier) handleQuoteResponded(ctx context.Context, e domainevents.QuoteResponded) {
	adminEmail := n.cfg.GetAdminAlertEmail()
	if adminEmail == "" {
		return
	}

	statusText := "new client message"
	switch {
	case e.Approved:
		statusText = "approved by the client"
	case e.Comment != "" && !e.Approved:
		statusText = "client responded"
	}
	if err := n.sender.SendQuoteStatusChanged(ctx, adminEmail, e.Reference, statusText, e.Comment); err != nil {
		n.log.NotificationError("email", adminEmail, err)
	}
}

func (n *Notifier) handleQuoteDocumentUploaded(ctx context.Context, e domainevents.QuoteDocumentUploaded) {
	adminEmail := n.cfg.GetAdminAlertEmail()
	if adminEmail == "" {
		return
	}
	if err := n.sender.SendQuoteStatusChanged(ctx, adminEmail, e.Reference,
		"signed document uploaded, quote approved", ""); err != nil {
		n.log.NotificationError("email", adminEmail, err)
	}
}

func (n *Notifier) handleQuoteVerified(ctx context.Context, e domainevents.QuoteVerified) {
	if err := n.sender.SendQuoteStatusChanged(ctx, e.Client.Email, e.Reference,
		"verified and locked", ""); err != nil {
		n.log.NotificationError("email", e.Client.Email, err)
	}
}

func (n *Notifier) handleInvoiceSent(ctx context.Context, e domainevents.InvoiceSent) {
	invoiceURL := n.invoiceURL(e.PublicToken)

	var attachments []email.Attachment
	if png, err := paymentQR(e); err != nil {
		n.log.Error("payment qr generation failed", "invoice", e.Reference, "error", err)
	} else {
		attachments = append(attachments, email.Attachment{
			Content:  png,
			FileName: "payment-" + e.Reference + ".png",
			MIMEType: "image/png",
		})
	}

	err := n.sender.SendInvoiceReady(ctx, e.Client.Email, e.Client.Name, e.Reference,
		e.TotalCents, e.DueDate, e.BankAccountName, e.BankAccountNumber, e.BankName,
		invoiceURL, attachments...)
	if err != nil {
		n.log.NotificationError("email", e.Client.Email, err)
	}
}

func (n *Notifier) handleProofSubmitted(ctx context.Context, e domainevents.ProofSubmitted) {
	adminEmail := n.cfg.GetAdminAlertEmail()
	if adminEmail == "" {
		return
	}

	subject := fmt.Sprintf("Payment proof submitted for invoice %s", e.Reference)
	body := fmt.Sprintf("<p>%s uploaded a payment proof for invoice <strong>%s</strong>. Please verify it.</p>",
		e.Client.Name, e.Reference)
	if err := n.sender.SendCustomEmail(ctx, adminEmail, subject, body); err != nil {
		n.log.NotificationError("email", adminEmail, err)
	}
}

func (n *Notifier) handlePaymentConfirmed(ctx context.Context, e domainevents.PaymentConfirmed) {
	if err := n.sender.SendPaymentConfirmed(ctx, e.Client.Email, e.Client.Name, e.Reference, e.TotalCents); err != nil {
		n.log.NotificationError("email", e.Client.Email, err)
	}
}

func (n *Notifier) handleQuoteReminderDue(ctx context.Context, e domainevents.QuoteReminderDue) {
	quoteURL := n.quoteURL(e.PublicToken)
	if err := n.sender.SendQuoteReminder(ctx, e.Client.Email, e.Client.Name, e.Reference, e.TotalCents, quoteURL); err != nil {
		n.log.NotificationError("email", e.Client.Email, err)
	}
}

func (n *Notifier) handleInvoiceReminderDue(ctx context.Context, e domainevents.InvoiceReminderDue) {
	invoiceURL := n.invoiceURL(e.PublicToken)
	if err := n.sender.SendInvoiceOverdueReminder(ctx, e.Client.Email, e.Client.Name, e.Reference,
		e.TotalCents, e.DueDate, invoiceURL); err != nil {
		n.log.NotificationError("email", e.Client.Email, err)
	}
}

func (n *Notifier) quoteURL(token string) string {
	return n.cfg.GetAppBaseURL() + "/quotes/" + token
}

func (n *Notifier) invoiceURL(token string) string {
	return n.cfg.GetAppBaseURL() + "/invoices/" + token
}

// paymentQR renders an EPC069-12 SEPA credit transfer QR code that mobile
// banking apps can scan to prefill the transfer.
func paymentQR(e domainevents.InvoiceSent) ([]byte, error) {
	payload := fmt.Sprintf("BCD\n002\n1\nSCT\n\n%s\n%s\nEUR%.2f\n\n\n%s\n",
		e.BankAccountName, e.BankAccountNumber, float64(e.TotalCents)/100, e.Reference)
	return qrcode.Encode(payload, qrcode.Medium, 256)
}

func formatEUR(cents int64) string {
	return fmt.Sprintf("€%.2f", float64(cents)/100)
}
