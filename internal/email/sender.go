// Package email renders and delivers the client- and staff-facing emails.
package email

import (
	"context"
	"time"

	"servicehub_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string
	MIMEType string
}

// Sender delivers rendered lifecycle emails. One method per template keeps
// call sites honest about the data each message needs.
type Sender interface {
	SendBookingConfirmation(ctx context.Context, toEmail, clientName, reference string) error
	SendBookingAdminAlert(ctx context.Context, toEmail, reference, serviceType, clientName string) error
	SendBookingConsultantAlert(ctx context.Context, toEmail, consultantName, reference, serviceType string) error
	SendQuoteReady(ctx context.Context, toEmail, clientName, reference string, totalCents int64, quoteURL string) error
	SendQuoteStatusChanged(ctx context.Context, toEmail, reference, statusText, comment string) error
	SendInvoiceReady(ctx context.Context, toEmail, clientName, reference string, totalCents int64, dueDate time.Time, accountName, accountNumber, bankName, invoiceURL string, attachments ...Attachment) error
	SendPaymentConfirmed(ctx context.Context, toEmail, clientName, reference string, totalCents int64) error
	SendQuoteReminder(ctx context.Context, toEmail, clientName, reference string, totalCents int64, quoteURL string) error
	SendInvoiceOverdueReminder(ctx context.Context, toEmail, clientName, reference string, totalCents int64, dueDate time.Time, invoiceURL string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NewSender picks the sender implementation based on configuration.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender satisfies Sender without delivering anything. Used when email
// is disabled in the environment.
type NoopSender struct{}

func (NoopSender) SendBookingConfirmation(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendBookingAdminAlert(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendBookingConsultantAlert(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendQuoteReady(context.Context, string, string, string, int64, string) error {
	return nil
}

func (NoopSender) SendQuoteStatusChanged(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendInvoiceReady(_ context.Context, _, _, _ string, _ int64, _ time.Time, _, _, _, _ string, _ ...Attachment) error {
	return nil
}

func (NoopSender) SendPaymentConfirmed(context.Context, string, string, string, int64) error {
	return nil
}

func (NoopSender) SendQuoteReminder(context.Context, string, string, string, int64, string) error {
	return nil
}

func (NoopSender) SendInvoiceOverdueReminder(_ context.Context, _, _, _ string, _ int64, _ time.Time, _ string) error {
	return nil
}

func (NoopSender) SendCustomEmail(context.Context, string, string, string) error {
	return nil
}
