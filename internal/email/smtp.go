package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendBookingConfirmation(ctx context.Context, toEmail, clientName, reference string) error {
	content, err := renderEmailTemplate("booking_confirmation.html", bookingConfirmationData{
		baseEmailData: baseEmailData{
			Title:   "Request received",
			Heading: "We received your request",
		},
		ClientName: clientName,
		Reference:  reference,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectBookingConfirmationFmt, reference), content)
}

func (s *SMTPSender) SendBookingAdminAlert(ctx context.Context, toEmail, reference, serviceType, clientName string) error {
	content, err := renderEmailTemplate("booking_admin_alert.html", bookingAlertData{
		baseEmailData: baseEmailData{
			Title:   "New booking",
			Heading: "New booking",
		},
		Reference:   reference,
		ServiceType: serviceType,
		ClientName:  clientName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectBookingAdminAlertFmt, reference), content)
}

func (s *SMTPSender) SendBookingConsultantAlert(ctx context.Context, toEmail, consultantName, reference, serviceType string) error {
	content, err := renderEmailTemplate("booking_consultant_alert.html", consultantAlertData{
		baseEmailData: baseEmailData{
			Title:   "Booking assigned",
			Heading: "A booking was assigned to you",
		},
		ConsultantName: consultantName,
		Reference:      reference,
		ServiceType:    serviceType,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectBookingConsultantAlertFmt, reference), content)
}

func (s *SMTPSender) SendQuoteReady(ctx context.Context, toEmail, clientName, reference string, totalCents int64, quoteURL string) error {
	content, err := renderEmailTemplate("quote_ready.html", quoteReadyData{
		baseEmailData: baseEmailData{
			Title:    "Your quote is ready",
			Heading:  "Your quote is ready",
			CTALabel: "View quote",
			CTAURL:   quoteURL,
		},
		ClientName:     clientName,
		Reference:      reference,
		TotalFormatted: formatCurrencyEUR(totalCents),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectQuoteReadyFmt, reference), content)
}

func (s *SMTPSender) SendQuoteStatusChanged(ctx context.Context, toEmail, reference, statusText, comment string) error {
	content, err := renderEmailTemplate("quote_status_changed.html", quoteStatusChangedData{
		baseEmailData: baseEmailData{
			Title:   "Quote update",
			Heading: "Quote update",
		},
		Reference:  reference,
		StatusText: statusText,
		Comment:    comment,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectQuoteStatusChangedFmt, reference), content)
}

func (s *SMTPSender) SendInvoiceReady(ctx context.Context, toEmail, clientName, reference string, totalCents int64, dueDate time.Time, accountName, accountNumber, bankName, invoiceURL string, attachments ...Attachment) error {
	content, err := renderEmailTemplate("invoice_ready.html", invoiceReadyData{
		baseEmailData: baseEmailData{
			Title:    "Your invoice",
			Heading:  "Your invoice",
			CTALabel: "View invoice and upload payment proof",
			CTAURL:   invoiceURL,
		},
		ClientName:     clientName,
		Reference:      reference,
		TotalFormatted: formatCurrencyEUR(totalCents),
		DueDate:        dueDate.Format("2 January 2006"),
		AccountName:    accountName,
		AccountNumber:  accountNumber,
		BankName:       bankName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectInvoiceReadyFmt, reference), content, attachments...)
}

func (s *SMTPSender) SendPaymentConfirmed(ctx context.Context, toEmail, clientName, reference string, totalCents int64) error {
	content, err := renderEmailTemplate("payment_confirmed.html", paymentConfirmedData{
		baseEmailData: baseEmailData{
			Title:   "Payment received",
			Heading: "Payment received",
		},
		ClientName:     clientName,
		Reference:      reference,
		TotalFormatted: formatCurrencyEUR(totalCents),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectPaymentConfirmedFmt, reference), content)
}

func (s *SMTPSender) SendQuoteReminder(ctx context.Context, toEmail, clientName, reference string, totalCents int64, quoteURL string) error {
	content, err := renderEmailTemplate("quote_reminder.html", reminderData{
		baseEmailData: baseEmailData{
			Title:    "Your quote is waiting",
			Heading:  "Your quote is waiting",
			CTALabel: "View quote",
			CTAURL:   quoteURL,
		},
		ClientName:     clientName,
		Reference:      reference,
		TotalFormatted: formatCurrencyEUR(totalCents),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectQuoteReminderFmt, reference), content)
}

func (s *SMTPSender) SendInvoiceOverdueReminder(ctx context.Context, toEmail, clientName, reference string, totalCents int64, dueDate time.Time, invoiceURL string) error {
	content, err := renderEmailTemplate("invoice_overdue.html", reminderData{
		baseEmailData: baseEmailData{
			Title:    "Invoice overdue",
			Heading:  "Invoice overdue",
			CTALabel: "View invoice",
			CTAURL:   invoiceURL,
		},
		ClientName:     clientName,
		Reference:      reference,
		TotalFormatted: formatCurrencyEUR(totalCents),
		DueDate:        dueDate.Format("2 January 2006"),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectInvoiceOverdueFmt, reference), content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
