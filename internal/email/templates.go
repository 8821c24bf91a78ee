package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type bookingConfirmationData struct {
	baseEmailData
	ClientName string
	Reference  string
}

type bookingAlertData struct {
	baseEmailData
	Reference   string
	ServiceType string
	ClientName  string
}

type consultantAlertData struct {
	baseEmailData
	ConsultantName string
	Reference      string
	ServiceType    string
}

type quoteReadyData struct {
	baseEmailData
	ClientName     string
	Reference      string
	TotalFormatted string
}

type quoteStatusChangedData struct {
	baseEmailData
	Reference  string
	StatusText string
	Comment    string
}

type invoiceReadyData struct {
	baseEmailData
	ClientName     string
	Reference      string
	TotalFormatted string
	DueDate        string
	AccountName    string
	AccountNumber  string
	BankName       string
}

type paymentConfirmedData struct {
	baseEmailData
	ClientName     string
	Reference      string
	TotalFormatted string
}

type reminderData struct {
	baseEmailData
	ClientName     string
	Reference      string
	TotalFormatted string
	DueDate        string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencyEUR(cents int64) string {
	return fmt.Sprintf("€%.2f", float64(cents)/100)
}
