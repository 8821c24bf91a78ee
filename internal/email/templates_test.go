package email

import (
	"strings"
	"testing"
)

func TestRenderEmailTemplate_QuoteReady(t *testing.T) {
	html, err := renderEmailTemplate("quote_ready.html", quoteReadyData{
		baseEmailData: baseEmailData{
			Title:    "Your quote is ready",
			Heading:  "Your quote is ready",
			CTALabel: "View quote",
			CTAURL:   "https://portal.example.com/quotes/abc123",
		},
		ClientName:     "Jamie de Vries",
		Reference:      "BK-20260829-7KQ2",
		TotalFormatted: "€1250.00",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{"Jamie de Vries", "BK-20260829-7KQ2", "€1250.00", "https://portal.example.com/quotes/abc123"} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered email missing %q", want)
		}
	}
}

func TestRenderEmailTemplate_InvoiceReadyIncludesBankDetails(t *testing.T) {
	html, err := renderEmailTemplate("invoice_ready.html", invoiceReadyData{
		baseEmailData: baseEmailData{
			Title:   "Your invoice",
			Heading: "Your invoice",
		},
		ClientName:     "Jamie de Vries",
		Reference:      "INV-20260829-X4N8",
		TotalFormatted: "€1250.00",
		DueDate:        "12 September 2026",
		AccountName:    "ServiceHub B.V.",
		AccountNumber:  "NL91ABNA0417164300",
		BankName:       "ABN AMRO",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{"NL91ABNA0417164300", "ABN AMRO", "12 September 2026", "INV-20260829-X4N8"} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered invoice email missing %q", want)
		}
	}
}

func TestRenderEmailTemplate_AllTemplatesParse(t *testing.T) {
	cases := map[string]any{
		"booking_confirmation.html":    bookingConfirmationData{ClientName: "a", Reference: "b"},
		"booking_admin_alert.html":     bookingAlertData{Reference: "a", ServiceType: "b", ClientName: "c"},
		"booking_consultant_alert.html": consultantAlertData{ConsultantName: "a", Reference: "b", ServiceType: "c"},
		"quote_ready.html":             quoteReadyData{},
		"quote_status_changed.html":    quoteStatusChangedData{},
		"invoice_ready.html":           invoiceReadyData{},
		"payment_confirmed.html":       paymentConfirmedData{},
		"quote_reminder.html":          reminderData{},
		"invoice_overdue.html":         reminderData{},
	}

	for name, data := range cases {
		if _, err := renderEmailTemplate(name, data); err != nil {
			t.Fatalf("template %s failed to render: %v", name, err)
		}
	}
}

func TestFormatCurrencyEUR(t *testing.T) {
	if got := formatCurrencyEUR(125050); got != "€1250.50" {
		t.Fatalf("expected €1250.50, got %q", got)
	}
	if got := formatCurrencyEUR(0); got != "€0.00" {
		t.Fatalf("expected €0.00, got %q", got)
	}
}
