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

type quoteSentEmailData struct {
	baseEmailData
	ClientName     string
	VendorName     string
	QuoteNumber    string
	TotalFormatted string
	ValidUntil     string
}

type quoteDeclinedEmailData struct {
	baseEmailData
	VendorName  string
	QuoteNumber string
	Reason      string
}

type quoteCancelledEmailData struct {
	baseEmailData
	ClientName  string
	VendorName  string
	QuoteNumber string
}

type bookingConfirmedEmailData struct {
	baseEmailData
	RecipientName    string
	CounterpartyName string
	QuoteNumber      string
	TotalFormatted   string
	EventDate        string
}

type balanceReminderEmailData struct {
	baseEmailData
	ClientName       string
	QuoteNumber      string
	BalanceFormatted string
	DueDate          string
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

func formatCurrencyUSD(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
