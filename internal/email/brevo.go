package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BrevoSender delivers mail through the Brevo transactional email API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

// NewBrevoSender creates a Brevo-backed sender.
func NewBrevoSender(apiKey, fromEmail, fromName string) *BrevoSender {
	return &BrevoSender{
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *BrevoSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := brevoEmailRequest{
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo send failed with status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}

func (b *BrevoSender) SendQuoteSentEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string, totalCents int64, validUntil, quoteURL string) error {
	subject := fmt.Sprintf(subjectQuoteSentFmt, quoteNumber, vendorName)
	content, err := renderEmailTemplate("quote_sent.html", quoteSentEmailData{
		baseEmailData: baseEmailData{
			Title:    "You have a new quote",
			Heading:  "You have a new quote",
			CTALabel: "View quote",
			CTAURL:   quoteURL,
		},
		ClientName:     clientName,
		VendorName:     vendorName,
		QuoteNumber:    quoteNumber,
		TotalFormatted: formatCurrencyUSD(totalCents),
		ValidUntil:     validUntil,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) SendQuoteDeclinedEmail(ctx context.Context, toEmail, vendorName, quoteNumber, reason string) error {
	subject := fmt.Sprintf(subjectQuoteDeclinedFmt, quoteNumber)
	content, err := renderEmailTemplate("quote_declined.html", quoteDeclinedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Quote declined",
			Heading: "Quote declined",
		},
		VendorName:  vendorName,
		QuoteNumber: quoteNumber,
		Reason:      reason,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) SendQuoteCancelledEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string) error {
	subject := fmt.Sprintf(subjectQuoteCancelledFmt, quoteNumber, vendorName)
	content, err := renderEmailTemplate("quote_cancelled.html", quoteCancelledEmailData{
		baseEmailData: baseEmailData{
			Title:   "Quote withdrawn",
			Heading: "Quote withdrawn",
		},
		ClientName:  clientName,
		VendorName:  vendorName,
		QuoteNumber: quoteNumber,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) SendBookingConfirmedClientEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string, totalCents int64, eventDate string) error {
	subject := fmt.Sprintf(subjectBookingClientFmt, quoteNumber)
	content, err := renderEmailTemplate("booking_confirmed_client.html", bookingConfirmedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Booking confirmed",
			Heading: "Booking confirmed",
		},
		RecipientName:    clientName,
		CounterpartyName: vendorName,
		QuoteNumber:      quoteNumber,
		TotalFormatted:   formatCurrencyUSD(totalCents),
		EventDate:        eventDate,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) SendBookingConfirmedVendorEmail(ctx context.Context, toEmail, vendorName, clientName, quoteNumber string, totalCents int64, eventDate string) error {
	subject := fmt.Sprintf(subjectBookingVendorFmt, quoteNumber)
	content, err := renderEmailTemplate("booking_confirmed_vendor.html", bookingConfirmedEmailData{
		baseEmailData: baseEmailData{
			Title:   "New booking",
			Heading: "New booking",
		},
		RecipientName:    vendorName,
		CounterpartyName: clientName,
		QuoteNumber:      quoteNumber,
		TotalFormatted:   formatCurrencyUSD(totalCents),
		EventDate:        eventDate,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) SendBalanceReminderEmail(ctx context.Context, toEmail, clientName, quoteNumber string, balanceCents int64, dueDate string) error {
	subject := fmt.Sprintf(subjectBalanceReminderFmt, quoteNumber)
	content, err := renderEmailTemplate("balance_reminder.html", balanceReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Balance payment due",
			Heading: "Balance payment due",
		},
		ClientName:       clientName,
		QuoteNumber:      quoteNumber,
		BalanceFormatted: formatCurrencyUSD(balanceCents),
		DueDate:          dueDate,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return b.send(ctx, toEmail, subject, htmlContent)
}
