// Package email delivers transactional mail for the marketplace: quote
// lifecycle notices and booking confirmations. Delivery always happens
// after the triggering transaction has committed.
package email

import "context"

// Sender is the outbound mail interface. Implementations render the
// shared HTML templates and differ only in transport.
type Sender interface {
	SendQuoteSentEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string, totalCents int64, validUntil, quoteURL string) error
	SendQuoteDeclinedEmail(ctx context.Context, toEmail, vendorName, quoteNumber, reason string) error
	SendQuoteCancelledEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string) error
	SendBookingConfirmedClientEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string, totalCents int64, eventDate string) error
	SendBookingConfirmedVendorEmail(ctx context.Context, toEmail, vendorName, clientName, quoteNumber string, totalCents int64, eventDate string) error
	SendBalanceReminderEmail(ctx context.Context, toEmail, clientName, quoteNumber string, balanceCents int64, dueDate string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender drops every message. Used in development when no mail
// transport is configured.
type NoopSender struct{}

func (NoopSender) SendQuoteSentEmail(context.Context, string, string, string, string, int64, string, string) error {
	return nil
}

func (NoopSender) SendQuoteDeclinedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendQuoteCancelledEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendBookingConfirmedClientEmail(context.Context, string, string, string, string, int64, string) error {
	return nil
}

func (NoopSender) SendBookingConfirmedVendorEmail(context.Context, string, string, string, string, int64, string) error {
	return nil
}

func (NoopSender) SendBalanceReminderEmail(context.Context, string, string, string, int64, string) error {
	return nil
}

func (NoopSender) SendCustomEmail(context.Context, string, string, string) error {
	return nil
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = (*BrevoSender)(nil)
	_ Sender = NoopSender{}
)
