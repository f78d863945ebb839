package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP
// connection via go-mail. It renders the same HTML templates as
// BrevoSender but delivers through the operator's own SMTP server.
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

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

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

func (s *SMTPSender) SendQuoteSentEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string, totalCents int64, validUntil, quoteURL string) error {
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
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendQuoteDeclinedEmail(ctx context.Context, toEmail, vendorName, quoteNumber, reason string) error {
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
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendQuoteCancelledEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string) error {
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
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendBookingConfirmedClientEmail(ctx context.Context, toEmail, clientName, vendorName, quoteNumber string, totalCents int64, eventDate string) error {
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
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendBookingConfirmedVendorEmail(ctx context.Context, toEmail, vendorName, clientName, quoteNumber string, totalCents int64, eventDate string) error {
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
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendBalanceReminderEmail(ctx context.Context, toEmail, clientName, quoteNumber string, balanceCents int64, dueDate string) error {
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
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
