// Package notification delivers emails in response to domain events.
// It subscribes to the event bus and inverts the dependency: domain
// modules never talk to mail providers or templates directly.
//
// Every handler runs after the triggering transaction has committed, and
// no delivery failure is ever surfaced to the request that caused it.
package notification

import (
	"context"
	"fmt"
	"time"

	"marketplace_backend/internal/email"
	"marketplace_backend/internal/events"
	"marketplace_backend/internal/quotes/domain"
	"marketplace_backend/internal/scheduler"
	"marketplace_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const dateFormat = "January 2, 2006"

// Module subscribes to domain events and sends the corresponding mail.
type Module struct {
	sender    email.Sender
	reminders scheduler.ReminderScheduler
	log       *logger.Logger
	baseURL   string
}

// New creates the notification module. reminders may be nil when no
// background worker is configured; deposit reminders are then skipped.
func New(sender email.Sender, reminders scheduler.ReminderScheduler, log *logger.Logger, baseURL string) *Module {
	return &Module{
		sender:    sender,
		reminders: reminders,
		log:       log,
		baseURL:   baseURL,
	}
}

// RegisterSubscribers wires the module into the event bus.
func (m *Module) RegisterSubscribers(bus events.Bus) {
	bus.Subscribe(events.QuoteSent{}.EventName(), m.handleQuoteSent)
	bus.Subscribe(events.QuoteDeclined{}.EventName(), m.handleQuoteDeclined)
	bus.Subscribe(events.QuoteCancelled{}.EventName(), m.handleQuoteCancelled)
	bus.Subscribe(events.BookingCreated{}.EventName(), m.handleBookingCreated)
	bus.Subscribe(events.BookingStatusChanged{}.EventName(), m.handleBookingStatusChanged)
}

func (m *Module) handleQuoteSent(ctx context.Context, e events.Event) error {
	event, ok := e.(events.QuoteSent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	if event.ClientEmail == "" {
		m.log.Warn("quote sent without client email, skipping notification", "quoteId", event.QuoteID)
		return nil
	}

	validUntil := ""
	if !event.ValidUntil.IsZero() {
		validUntil = event.ValidUntil.Format(dateFormat)
	}
	quoteURL := fmt.Sprintf("%s/quotes/%s", m.baseURL, event.QuoteID)

	if err := m.sender.SendQuoteSentEmail(ctx, event.ClientEmail, event.ClientName, event.VendorName, event.QuoteNumber, event.TotalCents, validUntil, quoteURL); err != nil {
		m.log.NotificationError("email", event.ClientEmail, err)
	}
	return nil
}

func (m *Module) handleQuoteDeclined(ctx context.Context, e events.Event) error {
	event, ok := e.(events.QuoteDeclined)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	if event.VendorEmail == "" {
		return nil
	}

	if err := m.sender.SendQuoteDeclinedEmail(ctx, event.VendorEmail, event.VendorName, event.QuoteNumber, event.Reason); err != nil {
		m.log.NotificationError("email", event.VendorEmail, err)
	}
	return nil
}

func (m *Module) handleQuoteCancelled(ctx context.Context, e events.Event) error {
	event, ok := e.(events.QuoteCancelled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	if event.ClientEmail == "" {
		return nil
	}

	if err := m.sender.SendQuoteCancelledEmail(ctx, event.ClientEmail, event.ClientName, event.VendorName, event.QuoteNumber); err != nil {
		m.log.NotificationError("email", event.ClientEmail, err)
	}
	return nil
}

// handleBookingCreated dispatches booking confirmations. Only cash on
// delivery bookings are confirmed here; for payment-backed modes the
// confirmation waits for the external payment-completion event, and a
// deposit booking additionally gets its balance reminder scheduled.
func (m *Module) handleBookingCreated(ctx context.Context, e events.Event) error {
	event, ok := e.(events.BookingCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	if event.PaymentMode != string(domain.PaymentModeCOD) {
		m.scheduleBalanceReminder(ctx, event)
		m.log.Info("booking confirmation deferred until payment",
			"bookingId", event.BookingID, "paymentMode", event.PaymentMode)
		return nil
	}

	eventDate := ""
	if !event.EventDate.IsZero() {
		eventDate = event.EventDate.Format(dateFormat)
	}

	// The two confirmations are independent: either may fail without
	// affecting the other, and neither failure reaches the caller.
	var g errgroup.Group
	g.Go(func() error {
		if event.ClientEmail == "" {
			return nil
		}
		if err := m.sender.SendBookingConfirmedClientEmail(ctx, event.ClientEmail, event.ClientName, event.VendorName, event.QuoteNumber, event.TotalCents, eventDate); err != nil {
			m.log.NotificationError("email", event.ClientEmail, err)
		}
		return nil
	})
	g.Go(func() error {
		if event.VendorEmail == "" {
			return nil
		}
		if err := m.sender.SendBookingConfirmedVendorEmail(ctx, event.VendorEmail, event.VendorName, event.ClientName, event.QuoteNumber, event.TotalCents, eventDate); err != nil {
			m.log.NotificationError("email", event.VendorEmail, err)
		}
		return nil
	})
	return g.Wait()
}

func (m *Module) handleBookingStatusChanged(ctx context.Context, e events.Event) error {
	event, ok := e.(events.BookingStatusChanged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	if event.ClientEmail == "" {
		return nil
	}

	// Intermediate states are not interesting to the client.
	if event.NewStatus != "Confirmed" && event.NewStatus != "Cancelled" {
		return nil
	}

	subject := fmt.Sprintf("Your booking is now %s", event.NewStatus)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your booking with %s moved from %s to %s.</p>",
		event.ClientName, event.VendorName, event.OldStatus, event.NewStatus)
	if err := m.sender.SendCustomEmail(ctx, event.ClientEmail, subject, body); err != nil {
		m.log.NotificationError("email", event.ClientEmail, err)
	}
	return nil
}

// scheduleBalanceReminder enqueues the balance-due reminder for deposit
// bookings. Scheduling failures are logged and dropped; the booking is
// already committed and must not be affected.
func (m *Module) scheduleBalanceReminder(ctx context.Context, event events.BookingCreated) {
	if m.reminders == nil || event.PaymentMode != string(domain.PaymentModeDeposit) {
		return
	}
	if event.BalanceDue == nil || event.BalanceCents == nil || event.ClientEmail == "" {
		return
	}

	payload := scheduler.BalanceReminderPayload{
		BookingID:    event.BookingID.String(),
		QuoteNumber:  event.QuoteNumber,
		ClientName:   event.ClientName,
		ClientEmail:  event.ClientEmail,
		BalanceCents: *event.BalanceCents,
		DueDate:      event.BalanceDue.Format(dateFormat),
	}
	// Remind three days before the balance is due, or immediately when
	// the window is already shorter than that.
	runAt := event.BalanceDue.AddDate(0, 0, -3)
	if runAt.Before(time.Now()) {
		runAt = time.Now()
	}

	if err := m.reminders.ScheduleBalanceReminder(ctx, payload, runAt); err != nil {
		m.log.Error("failed to schedule balance reminder", "bookingId", event.BookingID, "error", err)
	}
}
