package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace_backend/internal/events"
	"marketplace_backend/internal/scheduler"
	"marketplace_backend/platform/logger"

	"github.com/google/uuid"
)

type sentMail struct {
	kind    string
	to      string
	subject string
}

type fakeSender struct {
	sent     []sentMail
	failKind string // deliveries of this kind return an error
}

func (f *fakeSender) record(kind, to string) error {
	f.sent = append(f.sent, sentMail{kind: kind, to: to})
	if f.failKind == kind {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (f *fakeSender) SendQuoteSentEmail(_ context.Context, to, _, _, _ string, _ int64, _, _ string) error {
	return f.record("quote_sent", to)
}

func (f *fakeSender) SendQuoteDeclinedEmail(_ context.Context, to, _, _, _ string) error {
	return f.record("quote_declined", to)
}

func (f *fakeSender) SendQuoteCancelledEmail(_ context.Context, to, _, _, _ string) error {
	return f.record("quote_cancelled", to)
}

func (f *fakeSender) SendBookingConfirmedClientEmail(_ context.Context, to, _, _, _ string, _ int64, _ string) error {
	return f.record("booking_client", to)
}

func (f *fakeSender) SendBookingConfirmedVendorEmail(_ context.Context, to, _, _, _ string, _ int64, _ string) error {
	return f.record("booking_vendor", to)
}

func (f *fakeSender) SendBalanceReminderEmail(_ context.Context, to, _, _ string, _ int64, _ string) error {
	return f.record("balance_reminder", to)
}

func (f *fakeSender) SendCustomEmail(_ context.Context, to, subject, _ string) error {
	f.sent = append(f.sent, sentMail{kind: "custom", to: to, subject: subject})
	return nil
}

func (f *fakeSender) byKind(kind string) []sentMail {
	var out []sentMail
	for _, m := range f.sent {
		if m.kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type fakeReminders struct {
	scheduled []scheduler.BalanceReminderPayload
	runAt     []time.Time
}

func (f *fakeReminders) ScheduleBalanceReminder(_ context.Context, payload scheduler.BalanceReminderPayload, runAt time.Time) error {
	f.scheduled = append(f.scheduled, payload)
	f.runAt = append(f.runAt, runAt)
	return nil
}

func codBookingCreated() events.BookingCreated {
	return events.BookingCreated{
		BaseEvent:   events.NewBaseEvent(),
		BookingID:   uuid.New(),
		QuoteID:     uuid.New(),
		VendorID:    uuid.New(),
		QuoteNumber: "QUO-2026-0007",
		PaymentMode: "CASH_ON_DELIVERY",
		Status:      "Confirmed",
		TotalCents:  120000,
		EventDate:   time.Date(2026, 11, 21, 0, 0, 0, 0, time.UTC),
		ClientName:  "Dana Whitfield",
		ClientEmail: "dana@example.com",
		VendorName:  "Petal & Plate Catering",
		VendorEmail: "bookings@petalandplate.example",
	}
}

func newModule(sender *fakeSender, reminders scheduler.ReminderScheduler) *Module {
	return New(sender, reminders, logger.New("test"), "https://app.example.com")
}

func TestBookingCreated_CashOnDeliverySendsBothConfirmations(t *testing.T) {
	sender := &fakeSender{}
	m := newModule(sender, nil)

	if err := m.handleBookingCreated(context.Background(), codBookingCreated()); err != nil {
		t.Fatalf("handleBookingCreated: %v", err)
	}

	if got := sender.byKind("booking_client"); len(got) != 1 || got[0].to != "dana@example.com" {
		t.Errorf("client confirmations = %v", got)
	}
	if got := sender.byKind("booking_vendor"); len(got) != 1 || got[0].to != "bookings@petalandplate.example" {
		t.Errorf("vendor confirmations = %v", got)
	}
}

func TestBookingCreated_OneFailureDoesNotStopTheOther(t *testing.T) {
	sender := &fakeSender{failKind: "booking_client"}
	m := newModule(sender, nil)

	if err := m.handleBookingCreated(context.Background(), codBookingCreated()); err != nil {
		t.Fatalf("delivery failure must not propagate: %v", err)
	}

	if len(sender.byKind("booking_client")) != 1 {
		t.Error("client delivery was not attempted")
	}
	if len(sender.byKind("booking_vendor")) != 1 {
		t.Error("vendor delivery must still be attempted when the client send fails")
	}
}

func TestBookingCreated_PaymentModesDeferConfirmation(t *testing.T) {
	for _, mode := range []string{"FULL_PAYMENT", "DEPOSIT_BALANCE"} {
		t.Run(mode, func(t *testing.T) {
			sender := &fakeSender{}
			m := newModule(sender, nil)

			event := codBookingCreated()
			event.PaymentMode = mode
			event.Status = "PendingPayment"

			if err := m.handleBookingCreated(context.Background(), event); err != nil {
				t.Fatalf("handleBookingCreated: %v", err)
			}
			if len(sender.sent) != 0 {
				t.Errorf("no mail may be sent before payment completes, got %v", sender.sent)
			}
		})
	}
}

func TestBookingCreated_DepositSchedulesBalanceReminder(t *testing.T) {
	sender := &fakeSender{}
	reminders := &fakeReminders{}
	m := newModule(sender, reminders)

	balance := int64(27500)
	due := time.Now().AddDate(0, 0, 14)
	event := codBookingCreated()
	event.PaymentMode = "DEPOSIT_BALANCE"
	event.Status = "PendingPayment"
	event.BalanceCents = &balance
	event.BalanceDue = &due

	if err := m.handleBookingCreated(context.Background(), event); err != nil {
		t.Fatalf("handleBookingCreated: %v", err)
	}

	if len(reminders.scheduled) != 1 {
		t.Fatalf("scheduled %d reminders, want 1", len(reminders.scheduled))
	}
	payload := reminders.scheduled[0]
	if payload.BalanceCents != balance {
		t.Errorf("reminder balance = %d, want %d", payload.BalanceCents, balance)
	}
	if payload.ClientEmail != "dana@example.com" {
		t.Errorf("reminder recipient = %q", payload.ClientEmail)
	}
	if !reminders.runAt[0].Before(due) {
		t.Error("reminder must run before the balance is due")
	}
}

func TestBookingCreated_FullPaymentSchedulesNothing(t *testing.T) {
	reminders := &fakeReminders{}
	m := newModule(&fakeSender{}, reminders)

	event := codBookingCreated()
	event.PaymentMode = "FULL_PAYMENT"
	event.Status = "PendingPayment"

	if err := m.handleBookingCreated(context.Background(), event); err != nil {
		t.Fatalf("handleBookingCreated: %v", err)
	}
	if len(reminders.scheduled) != 0 {
		t.Errorf("full payment must not schedule a reminder, got %v", reminders.scheduled)
	}
}

func TestQuoteSentNotifiesClient(t *testing.T) {
	sender := &fakeSender{}
	m := newModule(sender, nil)

	event := events.QuoteSent{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     uuid.New(),
		VendorID:    uuid.New(),
		QuoteNumber: "QUO-2026-0010",
		TotalCents:  55000,
		ClientName:  "Dana Whitfield",
		ClientEmail: "dana@example.com",
		VendorName:  "Petal & Plate Catering",
	}
	if err := m.handleQuoteSent(context.Background(), event); err != nil {
		t.Fatalf("handleQuoteSent: %v", err)
	}

	if got := sender.byKind("quote_sent"); len(got) != 1 || got[0].to != "dana@example.com" {
		t.Errorf("quote sent mail = %v", got)
	}
}

func TestQuoteSentWithoutRecipientIsSkipped(t *testing.T) {
	sender := &fakeSender{}
	m := newModule(sender, nil)

	event := events.QuoteSent{BaseEvent: events.NewBaseEvent(), QuoteID: uuid.New()}
	if err := m.handleQuoteSent(context.Background(), event); err != nil {
		t.Fatalf("handleQuoteSent: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("no recipient means no delivery attempt, got %v", sender.sent)
	}
}

func TestStatusChangeNotifiesClientOnCancellation(t *testing.T) {
	sender := &fakeSender{}
	m := newModule(sender, nil)

	event := events.BookingStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		BookingID:   uuid.New(),
		OldStatus:   "Confirmed",
		NewStatus:   "Cancelled",
		ClientName:  "Dana Whitfield",
		ClientEmail: "dana@example.com",
		VendorName:  "Petal & Plate Catering",
	}
	if err := m.handleBookingStatusChanged(context.Background(), event); err != nil {
		t.Fatalf("handleBookingStatusChanged: %v", err)
	}
	if got := sender.byKind("custom"); len(got) != 1 {
		t.Fatalf("custom mails = %v", got)
	}

	event.OldStatus = "Confirmed"
	event.NewStatus = "Completed"
	if err := m.handleBookingStatusChanged(context.Background(), event); err != nil {
		t.Fatalf("handleBookingStatusChanged: %v", err)
	}
	if got := sender.byKind("custom"); len(got) != 1 {
		t.Error("completion must not mail the client")
	}
}

func TestRegisterSubscribersDeliversThroughBus(t *testing.T) {
	sender := &fakeSender{}
	m := newModule(sender, nil)

	bus := events.NewInMemoryBus(logger.New("test"))
	m.RegisterSubscribers(bus)

	if err := bus.PublishSync(context.Background(), codBookingCreated()); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Errorf("sent %d mails through the bus, want 2", len(sender.sent))
	}
}
