package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace_backend/internal/access"
	"marketplace_backend/internal/bookings/domain"
	"marketplace_backend/internal/bookings/repository"
	"marketplace_backend/internal/bookings/transport"
	"marketplace_backend/internal/events"
	qdomain "marketplace_backend/internal/quotes/domain"
	qservice "marketplace_backend/internal/quotes/service"
	"marketplace_backend/platform/apperr"

	"github.com/google/uuid"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeQuotes struct {
	view            *qservice.AcceptanceView
	viewErr         error
	reread          *qservice.AcceptanceView
	rereadErr       error
	calls           int
	markExpiredIDs  []uuid.UUID
	markExpiredFail error
}

func (f *fakeQuotes) AcceptanceView(_ context.Context, id uuid.UUID) (*qservice.AcceptanceView, error) {
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	f.calls++
	if f.calls > 1 {
		if f.rereadErr != nil {
			return nil, f.rereadErr
		}
		if f.reread != nil {
			return f.reread, nil
		}
	}
	return f.view, nil
}

func (f *fakeQuotes) MarkExpired(_ context.Context, id uuid.UUID) error {
	f.markExpiredIDs = append(f.markExpiredIDs, id)
	return f.markExpiredFail
}

type fakeVendors struct{}

func (fakeVendors) VendorContact(context.Context, uuid.UUID) (string, string, error) {
	return "Petal & Plate Catering", "bookings@petalandplate.example", nil
}

type fakeStore struct {
	convertParams *repository.ConvertParams
	convertErr    error
	booking       *repository.Booking
	events        []repository.BookingEvent
	statusFrom    domain.Status
	statusTo      domain.Status
}

func (f *fakeStore) ConvertQuote(_ context.Context, params repository.ConvertParams) (*repository.Booking, error) {
	f.convertParams = &params
	if f.convertErr != nil {
		return nil, f.convertErr
	}
	b := params.Booking
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	return &b, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID, vendorID, clientID *uuid.UUID) (*repository.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, apperr.NotFound("booking not found")
	}
	if vendorID != nil && f.booking.VendorID != *vendorID {
		return nil, apperr.NotFound("booking not found")
	}
	if clientID != nil && (f.booking.ClientUserID == nil || *f.booking.ClientUserID != *clientID) {
		return nil, apperr.NotFound("booking not found")
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeStore) List(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	var items []repository.Booking
	if f.booking != nil {
		items = append(items, *f.booking)
	}
	return &repository.ListResult{Items: items, Total: len(items), Page: params.Page, PageSize: params.PageSize, TotalPages: 1}, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.Status, note *string) error {
	f.statusFrom = from
	f.statusTo = to
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context, bookingID uuid.UUID) ([]repository.BookingEvent, error) {
	return f.events, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, e events.Event)           { f.published = append(f.published, e) }
func (f *fakeBus) PublishSync(_ context.Context, e events.Event) error { f.published = append(f.published, e); return nil }
func (f *fakeBus) Subscribe(string, events.Handler)                    {}

// ── Helpers ───────────────────────────────────────────────────────────────────

func sentView(t *testing.T) *qservice.AcceptanceView {
	t.Helper()
	validUntil := time.Now().Add(72 * time.Hour)
	inquiryID := uuid.New()
	return &qservice.AcceptanceView{
		ID:                uuid.New(),
		VendorID:          uuid.New(),
		InquiryID:         &inquiryID,
		QuoteNumber:       "QUO-2026-0042",
		Status:            qdomain.StatusSent,
		AllowedModes:      qdomain.AllPaymentModes,
		DepositPercentage: 50,
		ValidUntil:        &validUntil,
		TotalCents:        55000,
	}
}

func acceptRequest(mode string) transport.AcceptQuoteRequest {
	eventDate := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	guests := 80
	return transport.AcceptQuoteRequest{
		PaymentMode: mode,
		ClientName:  "Dana Whitfield",
		ClientEmail: "dana@example.com",
		ClientPhone: "+14155550123",
		EventDate:   &eventDate,
		GuestCount:  &guests,
	}
}

func newService(quotes *fakeQuotes, store *fakeStore, bus *fakeBus) *Service {
	return New(store, quotes, fakeVendors{}, bus)
}

func assertReason(t *testing.T, err error, kind apperr.Kind, message string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Errorf("kind = %v, want %v", appErr.Kind, kind)
	}
	if appErr.Message != message {
		t.Errorf("message = %q, want %q", appErr.Message, message)
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAcceptQuote_CashOnDelivery(t *testing.T) {
	quotes := &fakeQuotes{view: sentView(t)}
	store := &fakeStore{}
	bus := &fakeBus{}
	svc := newService(quotes, store, bus)
	clientID := uuid.New()

	booking, err := svc.AcceptQuote(context.Background(), access.Client(clientID), quotes.view.ID, acceptRequest("CASH_ON_DELIVERY"))
	if err != nil {
		t.Fatalf("AcceptQuote: %v", err)
	}

	if booking.Status != string(domain.StatusConfirmed) {
		t.Errorf("status = %q, want Confirmed", booking.Status)
	}
	if booking.DepositCents != nil || booking.BalanceCents != nil || booking.BalanceDue != nil {
		t.Error("cash on delivery must not produce a payment split")
	}
	if booking.TotalCents != 55000 {
		t.Errorf("total = %d, want 55000", booking.TotalCents)
	}

	if store.convertParams == nil {
		t.Fatal("ConvertQuote was not called")
	}
	if store.convertParams.InquiryStatus != "Accepted" {
		t.Errorf("inquiry status = %q, want Accepted", store.convertParams.InquiryStatus)
	}
	if got := store.convertParams.Booking.ClientUserID; got == nil || *got != clientID {
		t.Error("booking should snapshot the accepting client's user id")
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	created, ok := bus.published[0].(events.BookingCreated)
	if !ok {
		t.Fatalf("published event is %T, want BookingCreated", bus.published[0])
	}
	if created.PaymentMode != "CASH_ON_DELIVERY" {
		t.Errorf("event payment mode = %q", created.PaymentMode)
	}
	if created.VendorEmail == "" || created.ClientEmail == "" {
		t.Error("event must carry both contact snapshots")
	}
	if created.QuoteNumber != "QUO-2026-0042" {
		t.Errorf("event quote number = %q", created.QuoteNumber)
	}
}

func TestAcceptQuote_DepositBalanceSplit(t *testing.T) {
	quotes := &fakeQuotes{view: sentView(t)}
	store := &fakeStore{}
	svc := newService(quotes, store, &fakeBus{})

	req := acceptRequest("DEPOSIT_BALANCE")
	booking, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), quotes.view.ID, req)
	if err != nil {
		t.Fatalf("AcceptQuote: %v", err)
	}

	if booking.Status != string(domain.StatusPendingPayment) {
		t.Errorf("status = %q, want PendingPayment", booking.Status)
	}
	if booking.DepositCents == nil || *booking.DepositCents != 27500 {
		t.Errorf("deposit = %v, want 27500", booking.DepositCents)
	}
	if booking.BalanceCents == nil || *booking.BalanceCents != 27500 {
		t.Errorf("balance = %v, want 27500", booking.BalanceCents)
	}
	wantDue := req.EventDate.AddDate(0, 0, 7)
	if booking.BalanceDue == nil || !booking.BalanceDue.Equal(wantDue) {
		t.Errorf("balance due = %v, want %v", booking.BalanceDue, wantDue)
	}
}

func TestAcceptQuote_FullPaymentHasNoSplit(t *testing.T) {
	quotes := &fakeQuotes{view: sentView(t)}
	svc := newService(quotes, &fakeStore{}, &fakeBus{})

	booking, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), quotes.view.ID, acceptRequest("FULL_PAYMENT"))
	if err != nil {
		t.Fatalf("AcceptQuote: %v", err)
	}
	if booking.Status != string(domain.StatusPendingPayment) {
		t.Errorf("status = %q, want PendingPayment", booking.Status)
	}
	if booking.DepositCents != nil || booking.BalanceCents != nil {
		t.Error("full payment must not produce a payment split")
	}
}

func TestAcceptQuote_PreconditionFailures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(v *qservice.AcceptanceView)
		mode    string
		kind    apperr.Kind
		message string
	}{
		{
			name:    "draft quote",
			mutate:  func(v *qservice.AcceptanceView) { v.Status = qdomain.StatusDraft },
			mode:    "FULL_PAYMENT",
			kind:    apperr.KindBadRequest,
			message: "quote has not been sent yet",
		},
		{
			name:    "already accepted",
			mutate:  func(v *qservice.AcceptanceView) { v.Status = qdomain.StatusAccepted },
			mode:    "FULL_PAYMENT",
			kind:    apperr.KindConflict,
			message: "quote has already been accepted",
		},
		{
			name:    "declined",
			mutate:  func(v *qservice.AcceptanceView) { v.Status = qdomain.StatusDeclined },
			mode:    "FULL_PAYMENT",
			kind:    apperr.KindBadRequest,
			message: "quote has been declined",
		},
		{
			name:    "cancelled",
			mutate:  func(v *qservice.AcceptanceView) { v.Status = qdomain.StatusCancelled },
			mode:    "FULL_PAYMENT",
			kind:    apperr.KindBadRequest,
			message: "quote has been cancelled",
		},
		{
			name: "past validity deadline",
			mutate: func(v *qservice.AcceptanceView) {
				past := time.Now().Add(-time.Hour)
				v.ValidUntil = &past
			},
			mode:    "FULL_PAYMENT",
			kind:    apperr.KindGone,
			message: "quote has expired",
		},
		{
			name: "payment mode not allowed",
			mutate: func(v *qservice.AcceptanceView) {
				v.AllowedModes = []qdomain.PaymentMode{qdomain.PaymentModeFull}
			},
			mode:    "CASH_ON_DELIVERY",
			kind:    apperr.KindBadRequest,
			message: "payment mode not allowed for this quote",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := sentView(t)
			tc.mutate(view)
			quotes := &fakeQuotes{view: view}
			store := &fakeStore{}
			svc := newService(quotes, store, &fakeBus{})

			_, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), view.ID, acceptRequest(tc.mode))
			assertReason(t, err, tc.kind, tc.message)
			if store.convertParams != nil {
				t.Error("no transaction may run after a failed precondition")
			}
		})
	}
}

func TestAcceptQuote_LazyExpiryIsPersisted(t *testing.T) {
	view := sentView(t)
	past := time.Now().Add(-time.Minute)
	view.ValidUntil = &past
	quotes := &fakeQuotes{view: view}
	svc := newService(quotes, &fakeStore{}, &fakeBus{})

	_, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), view.ID, acceptRequest("FULL_PAYMENT"))
	assertReason(t, err, apperr.KindGone, "quote has expired")

	if len(quotes.markExpiredIDs) != 1 || quotes.markExpiredIDs[0] != view.ID {
		t.Errorf("expiry observed at acceptance must be written back, got %v", quotes.markExpiredIDs)
	}
}

func TestAcceptQuote_AlreadyExpiredStatusIsNotRewritten(t *testing.T) {
	view := sentView(t)
	view.Status = qdomain.StatusExpired
	quotes := &fakeQuotes{view: view}
	svc := newService(quotes, &fakeStore{}, &fakeBus{})

	_, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), view.ID, acceptRequest("FULL_PAYMENT"))
	assertReason(t, err, apperr.KindGone, "quote has expired")

	if len(quotes.markExpiredIDs) != 0 {
		t.Error("a quote already stored as Expired needs no write-back")
	}
}

func TestAcceptQuote_VendorCannotAccept(t *testing.T) {
	quotes := &fakeQuotes{view: sentView(t)}
	svc := newService(quotes, &fakeStore{}, &fakeBus{})

	_, err := svc.AcceptQuote(context.Background(), access.Vendor(quotes.view.VendorID), quotes.view.ID, acceptRequest("FULL_PAYMENT"))
	assertReason(t, err, apperr.KindForbidden, "vendors cannot accept their own quotes")
}

func TestAcceptQuote_DuplicateBookingConflict(t *testing.T) {
	quotes := &fakeQuotes{view: sentView(t)}
	store := &fakeStore{convertErr: apperr.Conflict("a booking already exists for this quote")}
	bus := &fakeBus{}
	svc := newService(quotes, store, bus)

	_, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), quotes.view.ID, acceptRequest("FULL_PAYMENT"))
	assertReason(t, err, apperr.KindConflict, "a booking already exists for this quote")

	if len(bus.published) != 0 {
		t.Error("no event may be published when the transaction fails")
	}
}

// A quote can stop being Sent between the precondition check and the guarded
// update. The service re-reads the quote and reports the status it actually
// landed in, not a blanket "already accepted".
func TestAcceptQuote_LostRace(t *testing.T) {
	t.Run("to a concurrent acceptance", func(t *testing.T) {
		accepted := sentView(t)
		accepted.Status = qdomain.StatusAccepted
		quotes := &fakeQuotes{view: sentView(t), reread: accepted}
		store := &fakeStore{convertErr: repository.ErrQuoteNotSent}
		bus := &fakeBus{}
		svc := newService(quotes, store, bus)

		_, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), quotes.view.ID, acceptRequest("FULL_PAYMENT"))
		assertReason(t, err, apperr.KindConflict, "quote has already been accepted")

		if len(bus.published) != 0 {
			t.Error("no event may be published when the conversion fails")
		}
	})

	t.Run("to a concurrent decline", func(t *testing.T) {
		declined := sentView(t)
		declined.Status = qdomain.StatusDeclined
		quotes := &fakeQuotes{view: sentView(t), reread: declined}
		store := &fakeStore{convertErr: repository.ErrQuoteNotSent}
		bus := &fakeBus{}
		svc := newService(quotes, store, bus)

		_, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), quotes.view.ID, acceptRequest("FULL_PAYMENT"))
		assertReason(t, err, apperr.KindBadRequest, "quote has been declined")

		if len(bus.published) != 0 {
			t.Error("no event may be published when the conversion fails")
		}
	})

	t.Run("re-read failure keeps the conservative answer", func(t *testing.T) {
		quotes := &fakeQuotes{view: sentView(t), rereadErr: apperr.Internal("db down")}
		store := &fakeStore{convertErr: repository.ErrQuoteNotSent}
		svc := newService(quotes, store, &fakeBus{})

		_, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), quotes.view.ID, acceptRequest("FULL_PAYMENT"))
		assertReason(t, err, apperr.KindConflict, "quote has already been accepted")
	})
}

func TestAcceptQuote_QuoteNotFound(t *testing.T) {
	quotes := &fakeQuotes{viewErr: apperr.NotFound("quote not found")}
	svc := newService(quotes, &fakeStore{}, &fakeBus{})

	_, err := svc.AcceptQuote(context.Background(), access.Client(uuid.New()), uuid.New(), acceptRequest("FULL_PAYMENT"))
	assertReason(t, err, apperr.KindNotFound, "quote not found")
}

func TestUpdateStatus(t *testing.T) {
	vendorID := uuid.New()
	booking := &repository.Booking{
		ID:          uuid.New(),
		QuoteID:     uuid.New(),
		VendorID:    vendorID,
		ClientName:  "Dana Whitfield",
		ClientEmail: "dana@example.com",
		PaymentMode: "CASH_ON_DELIVERY",
		Status:      string(domain.StatusConfirmed),
	}

	t.Run("vendor completes a confirmed booking", func(t *testing.T) {
		store := &fakeStore{booking: booking}
		bus := &fakeBus{}
		svc := newService(&fakeQuotes{}, store, bus)

		result, err := svc.UpdateStatus(context.Background(), access.Vendor(vendorID), booking.ID, transport.UpdateBookingStatusRequest{Status: "Completed"})
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if result.Status != string(domain.StatusCompleted) {
			t.Errorf("status = %q, want Completed", result.Status)
		}
		if store.statusFrom != domain.StatusConfirmed || store.statusTo != domain.StatusCompleted {
			t.Errorf("store saw %s -> %s", store.statusFrom, store.statusTo)
		}
		if len(bus.published) != 1 {
			t.Fatalf("published %d events, want 1", len(bus.published))
		}
		if _, ok := bus.published[0].(events.BookingStatusChanged); !ok {
			t.Errorf("published event is %T, want BookingStatusChanged", bus.published[0])
		}
	})

	t.Run("illegal transition is rejected", func(t *testing.T) {
		completed := *booking
		completed.Status = string(domain.StatusCompleted)
		store := &fakeStore{booking: &completed}
		svc := newService(&fakeQuotes{}, store, &fakeBus{})

		_, err := svc.UpdateStatus(context.Background(), access.Vendor(vendorID), booking.ID, transport.UpdateBookingStatusRequest{Status: "Cancelled"})
		assertReason(t, err, apperr.KindConflict, "booking cannot move from Completed to Cancelled")
	})

	t.Run("client cannot update", func(t *testing.T) {
		store := &fakeStore{booking: booking}
		svc := newService(&fakeQuotes{}, store, &fakeBus{})

		_, err := svc.UpdateStatus(context.Background(), access.Client(uuid.New()), booking.ID, transport.UpdateBookingStatusRequest{Status: "Completed"})
		assertReason(t, err, apperr.KindForbidden, "only the vendor can update a booking")
	})

	t.Run("another vendor's booking is invisible", func(t *testing.T) {
		store := &fakeStore{booking: booking}
		svc := newService(&fakeQuotes{}, store, &fakeBus{})

		_, err := svc.UpdateStatus(context.Background(), access.Vendor(uuid.New()), booking.ID, transport.UpdateBookingStatusRequest{Status: "Completed"})
		assertReason(t, err, apperr.KindNotFound, "booking not found")
	})
}
