package service

import (
	"context"
	"errors"
	"time"

	"marketplace_backend/internal/access"
	"marketplace_backend/internal/bookings/domain"
	"marketplace_backend/internal/bookings/repository"
	"marketplace_backend/internal/bookings/transport"
	"marketplace_backend/internal/events"
	inqdomain "marketplace_backend/internal/inquiries/domain"
	qdomain "marketplace_backend/internal/quotes/domain"
	qservice "marketplace_backend/internal/quotes/service"
	"marketplace_backend/platform/apperr"
	"marketplace_backend/platform/phone"
	"marketplace_backend/platform/sanitize"

	"github.com/google/uuid"
)

// QuoteGateway is the narrow interface the conversion flow needs from
// the quotes module. The quotes service satisfies it directly.
type QuoteGateway interface {
	AcceptanceView(ctx context.Context, id uuid.UUID) (*qservice.AcceptanceView, error)
	// MarkExpired records lazy expiry observed during an acceptance attempt.
	MarkExpired(ctx context.Context, id uuid.UUID) error
}

// VendorContacts resolves vendor contact details for notifications.
type VendorContacts interface {
	VendorContact(ctx context.Context, vendorID uuid.UUID) (name, email string, err error)
}

// Store is the persistence surface the bookings service needs. The
// pgx-backed repository implements it; tests substitute a fake.
type Store interface {
	ConvertQuote(ctx context.Context, params repository.ConvertParams) (*repository.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID, vendorID, clientID *uuid.UUID) (*repository.Booking, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, note *string) error
	ListEvents(ctx context.Context, bookingID uuid.UUID) ([]repository.BookingEvent, error)
}

// Service provides business logic for bookings
type Service struct {
	store   Store
	quotes  QuoteGateway
	vendors VendorContacts
	bus     events.Bus
}

// New creates a new bookings service
func New(store Store, quotes QuoteGateway, vendors VendorContacts, bus events.Bus) *Service {
	return &Service{
		store:   store,
		quotes:  quotes,
		vendors: vendors,
		bus:     bus,
	}
}

// AcceptQuote turns a sent quote into a booking. The precondition checks
// run first so every failure carries its own reason; the mutation itself
// is a single transaction in the store, serialized per quote by the
// status guard and the unique constraint on the quote reference.
func (s *Service) AcceptQuote(ctx context.Context, scope access.Scope, quoteID uuid.UUID, req transport.AcceptQuoteRequest) (*transport.BookingResponse, error) {
	if scope.Kind == access.KindVendor {
		return nil, apperr.Forbidden("vendors cannot accept their own quotes")
	}

	view, err := s.quotes.AcceptanceView(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	mode, err := qdomain.ParsePaymentMode(req.PaymentMode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := qdomain.CheckAcceptable(view.Status, view.ValidUntil, now, view.AllowedModes, mode); err != nil {
		// Lazy expiry: the deadline check is the first time anyone
		// notices, so persist the observed state. Best-effort; the
		// caller's rejection stands either way.
		if apperr.Is(err, apperr.KindGone) && view.Status == qdomain.StatusSent {
			_ = s.quotes.MarkExpired(ctx, quoteID)
		}
		return nil, err
	}

	depositCents, balanceCents, balanceDue := qservice.ComputeSplit(view.TotalCents, view.DepositPercentage, mode, req.EventDate)

	status := domain.StatusPendingPayment
	if mode == qdomain.PaymentModeCOD {
		status = domain.StatusConfirmed
	}

	booking := repository.Booking{
		ID:              uuid.New(),
		QuoteID:         view.ID,
		VendorID:        view.VendorID,
		InquiryID:       view.InquiryID,
		ClientName:      sanitize.Text(req.ClientName),
		ClientEmail:     req.ClientEmail,
		ClientPhone:     normalizedPhone(req.ClientPhone),
		EventDate:       req.EventDate,
		EventLocation:   sanitize.TextPtr(nilIfEmpty(req.EventLocation)),
		GuestCount:      req.GuestCount,
		SpecialRequests: sanitize.TextPtr(nilIfEmpty(req.SpecialRequests)),
		PaymentMode:     string(mode),
		TotalCents:      view.TotalCents,
		DepositCents:    depositCents,
		BalanceCents:    balanceCents,
		BalanceDue:      balanceDue,
		Status:          string(status),
	}
	if scope.Kind == access.KindClient {
		clientID := scope.ClientID
		booking.ClientUserID = &clientID
	}

	created, err := s.store.ConvertQuote(ctx, repository.ConvertParams{
		Booking:       booking,
		QuoteID:       view.ID,
		InquiryID:     view.InquiryID,
		VendorID:      view.VendorID,
		InquiryStatus: string(inqdomain.StatusAccepted),
	})
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotSent) {
			return nil, s.classifyLostRace(ctx, quoteID, now, mode, err)
		}
		return nil, err
	}

	s.publishCreated(ctx, created, view.QuoteNumber)

	return buildResponse(created), nil
}

// classifyLostRace turns a guard failure into the specific rejection the
// caller would have seen had it arrived after the racing writer: the
// quote is re-read and the precondition check re-run against its new
// status, so a concurrent decline reports "declined", not "accepted".
func (s *Service) classifyLostRace(ctx context.Context, quoteID uuid.UUID, now time.Time, mode qdomain.PaymentMode, guardErr error) error {
	view, err := s.quotes.AcceptanceView(ctx, quoteID)
	if err != nil {
		return guardErr
	}
	if err := qdomain.CheckAcceptable(view.Status, view.ValidUntil, now, view.AllowedModes, mode); err != nil {
		return err
	}
	return guardErr
}

// GetByID retrieves a booking visible to the caller's scope.
func (s *Service) GetByID(ctx context.Context, scope access.Scope, id uuid.UUID) (*transport.BookingResponse, error) {
	vendorID, clientID := scope.RowFilter()
	booking, err := s.store.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}
	return buildResponse(booking), nil
}

// List retrieves bookings visible to the caller's scope.
func (s *Service) List(ctx context.Context, scope access.Scope, req transport.ListBookingsRequest) (*transport.BookingListResponse, error) {
	vendorID, clientID := scope.RowFilter()
	result, err := s.store.List(ctx, repository.ListParams{
		VendorID:     vendorID,
		ClientUserID: clientID,
		Status:       nilIfEmpty(req.Status),
		Page:         max(req.Page, 1),
		PageSize:     clampPageSize(req.PageSize),
	})
	if err != nil {
		return nil, err
	}

	items := make([]transport.BookingResponse, len(result.Items))
	for i, b := range result.Items {
		items[i] = *buildResponse(&b)
	}

	return &transport.BookingListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// UpdateStatus moves a booking through its lifecycle. Only the vendor
// that owns the booking (or an admin) may do this.
func (s *Service) UpdateStatus(ctx context.Context, scope access.Scope, id uuid.UUID, req transport.UpdateBookingStatusRequest) (*transport.BookingResponse, error) {
	if scope.Kind == access.KindClient {
		return nil, apperr.Forbidden("only the vendor can update a booking")
	}

	vendorID, clientID := scope.RowFilter()
	booking, err := s.store.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(booking.Status)
	to := domain.Status(req.Status)
	if err := from.Transition(to); err != nil {
		return nil, err
	}

	note := nilIfEmpty(req.Note)
	if note != nil {
		note = sanitize.TextPtr(note)
	}
	if err := s.store.UpdateStatus(ctx, id, from, to, note); err != nil {
		return nil, err
	}
	booking.Status = string(to)

	event := events.BookingStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		BookingID:   booking.ID,
		VendorID:    booking.VendorID,
		OldStatus:   string(from),
		NewStatus:   string(to),
		ClientName:  booking.ClientName,
		ClientEmail: booking.ClientEmail,
	}
	if name, email, err := s.vendors.VendorContact(ctx, booking.VendorID); err == nil {
		event.VendorName = name
		event.VendorEmail = email
	}
	s.bus.Publish(ctx, event)

	return buildResponse(booking), nil
}

// Timeline returns a booking's append-only status history.
func (s *Service) Timeline(ctx context.Context, scope access.Scope, id uuid.UUID) ([]transport.BookingEventResponse, error) {
	vendorID, clientID := scope.RowFilter()
	if _, err := s.store.GetByID(ctx, id, vendorID, clientID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]transport.BookingEventResponse, len(entries))
	for i, e := range entries {
		out[i] = transport.BookingEventResponse{
			ID:        e.ID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		}
	}
	return out, nil
}

// publishCreated fires the post-commit booking event. Delivery is the
// notification module's problem; nothing here can fail the request.
func (s *Service) publishCreated(ctx context.Context, b *repository.Booking, quoteNumber string) {
	event := events.BookingCreated{
		BaseEvent:    events.NewBaseEvent(),
		BookingID:    b.ID,
		QuoteID:      b.QuoteID,
		VendorID:     b.VendorID,
		QuoteNumber:  quoteNumber,
		PaymentMode:  b.PaymentMode,
		Status:       b.Status,
		TotalCents:   b.TotalCents,
		DepositCents: b.DepositCents,
		BalanceCents: b.BalanceCents,
		BalanceDue:   b.BalanceDue,
		ClientName:   b.ClientName,
		ClientEmail:  b.ClientEmail,
	}
	if b.InquiryID != nil {
		event.InquiryID = *b.InquiryID
	}
	if b.EventDate != nil {
		event.EventDate = *b.EventDate
	}
	if name, email, err := s.vendors.VendorContact(ctx, b.VendorID); err == nil {
		event.VendorName = name
		event.VendorEmail = email
	}
	s.bus.Publish(ctx, event)
}

func normalizedPhone(raw string) *string {
	if raw == "" {
		return nil
	}
	normalized := phone.NormalizeE164(raw)
	return &normalized
}

func buildResponse(b *repository.Booking) *transport.BookingResponse {
	return &transport.BookingResponse{
		ID:              b.ID,
		QuoteID:         b.QuoteID,
		VendorID:        b.VendorID,
		InquiryID:       b.InquiryID,
		ClientName:      b.ClientName,
		ClientEmail:     b.ClientEmail,
		ClientPhone:     b.ClientPhone,
		EventDate:       b.EventDate,
		EventLocation:   b.EventLocation,
		GuestCount:      b.GuestCount,
		SpecialRequests: b.SpecialRequests,
		PaymentMode:     b.PaymentMode,
		TotalCents:      b.TotalCents,
		DepositCents:    b.DepositCents,
		BalanceCents:    b.BalanceCents,
		BalanceDue:      b.BalanceDue,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clampPageSize(size int) int {
	if size < 1 || size > 100 {
		return 50
	}
	return size
}
