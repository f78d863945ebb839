package service

import (
	"context"
	"fmt"
	"time"

	"marketplace_backend/internal/access"
	"marketplace_backend/internal/events"
	"marketplace_backend/internal/quotes/domain"
	"marketplace_backend/internal/quotes/repository"
	"marketplace_backend/internal/quotes/transport"
	"marketplace_backend/platform/apperr"
	"marketplace_backend/platform/sanitize"

	"github.com/google/uuid"
)

// InquiryLink is the narrow interface the quotes service needs from the
// inquiries module. Implemented by an adapter in internal/adapters.
type InquiryLink interface {
	// VendorOwnsInquiry fails when the inquiry does not exist or belongs
	// to a different vendor.
	VendorOwnsInquiry(ctx context.Context, inquiryID, vendorID uuid.UUID) error
	// MarkQuoted moves a New inquiry to Quoted.
	MarkQuoted(ctx context.Context, inquiryID uuid.UUID) error
	// MarkDeclined mirrors a declined quote onto the linked inquiry.
	MarkDeclined(ctx context.Context, inquiryID uuid.UUID) error
	// InquiryContact returns the client contact for notification events.
	InquiryContact(ctx context.Context, inquiryID uuid.UUID) (name, email string, err error)
}

// VendorDirectory is the narrow interface the quotes service needs from
// the vendors module.
type VendorDirectory interface {
	// VendorContact returns the vendor's display name and email.
	VendorContact(ctx context.Context, vendorID uuid.UUID) (name, email string, err error)
	// IncrementQuoteSent bumps the vendor's sent-quote counter.
	IncrementQuoteSent(ctx context.Context, vendorID uuid.UUID) error
}

// AcceptanceView is the slice of a quote the conversion transaction needs
// to run its precondition checks and compute the payment plan.
type AcceptanceView struct {
	ID                uuid.UUID
	VendorID          uuid.UUID
	InquiryID         *uuid.UUID
	QuoteNumber       string
	Status            domain.Status
	AllowedModes      []domain.PaymentMode
	DepositPercentage int
	ValidUntil        *time.Time
	TotalCents        int64
}

// Service provides business logic for quotes
type Service struct {
	repo         *repository.Repository
	inquiries    InquiryLink
	vendors      VendorDirectory
	bus          events.Bus
	validityDays int
}

// New creates a new quotes service. validityDays is the default validity
// window applied when a quote is created without an explicit deadline.
func New(repo *repository.Repository, inquiries InquiryLink, vendors VendorDirectory, bus events.Bus, validityDays int) *Service {
	return &Service{
		repo:         repo,
		inquiries:    inquiries,
		vendors:      vendors,
		bus:          bus,
		validityDays: validityDays,
	}
}

// Create creates a new quote with line items, computing totals server-side.
// Only the vendor that owns a linked inquiry may quote against it.
func (s *Service) Create(ctx context.Context, scope access.Scope, req transport.CreateQuoteRequest) (*transport.QuoteResponse, error) {
	if scope.Kind != access.KindVendor {
		return nil, apperr.Forbidden("only vendors can create quotes")
	}
	vendorID := scope.VendorID
	if req.InquiryID != nil {
		if err := s.inquiries.VendorOwnsInquiry(ctx, *req.InquiryID, vendorID); err != nil {
			return nil, err
		}
	}

	quoteNumber, err := s.repo.NextQuoteNumber(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("generate quote number: %w", err)
	}

	subtotal, total := ComputeTotals(req.Items, req.TaxCents, req.DiscountCents, req.TotalCents)

	status := domain.StatusDraft
	if req.Status != "" {
		status = domain.Status(req.Status)
	}

	allowedModes := req.AllowedPaymentModes
	if len(allowedModes) == 0 {
		allowedModes = paymentModeStrings(domain.AllPaymentModes)
	}

	validUntil := req.ValidUntil
	if validUntil == nil && s.validityDays > 0 {
		deadline := time.Now().AddDate(0, 0, s.validityDays)
		validUntil = &deadline
	}

	now := time.Now()
	quote := repository.Quote{
		ID:                  uuid.New(),
		VendorID:            vendorID,
		InquiryID:           req.InquiryID,
		QuoteNumber:         quoteNumber,
		Status:              string(status),
		SubtotalCents:       subtotal,
		TaxCents:            req.TaxCents,
		DiscountCents:       req.DiscountCents,
		TotalCents:          total,
		AllowedPaymentModes: allowedModes,
		DepositPercentage:   req.DepositPercentage,
		ValidUntil:          validUntil,
		Notes:               sanitize.TextPtr(nilIfEmpty(req.Notes)),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	items := buildItems(quote.ID, req.Items, now)

	if err := s.repo.CreateWithItems(ctx, &quote, items); err != nil {
		return nil, err
	}

	if status == domain.StatusSent {
		s.afterSend(ctx, &quote)
	}

	return buildResponse(&quote, items), nil
}

// Update edits a draft quote and recomputes its totals.
func (s *Service) Update(ctx context.Context, scope access.Scope, id uuid.UUID, req transport.UpdateQuoteRequest) (*transport.QuoteResponse, error) {
	vendorID, clientID := scope.RowFilter()
	if scope.Kind == access.KindClient {
		return nil, apperr.Forbidden("only the vendor can edit a quote")
	}

	quote, err := s.repo.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}
	if !domain.Status(quote.Status).Editable() {
		return nil, apperr.Conflict("only draft quotes can be edited")
	}

	if req.TaxCents != nil {
		quote.TaxCents = *req.TaxCents
	}
	if req.DiscountCents != nil {
		quote.DiscountCents = *req.DiscountCents
	}
	if req.TotalCents != nil {
		quote.TotalCents = *req.TotalCents
	}
	if req.AllowedPaymentModes != nil {
		quote.AllowedPaymentModes = *req.AllowedPaymentModes
	}
	if req.DepositPercentage != nil {
		quote.DepositPercentage = *req.DepositPercentage
	}
	if req.ValidUntil != nil {
		quote.ValidUntil = req.ValidUntil
	}
	if req.Notes != nil {
		quote.Notes = sanitize.TextPtr(req.Notes)
	}

	now := time.Now()
	var items []repository.QuoteItem
	if req.Items != nil {
		items = buildItems(quote.ID, *req.Items, now)
	} else {
		existing, err := s.repo.GetItemsByQuoteID(ctx, quote.ID)
		if err != nil {
			return nil, err
		}
		items = existing
	}

	quote.SubtotalCents, quote.TotalCents = ComputeTotals(itemRequests(items), quote.TaxCents, quote.DiscountCents, quote.TotalCents)
	quote.UpdatedAt = now

	if err := s.repo.UpdateWithItems(ctx, quote, items, req.Items != nil); err != nil {
		return nil, err
	}

	return buildResponse(quote, items), nil
}

// Send moves a draft quote to Sent and fires its side effects: the linked
// inquiry becomes Quoted, the vendor's sent counter is bumped, and the
// client is notified through the event bus.
func (s *Service) Send(ctx context.Context, scope access.Scope, id uuid.UUID) (*transport.QuoteResponse, error) {
	vendorID, clientID := scope.RowFilter()
	if scope.Kind == access.KindClient {
		return nil, apperr.Forbidden("only the vendor can send a quote")
	}

	quote, err := s.repo.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(quote.Status)
	if err := from.Transition(domain.StatusSent); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, from, domain.StatusSent); err != nil {
		return nil, err
	}
	quote.Status = string(domain.StatusSent)

	s.afterSend(ctx, quote)

	items, err := s.repo.GetItemsByQuoteID(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	return buildResponse(quote, items), nil
}

// Decline lets the client turn down a sent quote.
func (s *Service) Decline(ctx context.Context, scope access.Scope, id uuid.UUID, req transport.DeclineQuoteRequest) (*transport.QuoteResponse, error) {
	vendorID, clientID := scope.RowFilter()
	if scope.Kind == access.KindVendor {
		return nil, apperr.Forbidden("vendors cannot decline their own quote; cancel it instead")
	}

	quote, err := s.repo.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(quote.Status)
	if err := from.Transition(domain.StatusDeclined); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, from, domain.StatusDeclined); err != nil {
		return nil, err
	}
	quote.Status = string(domain.StatusDeclined)

	// Mirror the decline onto the linked inquiry; the quote is already
	// declined, so a failure here only costs the inquiry status.
	if quote.InquiryID != nil {
		_ = s.inquiries.MarkDeclined(ctx, *quote.InquiryID)
	}

	event := events.QuoteDeclined{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		VendorID:    quote.VendorID,
		QuoteNumber: quote.QuoteNumber,
		Reason:      sanitize.Text(req.Reason),
	}
	if quote.InquiryID != nil {
		event.InquiryID = *quote.InquiryID
	}
	if name, email, err := s.vendors.VendorContact(ctx, quote.VendorID); err == nil {
		event.VendorName = name
		event.VendorEmail = email
	}
	s.bus.Publish(ctx, event)

	items, err := s.repo.GetItemsByQuoteID(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	return buildResponse(quote, items), nil
}

// Cancel lets the vendor withdraw a quote before it is accepted.
func (s *Service) Cancel(ctx context.Context, scope access.Scope, id uuid.UUID) (*transport.QuoteResponse, error) {
	vendorID, clientID := scope.RowFilter()
	if scope.Kind == access.KindClient {
		return nil, apperr.Forbidden("only the vendor can cancel a quote")
	}

	quote, err := s.repo.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(quote.Status)
	if err := from.Transition(domain.StatusCancelled); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, from, domain.StatusCancelled); err != nil {
		return nil, err
	}
	quote.Status = string(domain.StatusCancelled)

	event := events.QuoteCancelled{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		VendorID:    quote.VendorID,
		QuoteNumber: quote.QuoteNumber,
	}
	if quote.InquiryID != nil {
		event.InquiryID = *quote.InquiryID
		if name, email, err := s.inquiries.InquiryContact(ctx, *quote.InquiryID); err == nil {
			event.ClientName = name
			event.ClientEmail = email
		}
	}
	if name, _, err := s.vendors.VendorContact(ctx, quote.VendorID); err == nil {
		event.VendorName = name
	}
	s.bus.Publish(ctx, event)

	items, err := s.repo.GetItemsByQuoteID(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	return buildResponse(quote, items), nil
}

// GetByID retrieves a quote with its line items
func (s *Service) GetByID(ctx context.Context, scope access.Scope, id uuid.UUID) (*transport.QuoteResponse, error) {
	vendorID, clientID := scope.RowFilter()
	quote, err := s.repo.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByQuoteID(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	return buildResponse(quote, items), nil
}

// List retrieves quotes visible to the caller's scope.
func (s *Service) List(ctx context.Context, scope access.Scope, req transport.ListQuotesRequest) (*transport.QuoteListResponse, error) {
	vendorID, clientID := scope.RowFilter()
	params := repository.ListParams{
		VendorID:     vendorID,
		ClientUserID: clientID,
		Status:       nilIfEmpty(req.Status),
		Page:         max(req.Page, 1),
		PageSize:     clampPageSize(req.PageSize),
	}

	if req.InquiryID != "" {
		parsed, err := uuid.Parse(req.InquiryID)
		if err != nil {
			return nil, apperr.BadRequest("invalid inquiryId format")
		}
		params.InquiryID = &parsed
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.QuoteResponse, len(result.Items))
	for i, q := range result.Items {
		qItems, _ := s.repo.GetItemsByQuoteID(ctx, q.ID)
		items[i] = *buildResponse(&q, qItems)
	}

	return &transport.QuoteListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// AcceptanceView returns the acceptance-relevant slice of a quote. Reads
// are unfiltered; the conversion transaction runs under the client's
// scope checks in the bookings module.
func (s *Service) AcceptanceView(ctx context.Context, id uuid.UUID) (*AcceptanceView, error) {
	quote, err := s.repo.GetByID(ctx, id, nil, nil)
	if err != nil {
		return nil, err
	}

	modes := make([]domain.PaymentMode, 0, len(quote.AllowedPaymentModes))
	for _, m := range quote.AllowedPaymentModes {
		mode, err := domain.ParsePaymentMode(m)
		if err != nil {
			continue
		}
		modes = append(modes, mode)
	}

	return &AcceptanceView{
		ID:                quote.ID,
		VendorID:          quote.VendorID,
		InquiryID:         quote.InquiryID,
		QuoteNumber:       quote.QuoteNumber,
		Status:            domain.Status(quote.Status),
		AllowedModes:      modes,
		DepositPercentage: quote.DepositPercentage,
		ValidUntil:        quote.ValidUntil,
		TotalCents:        quote.TotalCents,
	}, nil
}

// MarkExpired records lazy expiry observed during an acceptance attempt.
func (s *Service) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkExpired(ctx, id)
}

// afterSend runs the send side effects. The status change is already
// committed; everything here is best-effort and must not fail the request.
func (s *Service) afterSend(ctx context.Context, quote *repository.Quote) {
	if quote.InquiryID != nil {
		_ = s.inquiries.MarkQuoted(ctx, *quote.InquiryID)
	}
	_ = s.vendors.IncrementQuoteSent(ctx, quote.VendorID)

	event := events.QuoteSent{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		VendorID:    quote.VendorID,
		QuoteNumber: quote.QuoteNumber,
		TotalCents:  quote.TotalCents,
	}
	if quote.InquiryID != nil {
		event.InquiryID = *quote.InquiryID
		if name, email, err := s.inquiries.InquiryContact(ctx, *quote.InquiryID); err == nil {
			event.ClientName = name
			event.ClientEmail = email
		}
	}
	if name, _, err := s.vendors.VendorContact(ctx, quote.VendorID); err == nil {
		event.VendorName = name
	}
	if quote.ValidUntil != nil {
		event.ValidUntil = *quote.ValidUntil
	}
	s.bus.Publish(ctx, event)
}

// itemRequests converts stored line items back into the calculator's
// input shape so updates recompute against the effective item set.
func itemRequests(items []repository.QuoteItem) []transport.QuoteItemRequest {
	reqs := make([]transport.QuoteItemRequest, len(items))
	for i, it := range items {
		reqs[i] = transport.QuoteItemRequest{
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			TotalCents:     it.TotalCents,
		}
	}
	return reqs
}

func buildItems(quoteID uuid.UUID, reqs []transport.QuoteItemRequest, now time.Time) []repository.QuoteItem {
	items := make([]repository.QuoteItem, len(reqs))
	for i, it := range reqs {
		items[i] = repository.QuoteItem{
			ID:             uuid.New(),
			QuoteID:        quoteID,
			Name:           sanitize.Text(it.Name),
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			TotalCents:     it.TotalCents,
			SortOrder:      i,
			CreatedAt:      now,
		}
	}
	return items
}

func buildResponse(q *repository.Quote, items []repository.QuoteItem) *transport.QuoteResponse {
	respItems := make([]transport.QuoteItemResponse, len(items))
	for i, it := range items {
		respItems[i] = transport.QuoteItemResponse{
			ID:             it.ID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			TotalCents:     it.TotalCents,
			SortOrder:      it.SortOrder,
		}
	}

	return &transport.QuoteResponse{
		ID:                  q.ID,
		QuoteNumber:         q.QuoteNumber,
		VendorID:            q.VendorID,
		InquiryID:           q.InquiryID,
		Status:              q.Status,
		Items:               respItems,
		SubtotalCents:       q.SubtotalCents,
		TaxCents:            q.TaxCents,
		DiscountCents:       q.DiscountCents,
		TotalCents:          q.TotalCents,
		AllowedPaymentModes: q.AllowedPaymentModes,
		DepositPercentage:   q.DepositPercentage,
		ValidUntil:          q.ValidUntil,
		Notes:               q.Notes,
		AcceptedAt:          q.AcceptedAt,
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
	}
}

func paymentModeStrings(modes []domain.PaymentMode) []string {
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
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
