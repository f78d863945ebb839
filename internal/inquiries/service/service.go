package service

import (
	"context"
	"time"

	"marketplace_backend/internal/access"
	"marketplace_backend/internal/events"
	"marketplace_backend/internal/inquiries/domain"
	"marketplace_backend/internal/inquiries/repository"
	"marketplace_backend/internal/inquiries/transport"
	"marketplace_backend/platform/apperr"
	"marketplace_backend/platform/phone"
	"marketplace_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListingReader is the narrow interface the inquiries service needs to
// resolve and validate the inquiry target. Implemented by an adapter in
// internal/adapters that wraps the vendors repository.
type ListingReader interface {
	// ServiceVendor resolves a service listing to its vendor.
	// published reports whether the listing itself is published.
	ServiceVendor(ctx context.Context, serviceID uuid.UUID) (vendorID uuid.UUID, published bool, err error)
	// VendorPublished reports whether the vendor is published.
	VendorPublished(ctx context.Context, vendorID uuid.UUID) (bool, error)
}

// Service provides business logic for inquiries
type Service struct {
	repo     *repository.Repository
	listings ListingReader
	bus      events.Bus
}

// New creates a new inquiries service
func New(repo *repository.Repository, listings ListingReader, bus events.Bus) *Service {
	return &Service{repo: repo, listings: listings, bus: bus}
}

// CreateIntake handles the public inquiry form. The caller may be
// anonymous; clientUserID is non-nil only for logged-in clients.
func (s *Service) CreateIntake(ctx context.Context, clientUserID *uuid.UUID, req transport.CreateInquiryRequest) (*transport.InquiryResponse, error) {
	vendorID, serviceID, err := s.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.BudgetMinCents != nil && req.BudgetMaxCents != nil && *req.BudgetMinCents > *req.BudgetMaxCents {
		return nil, apperr.BadRequest("budget minimum exceeds budget maximum")
	}

	now := time.Now()
	inq := repository.Inquiry{
		ID:             uuid.New(),
		VendorID:       vendorID,
		ServiceID:      serviceID,
		ClientUserID:   clientUserID,
		ContactName:    sanitize.Text(req.ContactName),
		ContactEmail:   req.ContactEmail,
		ContactPhone:   normalizedPhone(req.ContactPhone),
		EventDate:      req.EventDate,
		EventLocation:  sanitize.TextPtr(nilIfEmpty(req.EventLocation)),
		GuestCount:     req.GuestCount,
		BudgetMinCents: req.BudgetMinCents,
		BudgetMaxCents: req.BudgetMaxCents,
		Message:        sanitize.Text(req.Message),
		Status:         string(domain.StatusNew),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, &inq); err != nil {
		return nil, err
	}

	// The initial message also opens the thread.
	_ = s.repo.AddMessage(ctx, &repository.Message{
		ID:         uuid.New(),
		InquiryID:  inq.ID,
		AuthorRole: "client",
		Body:       inq.Message,
		CreatedAt:  now,
	})

	event := events.InquiryCreated{
		BaseEvent:   events.NewBaseEvent(),
		InquiryID:   inq.ID,
		VendorID:    inq.VendorID,
		ClientName:  inq.ContactName,
		ClientEmail: inq.ContactEmail,
		GuestCount:  valueOrZero(inq.GuestCount),
	}
	if serviceID != nil {
		event.ServiceID = *serviceID
	}
	if inq.EventDate != nil {
		event.EventDate = *inq.EventDate
	}
	if inq.ContactPhone != nil {
		event.ClientPhone = *inq.ContactPhone
	}
	s.bus.Publish(ctx, event)

	return buildResponse(&inq), nil
}

// resolveTarget determines which vendor the inquiry addresses and verifies
// the target is live. Unpublished vendors and listings are reported as
// not found so the intake form cannot be used to probe drafts.
func (s *Service) resolveTarget(ctx context.Context, req transport.CreateInquiryRequest) (uuid.UUID, *uuid.UUID, error) {
	if req.ServiceID != nil {
		vendorID, published, err := s.listings.ServiceVendor(ctx, *req.ServiceID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		if !published {
			return uuid.Nil, nil, apperr.NotFound("service not found")
		}
		vendorPublished, err := s.listings.VendorPublished(ctx, vendorID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		if !vendorPublished {
			return uuid.Nil, nil, apperr.NotFound("vendor not found")
		}
		return vendorID, req.ServiceID, nil
	}

	if req.VendorID == nil {
		return uuid.Nil, nil, apperr.BadRequest("either serviceId or vendorId is required")
	}

	published, err := s.listings.VendorPublished(ctx, *req.VendorID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if !published {
		return uuid.Nil, nil, apperr.NotFound("vendor not found")
	}
	return *req.VendorID, nil, nil
}

// GetByID retrieves an inquiry visible to the caller's scope.
func (s *Service) GetByID(ctx context.Context, scope access.Scope, id uuid.UUID) (*transport.InquiryResponse, error) {
	vendorID, clientID := scope.RowFilter()
	inq, err := s.repo.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}
	return buildResponse(inq), nil
}

// List retrieves inquiries visible to the caller's scope.
func (s *Service) List(ctx context.Context, scope access.Scope, req transport.ListInquiriesRequest) (*transport.InquiryListResponse, error) {
	vendorID, clientID := scope.RowFilter()
	result, err := s.repo.List(ctx, repository.ListParams{
		VendorID:     vendorID,
		ClientUserID: clientID,
		Status:       nilIfEmpty(req.Status),
		Page:         max(req.Page, 1),
		PageSize:     clampPageSize(req.PageSize),
	})
	if err != nil {
		return nil, err
	}

	items := make([]transport.InquiryResponse, len(result.Items))
	for i, inq := range result.Items {
		items[i] = *buildResponse(&inq)
	}
	return &transport.InquiryListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Decline lets the receiving vendor turn down an inquiry before quoting.
func (s *Service) Decline(ctx context.Context, scope access.Scope, id uuid.UUID) (*transport.InquiryResponse, error) {
	vendorID, clientID := scope.RowFilter()
	if scope.Kind == access.KindClient {
		return nil, apperr.Forbidden("only the vendor can decline an inquiry")
	}

	inq, err := s.repo.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(inq.Status)
	if err := from.Transition(domain.StatusDeclined); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, from, domain.StatusDeclined); err != nil {
		return nil, err
	}

	inq.Status = string(domain.StatusDeclined)
	return buildResponse(inq), nil
}

// Archive hides an inquiry from active lists. Never deletes.
func (s *Service) Archive(ctx context.Context, scope access.Scope, id uuid.UUID) error {
	vendorID, clientID := scope.RowFilter()
	return s.repo.Archive(ctx, id, vendorID, clientID)
}

// AddMessage appends a message to the inquiry's thread.
func (s *Service) AddMessage(ctx context.Context, scope access.Scope, id uuid.UUID, req transport.AddMessageRequest) (*transport.MessageResponse, error) {
	vendorID, clientID := scope.RowFilter()
	inq, err := s.repo.GetByID(ctx, id, vendorID, clientID)
	if err != nil {
		return nil, err
	}

	msg := repository.Message{
		ID:         uuid.New(),
		InquiryID:  inq.ID,
		AuthorRole: authorRole(scope),
		Body:       sanitize.Text(req.Body),
		CreatedAt:  time.Now(),
	}
	if err := s.repo.AddMessage(ctx, &msg); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.InquiryMessageAdded{
		BaseEvent:  events.NewBaseEvent(),
		InquiryID:  inq.ID,
		VendorID:   inq.VendorID,
		MessageID:  msg.ID,
		AuthorRole: msg.AuthorRole,
	})

	return &transport.MessageResponse{
		ID:         msg.ID,
		AuthorRole: msg.AuthorRole,
		Body:       msg.Body,
		CreatedAt:  msg.CreatedAt,
	}, nil
}

// ListMessages returns the inquiry's thread, oldest first.
func (s *Service) ListMessages(ctx context.Context, scope access.Scope, id uuid.UUID) ([]transport.MessageResponse, error) {
	vendorID, clientID := scope.RowFilter()
	if _, err := s.repo.GetByID(ctx, id, vendorID, clientID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]transport.MessageResponse, len(messages))
	for i, m := range messages {
		items[i] = transport.MessageResponse{
			ID:         m.ID,
			AuthorRole: m.AuthorRole,
			Body:       m.Body,
			CreatedAt:  m.CreatedAt,
		}
	}
	return items, nil
}

// VendorOwnsInquiry reports whether the inquiry exists and belongs to the
// vendor. Used by the quotes module before linking a quote.
func (s *Service) VendorOwnsInquiry(ctx context.Context, inquiryID, vendorID uuid.UUID) error {
	_, err := s.repo.GetByID(ctx, inquiryID, &vendorID, nil)
	return err
}

// MarkQuoted moves a New inquiry to Quoted when a quote is sent against it.
// An inquiry that already left New is left untouched.
func (s *Service) MarkQuoted(ctx context.Context, inquiryID uuid.UUID) error {
	inq, err := s.repo.GetByID(ctx, inquiryID, nil, nil)
	if err != nil {
		return err
	}
	if domain.Status(inq.Status) != domain.StatusNew {
		return nil
	}
	return s.repo.UpdateStatus(ctx, inquiryID, domain.StatusNew, domain.StatusQuoted)
}

// MarkDeclined mirrors a declined quote onto its linked inquiry. An
// inquiry that cannot legally move to Declined is left untouched.
func (s *Service) MarkDeclined(ctx context.Context, inquiryID uuid.UUID) error {
	inq, err := s.repo.GetByID(ctx, inquiryID, nil, nil)
	if err != nil {
		return err
	}
	from := domain.Status(inq.Status)
	if err := from.Transition(domain.StatusDeclined); err != nil {
		return nil
	}
	return s.repo.UpdateStatus(ctx, inquiryID, from, domain.StatusDeclined)
}

// InquiryContact returns the client contact recorded at intake, used by
// quote and booking notifications.
func (s *Service) InquiryContact(ctx context.Context, inquiryID uuid.UUID) (string, string, error) {
	inq, err := s.repo.GetByID(ctx, inquiryID, nil, nil)
	if err != nil {
		return "", "", err
	}
	return inq.ContactName, inq.ContactEmail, nil
}

func buildResponse(inq *repository.Inquiry) *transport.InquiryResponse {
	return &transport.InquiryResponse{
		ID:             inq.ID,
		VendorID:       inq.VendorID,
		ServiceID:      inq.ServiceID,
		ClientUserID:   inq.ClientUserID,
		ContactName:    inq.ContactName,
		ContactEmail:   inq.ContactEmail,
		ContactPhone:   inq.ContactPhone,
		EventDate:      inq.EventDate,
		EventLocation:  inq.EventLocation,
		GuestCount:     inq.GuestCount,
		BudgetMinCents: inq.BudgetMinCents,
		BudgetMaxCents: inq.BudgetMaxCents,
		Message:        inq.Message,
		Status:         inq.Status,
		CreatedAt:      inq.CreatedAt,
		UpdatedAt:      inq.UpdatedAt,
	}
}

func authorRole(scope access.Scope) string {
	switch scope.Kind {
	case access.KindVendor:
		return "vendor"
	case access.KindClient:
		return "client"
	default:
		return "admin"
	}
}

func normalizedPhone(raw string) *string {
	if raw == "" {
		return nil
	}
	normalized := phone.NormalizeE164(raw)
	return &normalized
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func clampPageSize(size int) int {
	if size < 1 || size > 100 {
		return 50
	}
	return size
}
