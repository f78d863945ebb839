package service

import (
	"context"
	"time"

	"marketplace_backend/internal/vendors/repository"
	"marketplace_backend/internal/vendors/transport"
	"marketplace_backend/platform/phone"
	"marketplace_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service provides business logic for vendor profiles and listings.
type Service struct {
	repo *repository.Repository
}

// New creates a new vendors service
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create onboards a new vendor. Profiles start unpublished so they stay
// invisible to intake until an admin publishes them.
func (s *Service) Create(ctx context.Context, req transport.CreateVendorRequest) (*transport.VendorResponse, error) {
	now := time.Now()
	vendor := repository.Vendor{
		ID:           uuid.New(),
		Name:         sanitize.Text(req.Name),
		ContactEmail: req.ContactEmail,
		ContactPhone: normalizedPhone(req.ContactPhone),
		City:         sanitize.TextPtr(req.City),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, &vendor); err != nil {
		return nil, err
	}
	return buildVendorResponse(&vendor), nil
}

// Publish makes the vendor visible to the public marketplace and intake.
func (s *Service) Publish(ctx context.Context, vendorID uuid.UUID) error {
	return s.repo.Publish(ctx, vendorID)
}

// CreateService adds a listing to a vendor's catalog. Listings are
// published immediately; the vendor's own published flag gates intake.
func (s *Service) CreateService(ctx context.Context, vendorID uuid.UUID, req transport.CreateServiceRequest) (*transport.ServiceResponse, error) {
	if _, err := s.repo.GetByID(ctx, vendorID); err != nil {
		return nil, err
	}

	svc := repository.Service{
		ID:             uuid.New(),
		VendorID:       vendorID,
		Title:          sanitize.Text(req.Title),
		Category:       sanitize.Text(req.Category),
		BasePriceCents: req.BasePriceCents,
		Published:      true,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.CreateService(ctx, &svc); err != nil {
		return nil, err
	}
	return &transport.ServiceResponse{
		ID:             svc.ID,
		VendorID:       svc.VendorID,
		Title:          svc.Title,
		Category:       svc.Category,
		BasePriceCents: svc.BasePriceCents,
		Published:      svc.Published,
		CreatedAt:      svc.CreatedAt,
	}, nil
}

// GetByID retrieves a vendor profile.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.VendorResponse, error) {
	vendor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildVendorResponse(vendor), nil
}

// GetStats returns the vendor's conversion counters.
func (s *Service) GetStats(ctx context.Context, vendorID uuid.UUID) (*transport.VendorStatsResponse, error) {
	vendor, err := s.repo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return &transport.VendorStatsResponse{
		QuoteSentCount: vendor.QuoteSentCount,
		AcceptedCount:  vendor.AcceptedCount,
	}, nil
}

// ListServices retrieves a vendor's service listings.
func (s *Service) ListServices(ctx context.Context, vendorID uuid.UUID) ([]transport.ServiceResponse, error) {
	services, err := s.repo.ListServices(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	items := make([]transport.ServiceResponse, len(services))
	for i, svc := range services {
		items[i] = transport.ServiceResponse{
			ID:             svc.ID,
			VendorID:       svc.VendorID,
			Title:          svc.Title,
			Category:       svc.Category,
			BasePriceCents: svc.BasePriceCents,
			Published:      svc.Published,
			CreatedAt:      svc.CreatedAt,
		}
	}
	return items, nil
}

func normalizedPhone(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	n := phone.NormalizeE164(*p)
	return &n
}

func buildVendorResponse(v *repository.Vendor) *transport.VendorResponse {
	return &transport.VendorResponse{
		ID:           v.ID,
		Name:         v.Name,
		ContactEmail: v.ContactEmail,
		ContactPhone: v.ContactPhone,
		City:         v.City,
		Published:    v.Published,
		CreatedAt:    v.CreatedAt,
	}
}
