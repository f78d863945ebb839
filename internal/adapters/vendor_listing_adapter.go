package adapters

import (
	"context"

	"marketplace_backend/internal/vendors/repository"

	"github.com/google/uuid"
)

// VendorListingAdapter exposes vendor and service publication state to the
// inquiries module. It implements inquiries/service.ListingReader.
type VendorListingAdapter struct {
	repo *repository.Repository
}

func NewVendorListingAdapter(repo *repository.Repository) *VendorListingAdapter {
	return &VendorListingAdapter{repo: repo}
}

func (a *VendorListingAdapter) ServiceVendor(ctx context.Context, serviceID uuid.UUID) (uuid.UUID, bool, error) {
	svc, err := a.repo.GetServiceByID(ctx, serviceID)
	if err != nil {
		return uuid.Nil, false, err
	}
	return svc.VendorID, svc.Published, nil
}

func (a *VendorListingAdapter) VendorPublished(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	vendor, err := a.repo.GetByID(ctx, vendorID)
	if err != nil {
		return false, err
	}
	return vendor.Published, nil
}
