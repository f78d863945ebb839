package adapters

import (
	"context"

	"marketplace_backend/internal/vendors/repository"

	"github.com/google/uuid"
)

// VendorDirectoryAdapter exposes vendor contact details and counters to
// the quotes and bookings modules. It implements quotes/service.VendorDirectory
// and bookings/service.VendorContacts.
type VendorDirectoryAdapter struct {
	repo *repository.Repository
}

func NewVendorDirectoryAdapter(repo *repository.Repository) *VendorDirectoryAdapter {
	return &VendorDirectoryAdapter{repo: repo}
}

func (a *VendorDirectoryAdapter) VendorContact(ctx context.Context, vendorID uuid.UUID) (string, string, error) {
	vendor, err := a.repo.GetByID(ctx, vendorID)
	if err != nil {
		return "", "", err
	}
	return vendor.Name, vendor.ContactEmail, nil
}

func (a *VendorDirectoryAdapter) IncrementQuoteSent(ctx context.Context, vendorID uuid.UUID) error {
	return a.repo.IncrementQuoteSent(ctx, vendorID)
}
