// Package transport defines request/response shapes for the vendors module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateVendorRequest is the admin request body for onboarding a vendor.
// Vendors start unpublished; publishing is a separate, deliberate step.
type CreateVendorRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=200"`
	ContactEmail string  `json:"contactEmail" validate:"required,email"`
	ContactPhone *string `json:"contactPhone,omitempty" validate:"omitempty,max=32"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
}

// CreateServiceRequest is the admin request body for adding a listing to
// a vendor's catalog.
type CreateServiceRequest struct {
	Title          string `json:"title" validate:"required,min=2,max=200"`
	Category       string `json:"category" validate:"required,min=2,max=100"`
	BasePriceCents int64  `json:"basePriceCents" validate:"min=0"`
}

// VendorResponse is the API shape for a vendor profile.
type VendorResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contactEmail"`
	ContactPhone *string   `json:"contactPhone,omitempty"`
	City         *string   `json:"city,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VendorStatsResponse exposes the vendor's conversion counters.
type VendorStatsResponse struct {
	QuoteSentCount int `json:"quoteSentCount"`
	AcceptedCount  int `json:"acceptedCount"`
}

// ServiceResponse is the API shape for a service listing.
type ServiceResponse struct {
	ID             uuid.UUID `json:"id"`
	VendorID       uuid.UUID `json:"vendorId"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	BasePriceCents int64     `json:"basePriceCents"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"createdAt"`
}
