package adapters

import (
	"context"

	"marketplace_backend/internal/inquiries/service"

	"github.com/google/uuid"
)

// InquiryLinkAdapter exposes the inquiry operations the quote lifecycle
// needs. It implements quotes/service.InquiryLink.
type InquiryLinkAdapter struct {
	svc *service.Service
}

func NewInquiryLinkAdapter(svc *service.Service) *InquiryLinkAdapter {
	return &InquiryLinkAdapter{svc: svc}
}

func (a *InquiryLinkAdapter) VendorOwnsInquiry(ctx context.Context, inquiryID, vendorID uuid.UUID) error {
	return a.svc.VendorOwnsInquiry(ctx, inquiryID, vendorID)
}

func (a *InquiryLinkAdapter) MarkQuoted(ctx context.Context, inquiryID uuid.UUID) error {
	return a.svc.MarkQuoted(ctx, inquiryID)
}

func (a *InquiryLinkAdapter) MarkDeclined(ctx context.Context, inquiryID uuid.UUID) error {
	return a.svc.MarkDeclined(ctx, inquiryID)
}

func (a *InquiryLinkAdapter) InquiryContact(ctx context.Context, inquiryID uuid.UUID) (string, string, error) {
	return a.svc.InquiryContact(ctx, inquiryID)
}
