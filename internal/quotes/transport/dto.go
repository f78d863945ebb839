package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// QuoteItemRequest is the input for a single line item
type QuoteItemRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=500"`
	Quantity       float64 `json:"quantity" validate:"gt=0"`
	UnitPriceCents int64   `json:"unitPriceCents" validate:"min=0"`
	TotalCents     int64   `json:"totalCents" validate:"min=0"`
}

// CreateQuoteRequest is the request body for creating a new quote.
// A quote may be created directly as Sent, skipping the draft stage.
type CreateQuoteRequest struct {
	InquiryID           *uuid.UUID         `json:"inquiryId"`
	Items               []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxCents            int64              `json:"taxCents" validate:"min=0"`
	DiscountCents       int64              `json:"discountCents" validate:"min=0"`
	TotalCents          int64              `json:"totalCents" validate:"min=0"`
	AllowedPaymentModes []string           `json:"allowedPaymentModes" validate:"omitempty,dive,oneof=FULL_PAYMENT DEPOSIT_BALANCE CASH_ON_DELIVERY"`
	DepositPercentage   int                `json:"depositPercentage" validate:"min=0,max=100"`
	ValidUntil          *time.Time         `json:"validUntil"`
	Notes               string             `json:"notes" validate:"omitempty,max=5000"`
	Status              string             `json:"status" validate:"omitempty,oneof=Draft Sent"`
}

// UpdateQuoteRequest is the request body for editing a draft quote.
type UpdateQuoteRequest struct {
	Items               *[]QuoteItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	TaxCents            *int64              `json:"taxCents" validate:"omitempty,min=0"`
	DiscountCents       *int64              `json:"discountCents" validate:"omitempty,min=0"`
	TotalCents          *int64              `json:"totalCents" validate:"omitempty,min=0"`
	AllowedPaymentModes *[]string           `json:"allowedPaymentModes" validate:"omitempty,dive,oneof=FULL_PAYMENT DEPOSIT_BALANCE CASH_ON_DELIVERY"`
	DepositPercentage   *int                `json:"depositPercentage" validate:"omitempty,min=0,max=100"`
	ValidUntil          *time.Time          `json:"validUntil"`
	Notes               *string             `json:"notes" validate:"omitempty,max=5000"`
}

// DeclineQuoteRequest is the request body for a client declining a quote.
type DeclineQuoteRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// ListQuotesRequest defines the query parameters for listing quotes
type ListQuotesRequest struct {
	InquiryID string `form:"inquiryId"`
	Status    string `form:"status" validate:"omitempty,oneof=Draft Sent Accepted Declined Expired Cancelled"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// QuoteItemResponse is the response for a single line item
type QuoteItemResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TotalCents     int64     `json:"totalCents"`
	SortOrder      int       `json:"sortOrder"`
}

// QuoteResponse is the full API shape of a quote
type QuoteResponse struct {
	ID                  uuid.UUID           `json:"id"`
	QuoteNumber         string              `json:"quoteNumber"`
	VendorID            uuid.UUID           `json:"vendorId"`
	InquiryID           *uuid.UUID          `json:"inquiryId,omitempty"`
	Status              string              `json:"status"`
	Items               []QuoteItemResponse `json:"items"`
	SubtotalCents       int64               `json:"subtotalCents"`
	TaxCents            int64               `json:"taxCents"`
	DiscountCents       int64               `json:"discountCents"`
	TotalCents          int64               `json:"totalCents"`
	AllowedPaymentModes []string            `json:"allowedPaymentModes"`
	DepositPercentage   int                 `json:"depositPercentage"`
	ValidUntil          *time.Time          `json:"validUntil,omitempty"`
	Notes               *string             `json:"notes,omitempty"`
	AcceptedAt          *time.Time          `json:"acceptedAt,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// QuoteListResponse is the paginated list response.
type QuoteListResponse struct {
	Items      []QuoteResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}
