package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateInquiryRequest is the request body for the public intake endpoint.
// Either serviceId or vendorId must be set; serviceId wins when both are.
type CreateInquiryRequest struct {
	VendorID       *uuid.UUID `json:"vendorId"`
	ServiceID      *uuid.UUID `json:"serviceId"`
	ContactName    string     `json:"contactName" validate:"required,min=2,max=200"`
	ContactEmail   string     `json:"contactEmail" validate:"required,email"`
	ContactPhone   string     `json:"contactPhone" validate:"omitempty,max=40"`
	EventDate      *time.Time `json:"eventDate"`
	EventLocation  string     `json:"eventLocation" validate:"omitempty,max=500"`
	GuestCount     *int       `json:"guestCount" validate:"omitempty,gt=0"`
	BudgetMinCents *int64     `json:"budgetMinCents" validate:"omitempty,min=0"`
	BudgetMaxCents *int64     `json:"budgetMaxCents" validate:"omitempty,min=0"`
	Message        string     `json:"message" validate:"required,min=10,max=5000"`
}

// AddMessageRequest is the request body for posting to an inquiry thread.
type AddMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// DeclineInquiryRequest is the request body for a vendor declining an inquiry.
type DeclineInquiryRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// ListInquiriesRequest defines the query parameters for listing inquiries
type ListInquiriesRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=New Quoted Accepted Declined Archived"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// InquiryResponse is the API shape for an inquiry.
type InquiryResponse struct {
	ID             uuid.UUID  `json:"id"`
	VendorID       uuid.UUID  `json:"vendorId"`
	ServiceID      *uuid.UUID `json:"serviceId,omitempty"`
	ClientUserID   *uuid.UUID `json:"clientUserId,omitempty"`
	ContactName    string     `json:"contactName"`
	ContactEmail   string     `json:"contactEmail"`
	ContactPhone   *string    `json:"contactPhone,omitempty"`
	EventDate      *time.Time `json:"eventDate,omitempty"`
	EventLocation  *string    `json:"eventLocation,omitempty"`
	GuestCount     *int       `json:"guestCount,omitempty"`
	BudgetMinCents *int64     `json:"budgetMinCents,omitempty"`
	BudgetMaxCents *int64     `json:"budgetMaxCents,omitempty"`
	Message        string     `json:"message"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// MessageResponse is the API shape for one thread message.
type MessageResponse struct {
	ID         uuid.UUID `json:"id"`
	AuthorRole string    `json:"authorRole"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// InquiryListResponse is the paginated list response.
type InquiryListResponse struct {
	Items      []InquiryResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
