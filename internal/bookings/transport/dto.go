package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// AcceptQuoteRequest is the request body for accepting a quote. The
// contact fields become the booking's client snapshot; they are copied,
// not referenced, so later profile edits never rewrite history.
type AcceptQuoteRequest struct {
	PaymentMode     string     `json:"paymentMode" validate:"required,oneof=FULL_PAYMENT DEPOSIT_BALANCE CASH_ON_DELIVERY"`
	ClientName      string     `json:"clientName" validate:"required,min=2,max=200"`
	ClientEmail     string     `json:"clientEmail" validate:"required,email"`
	ClientPhone     string     `json:"clientPhone" validate:"omitempty,max=32"`
	EventDate       *time.Time `json:"eventDate"`
	EventLocation   string     `json:"eventLocation" validate:"omitempty,max=500"`
	GuestCount      *int       `json:"guestCount" validate:"omitempty,gt=0"`
	SpecialRequests string     `json:"specialRequests" validate:"omitempty,max=5000"`
}

// UpdateBookingStatusRequest is the request body for moving a booking
// through its lifecycle.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Confirmed Completed Cancelled"`
	Note   string `json:"note" validate:"omitempty,max=1000"`
}

// ListBookingsRequest defines the query parameters for listing bookings
type ListBookingsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=PendingPayment Confirmed Completed Cancelled"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// BookingResponse is the full API shape of a booking
type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	QuoteID         uuid.UUID  `json:"quoteId"`
	VendorID        uuid.UUID  `json:"vendorId"`
	InquiryID       *uuid.UUID `json:"inquiryId,omitempty"`
	ClientName      string     `json:"clientName"`
	ClientEmail     string     `json:"clientEmail"`
	ClientPhone     *string    `json:"clientPhone,omitempty"`
	EventDate       *time.Time `json:"eventDate,omitempty"`
	EventLocation   *string    `json:"eventLocation,omitempty"`
	GuestCount      *int       `json:"guestCount,omitempty"`
	SpecialRequests *string    `json:"specialRequests,omitempty"`
	PaymentMode     string     `json:"paymentMode"`
	TotalCents      int64      `json:"totalCents"`
	DepositCents    *int64     `json:"depositCents,omitempty"`
	BalanceCents    *int64     `json:"balanceCents,omitempty"`
	BalanceDue      *time.Time `json:"balanceDue,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BookingEventResponse is one entry of the status timeline.
type BookingEventResponse struct {
	ID        uuid.UUID `json:"id"`
	OldStatus *string   `json:"oldStatus,omitempty"`
	NewStatus string    `json:"newStatus"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingListResponse is the paginated list response.
type BookingListResponse struct {
	Items      []BookingResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
