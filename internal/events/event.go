// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"marketplace_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event     = events.Event
	Bus       = events.Bus
	Handler   = events.Handler
	BaseEvent = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Inquiry Domain Events
// =============================================================================

// InquiryCreated is published when a client submits a new inquiry to a vendor service.
type InquiryCreated struct {
	BaseEvent
	InquiryID   uuid.UUID `json:"inquiryId"`
	ServiceID   uuid.UUID `json:"serviceId"`
	VendorID    uuid.UUID `json:"vendorId"`
	ClientName  string    `json:"clientName"`
	ClientEmail string    `json:"clientEmail"`
	ClientPhone string    `json:"clientPhone,omitempty"`
	EventDate   time.Time `json:"eventDate"`
	GuestCount  int       `json:"guestCount"`
}

func (e InquiryCreated) EventName() string { return "inquiries.inquiry.created" }

// InquiryMessageAdded is published when a message is posted on an inquiry thread.
type InquiryMessageAdded struct {
	BaseEvent
	InquiryID  uuid.UUID `json:"inquiryId"`
	VendorID   uuid.UUID `json:"vendorId"`
	MessageID  uuid.UUID `json:"messageId"`
	AuthorRole string    `json:"authorRole"` // "client" or "vendor"
}

func (e InquiryMessageAdded) EventName() string { return "inquiries.message.added" }

// =============================================================================
// Quote Domain Events
// =============================================================================

// QuoteSent is published when a vendor sends a quote to the client.
type QuoteSent struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	InquiryID   uuid.UUID `json:"inquiryId"`
	VendorID    uuid.UUID `json:"vendorId"`
	QuoteNumber string    `json:"quoteNumber"`
	TotalCents  int64     `json:"totalCents"`
	ClientName  string    `json:"clientName"`
	ClientEmail string    `json:"clientEmail"`
	VendorName  string    `json:"vendorName"`
	ValidUntil  time.Time `json:"validUntil"`
}

func (e QuoteSent) EventName() string { return "quotes.quote.sent" }

// QuoteDeclined is published when the client declines a sent quote.
type QuoteDeclined struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	InquiryID   uuid.UUID `json:"inquiryId"`
	VendorID    uuid.UUID `json:"vendorId"`
	QuoteNumber string    `json:"quoteNumber"`
	Reason      string    `json:"reason,omitempty"`
	VendorEmail string    `json:"vendorEmail"`
	VendorName  string    `json:"vendorName"`
}

func (e QuoteDeclined) EventName() string { return "quotes.quote.declined" }

// QuoteCancelled is published when the vendor withdraws a quote before acceptance.
type QuoteCancelled struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	InquiryID   uuid.UUID `json:"inquiryId"`
	VendorID    uuid.UUID `json:"vendorId"`
	QuoteNumber string    `json:"quoteNumber"`
	VendorName  string    `json:"vendorName"`
	ClientEmail string    `json:"clientEmail"`
	ClientName  string    `json:"clientName"`
}

func (e QuoteCancelled) EventName() string { return "quotes.quote.cancelled" }

// =============================================================================
// Booking Domain Events
// =============================================================================

// BookingCreated is published after a quote acceptance transaction commits.
// It carries everything the notification module needs so handlers never
// have to read back from the database.
type BookingCreated struct {
	BaseEvent
	BookingID    uuid.UUID  `json:"bookingId"`
	QuoteID      uuid.UUID  `json:"quoteId"`
	InquiryID    uuid.UUID  `json:"inquiryId"`
	VendorID     uuid.UUID  `json:"vendorId"`
	QuoteNumber  string     `json:"quoteNumber"`
	PaymentMode  string     `json:"paymentMode"`
	Status       string     `json:"status"`
	TotalCents   int64      `json:"totalCents"`
	DepositCents *int64     `json:"depositCents,omitempty"`
	BalanceCents *int64     `json:"balanceCents,omitempty"`
	EventDate    time.Time  `json:"eventDate"`
	BalanceDue   *time.Time `json:"balanceDue,omitempty"`
	ClientName   string     `json:"clientName"`
	ClientEmail  string     `json:"clientEmail"`
	VendorName   string     `json:"vendorName"`
	VendorEmail  string     `json:"vendorEmail"`
}

func (e BookingCreated) EventName() string { return "bookings.booking.created" }

// BookingStatusChanged is published when a booking moves between statuses
// (e.g. PendingPayment to Confirmed after a deposit is recorded).
type BookingStatusChanged struct {
	BaseEvent
	BookingID   uuid.UUID `json:"bookingId"`
	VendorID    uuid.UUID `json:"vendorId"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
	ClientEmail string    `json:"clientEmail"`
	ClientName  string    `json:"clientName"`
	VendorEmail string    `json:"vendorEmail"`
	VendorName  string    `json:"vendorName"`
}

func (e BookingStatusChanged) EventName() string { return "bookings.booking.status_changed" }
