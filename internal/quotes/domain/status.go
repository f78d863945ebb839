// Package domain provides core business rules for the quotes bounded context:
// the quote lifecycle state machine, payment modes, and the acceptance
// precondition checks shared with the bookings module.
package domain

import (
	"time"

	"marketplace_backend/platform/apperr"
)

// Status is the lifecycle state of a quote.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSent      Status = "Sent"
	StatusAccepted  Status = "Accepted"
	StatusDeclined  Status = "Declined"
	StatusExpired   Status = "Expired"
	StatusCancelled Status = "Cancelled"
)

// legalTransitions maps each status to the statuses it may move to.
// Draft is the only editable state; everything after Accepted, Declined,
// Expired or Cancelled is terminal.
var legalTransitions = map[Status]map[Status]bool{
	StatusDraft:     {StatusSent: true, StatusCancelled: true},
	StatusSent:      {StatusAccepted: true, StatusDeclined: true, StatusCancelled: true, StatusExpired: true},
	StatusAccepted:  {},
	StatusDeclined:  {},
	StatusExpired:   {},
	StatusCancelled: {},
}

// Valid reports whether s is a known quote status.
func (s Status) Valid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// Editable reports whether the quote's contents may still change.
func (s Status) Editable() bool {
	return s == StatusDraft
}

// Transition validates the move from s to target. Illegal moves fail with
// a conflict error naming both states, never a silent no-op.
func (s Status) Transition(target Status) error {
	if !target.Valid() {
		return apperr.BadRequest("unknown quote status: " + string(target))
	}
	if !legalTransitions[s][target] {
		return apperr.Conflict("quote cannot move from " + string(s) + " to " + string(target))
	}
	return nil
}

// PaymentMode constrains how and when money is collected for a booking.
type PaymentMode string

const (
	PaymentModeFull    PaymentMode = "FULL_PAYMENT"
	PaymentModeDeposit PaymentMode = "DEPOSIT_BALANCE"
	PaymentModeCOD     PaymentMode = "CASH_ON_DELIVERY"
)

// AllPaymentModes lists every supported mode, used as the default set of
// allowed modes when a quote does not restrict them.
var AllPaymentModes = []PaymentMode{PaymentModeFull, PaymentModeDeposit, PaymentModeCOD}

// ParsePaymentMode validates a raw payment mode string.
func ParsePaymentMode(raw string) (PaymentMode, error) {
	switch PaymentMode(raw) {
	case PaymentModeFull, PaymentModeDeposit, PaymentModeCOD:
		return PaymentMode(raw), nil
	default:
		return "", apperr.BadRequest("unknown payment mode: " + raw)
	}
}

// ModeAllowed reports whether mode is a member of allowed.
func ModeAllowed(allowed []PaymentMode, mode PaymentMode) bool {
	for _, m := range allowed {
		if m == mode {
			return true
		}
	}
	return false
}

// IsExpired reports lazy expiry: a validity deadline strictly in the past
// makes the quote unacceptable regardless of the stored status.
func IsExpired(validUntil *time.Time, now time.Time) bool {
	return validUntil != nil && validUntil.Before(now)
}

// CheckAcceptable runs the acceptance preconditions in their fixed order
// and returns the first violation. Each failure carries its own distinct,
// user-presentable reason; callers must surface it as-is. The existence
// check (not found) and the booking uniqueness check live with storage.
func CheckAcceptable(status Status, validUntil *time.Time, now time.Time, allowed []PaymentMode, requested PaymentMode) error {
	switch status {
	case StatusDraft:
		return apperr.BadRequest("quote has not been sent yet")
	case StatusAccepted:
		return apperr.Conflict("quote has already been accepted")
	case StatusDeclined:
		return apperr.BadRequest("quote has been declined")
	case StatusCancelled:
		return apperr.BadRequest("quote has been cancelled")
	}

	if status == StatusExpired || IsExpired(validUntil, now) {
		return apperr.Gone("quote has expired")
	}

	if !ModeAllowed(allowed, requested) {
		return apperr.BadRequest("payment mode not allowed for this quote")
	}

	return nil
}
