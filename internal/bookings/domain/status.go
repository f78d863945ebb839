// Package domain holds the booking lifecycle rules.
package domain

import "marketplace_backend/platform/apperr"

// Status represents the lifecycle state of a booking
type Status string

const (
	// StatusPendingPayment is the initial state for payment-backed modes.
	StatusPendingPayment Status = "PendingPayment"
	// StatusConfirmed is the initial state for cash on delivery, or the
	// state reached once payment completes.
	StatusConfirmed Status = "Confirmed"
	// StatusCompleted marks the event as delivered.
	StatusCompleted Status = "Completed"
	// StatusCancelled marks a booking called off before delivery.
	StatusCancelled Status = "Cancelled"
)

var legalTransitions = map[Status]map[Status]bool{
	StatusPendingPayment: {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:      {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

// Valid reports whether s is a known booking status.
func (s Status) Valid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// Transition checks whether moving to target is legal from s.
func (s Status) Transition(target Status) error {
	if legalTransitions[s][target] {
		return nil
	}
	return apperr.Conflict("booking cannot move from " + string(s) + " to " + string(target))
}
