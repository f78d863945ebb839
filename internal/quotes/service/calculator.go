package service

import (
	"math"
	"time"

	"marketplace_backend/internal/quotes/domain"
	"marketplace_backend/internal/quotes/transport"
)

// balanceDueOffset is how long after the event date the remaining balance
// of a deposit-split booking falls due.
const balanceDueOffset = 7 * 24 * time.Hour

// roundCents rounds a float to the nearest cent (integer)
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

// ComputeTotals derives the financial header values from the line items.
// The computed total (subtotal + tax - discount) wins whenever it is
// positive; a zero or negative computation falls back to the
// caller-supplied total verbatim.
func ComputeTotals(items []transport.QuoteItemRequest, taxCents, discountCents, suppliedTotalCents int64) (subtotal, total int64) {
	for _, item := range items {
		subtotal += item.TotalCents
	}

	computed := subtotal + taxCents - discountCents
	if computed > 0 {
		return subtotal, computed
	}
	return subtotal, suppliedTotalCents
}

// ComputeSplit derives the deposit/balance plan for a booking. Only the
// DEPOSIT_BALANCE mode produces a split; the other modes leave all three
// fields nil. The balance due date is the event date plus seven days when
// an event date is known.
func ComputeSplit(totalCents int64, depositPercentage int, mode domain.PaymentMode, eventDate *time.Time) (depositCents, balanceCents *int64, balanceDue *time.Time) {
	if mode != domain.PaymentModeDeposit {
		return nil, nil, nil
	}

	deposit := roundCents(float64(totalCents) * float64(depositPercentage) / 100.0)
	// The balance is the exact remainder so the two always sum to the total.
	balance := totalCents - deposit

	if eventDate != nil {
		due := eventDate.Add(balanceDueOffset)
		balanceDue = &due
	}
	return &deposit, &balance, balanceDue
}
