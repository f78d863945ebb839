package service

import (
	"testing"
	"time"

	"marketplace_backend/internal/quotes/domain"
	"marketplace_backend/internal/quotes/transport"
)

func TestComputeTotals(t *testing.T) {
	t.Run("subtotal is the exact sum of line totals", func(t *testing.T) {
		items := []transport.QuoteItemRequest{
			{Name: "venue", Quantity: 1, UnitPriceCents: 50000, TotalCents: 50000},
			{Name: "catering", Quantity: 80, UnitPriceCents: 250, TotalCents: 20000},
			{Name: "dj", Quantity: 4, UnitPriceCents: 7500, TotalCents: 30000},
		}

		subtotal, total := ComputeTotals(items, 0, 0, 0)
		if subtotal != 100000 {
			t.Errorf("subtotal = %d, want 100000", subtotal)
		}
		if total != 100000 {
			t.Errorf("total = %d, want 100000", total)
		}
	})

	t.Run("computed total applies tax and discount", func(t *testing.T) {
		items := []transport.QuoteItemRequest{
			{Name: "package", Quantity: 1, UnitPriceCents: 50000, TotalCents: 50000},
		}

		subtotal, total := ComputeTotals(items, 5000, 2500, 99999)
		if subtotal != 50000 {
			t.Errorf("subtotal = %d, want 50000", subtotal)
		}
		// Positive computation wins over the supplied total.
		if total != 52500 {
			t.Errorf("total = %d, want 52500", total)
		}
	})

	t.Run("zero computation falls back to the supplied total", func(t *testing.T) {
		items := []transport.QuoteItemRequest{
			{Name: "comped package", Quantity: 1, UnitPriceCents: 0, TotalCents: 0},
		}

		_, total := ComputeTotals(items, 0, 0, 12345)
		if total != 12345 {
			t.Errorf("total = %d, want supplied 12345", total)
		}
	})

	t.Run("negative computation falls back to the supplied total", func(t *testing.T) {
		items := []transport.QuoteItemRequest{
			{Name: "package", Quantity: 1, UnitPriceCents: 10000, TotalCents: 10000},
		}

		_, total := ComputeTotals(items, 0, 20000, 10000)
		if total != 10000 {
			t.Errorf("total = %d, want supplied 10000", total)
		}
	})
}

func TestComputeSplit(t *testing.T) {
	eventDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("fifty percent deposit with due date a week after the event", func(t *testing.T) {
		items := []transport.QuoteItemRequest{
			{Name: "package", Quantity: 1, UnitPriceCents: 50000, TotalCents: 50000},
		}
		_, total := ComputeTotals(items, 5000, 0, 0)
		if total != 55000 {
			t.Fatalf("total = %d, want 55000", total)
		}

		deposit, balance, due := ComputeSplit(total, 50, domain.PaymentModeDeposit, &eventDate)
		if deposit == nil || *deposit != 27500 {
			t.Errorf("deposit = %v, want 27500", deposit)
		}
		if balance == nil || *balance != 27500 {
			t.Errorf("balance = %v, want 27500", balance)
		}
		wantDue := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
		if due == nil || !due.Equal(wantDue) {
			t.Errorf("balance due = %v, want %v", due, wantDue)
		}
	})

	t.Run("deposit and balance always sum to the total", func(t *testing.T) {
		// Odd totals and percentages that do not divide evenly.
		cases := []struct {
			total int64
			pct   int
		}{
			{33333, 50},
			{10001, 33},
			{99999, 1},
			{1, 99},
			{55000, 100},
			{55000, 0},
		}
		for _, tc := range cases {
			deposit, balance, _ := ComputeSplit(tc.total, tc.pct, domain.PaymentModeDeposit, nil)
			if deposit == nil || balance == nil {
				t.Fatalf("total=%d pct=%d: expected split, got nil", tc.total, tc.pct)
			}
			if *deposit+*balance != tc.total {
				t.Errorf("total=%d pct=%d: deposit %d + balance %d != total", tc.total, tc.pct, *deposit, *balance)
			}
		}
	})

	t.Run("no due date without an event date", func(t *testing.T) {
		deposit, balance, due := ComputeSplit(55000, 50, domain.PaymentModeDeposit, nil)
		if deposit == nil || balance == nil {
			t.Fatal("expected split for deposit mode")
		}
		if due != nil {
			t.Errorf("balance due = %v, want nil", due)
		}
	})

	t.Run("full payment and cash on delivery produce no split", func(t *testing.T) {
		for _, mode := range []domain.PaymentMode{domain.PaymentModeFull, domain.PaymentModeCOD} {
			deposit, balance, due := ComputeSplit(55000, 50, mode, &eventDate)
			if deposit != nil || balance != nil || due != nil {
				t.Errorf("mode %s: expected nil split, got %v/%v/%v", mode, deposit, balance, due)
			}
		}
	})
}
