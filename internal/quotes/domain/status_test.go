package domain

import (
	"testing"
	"time"

	"marketplace_backend/platform/apperr"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"draft can be sent", StatusDraft, StatusSent, false},
		{"draft can be cancelled", StatusDraft, StatusCancelled, false},
		{"draft cannot be accepted directly", StatusDraft, StatusAccepted, true},
		{"sent can be accepted", StatusSent, StatusAccepted, false},
		{"sent can be declined", StatusSent, StatusDeclined, false},
		{"sent can be cancelled", StatusSent, StatusCancelled, false},
		{"sent can expire", StatusSent, StatusExpired, false},
		{"accepted is terminal", StatusAccepted, StatusSent, true},
		{"declined cannot return to sent", StatusDeclined, StatusSent, true},
		{"cancelled cannot return to sent", StatusCancelled, StatusSent, true},
		{"expired cannot be accepted", StatusExpired, StatusAccepted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.from.Transition(tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("Transition(%s -> %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestCheckAcceptable_PreconditionOrder(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	allModes := AllPaymentModes

	t.Run("draft quote is rejected before anything else", func(t *testing.T) {
		// Expired deadline and a disallowed mode are both present, but the
		// draft check must fire first.
		err := CheckAcceptable(StatusDraft, &past, now, nil, PaymentModeCOD)
		assertReason(t, err, apperr.KindBadRequest, "quote has not been sent yet")
	})

	t.Run("accepted quote reports already accepted", func(t *testing.T) {
		err := CheckAcceptable(StatusAccepted, &past, now, nil, PaymentModeCOD)
		assertReason(t, err, apperr.KindConflict, "quote has already been accepted")
	})

	t.Run("declined quote is permanently unacceptable", func(t *testing.T) {
		err := CheckAcceptable(StatusDeclined, &future, now, allModes, PaymentModeFull)
		assertReason(t, err, apperr.KindBadRequest, "quote has been declined")
	})

	t.Run("cancelled quote is permanently unacceptable", func(t *testing.T) {
		err := CheckAcceptable(StatusCancelled, &future, now, allModes, PaymentModeFull)
		assertReason(t, err, apperr.KindBadRequest, "quote has been cancelled")
	})

	t.Run("past deadline expires a quote still marked sent", func(t *testing.T) {
		err := CheckAcceptable(StatusSent, &past, now, allModes, PaymentModeFull)
		assertReason(t, err, apperr.KindGone, "quote has expired")
	})

	t.Run("stored expired status expires without a deadline", func(t *testing.T) {
		err := CheckAcceptable(StatusExpired, nil, now, allModes, PaymentModeFull)
		assertReason(t, err, apperr.KindGone, "quote has expired")
	})

	t.Run("disallowed payment mode is rejected for every mode", func(t *testing.T) {
		for _, mode := range []PaymentMode{PaymentModeDeposit, PaymentModeCOD} {
			err := CheckAcceptable(StatusSent, &future, now, []PaymentMode{PaymentModeFull}, mode)
			assertReason(t, err, apperr.KindBadRequest, "payment mode not allowed for this quote")
		}
	})

	t.Run("sent quote within deadline and allowed mode passes", func(t *testing.T) {
		if err := CheckAcceptable(StatusSent, &future, now, allModes, PaymentModeCOD); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("no deadline means no expiry", func(t *testing.T) {
		if err := CheckAcceptable(StatusSent, nil, now, allModes, PaymentModeFull); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestParsePaymentMode(t *testing.T) {
	for _, raw := range []string{"FULL_PAYMENT", "DEPOSIT_BALANCE", "CASH_ON_DELIVERY"} {
		if _, err := ParsePaymentMode(raw); err != nil {
			t.Errorf("ParsePaymentMode(%q) unexpected error: %v", raw, err)
		}
	}
	if _, err := ParsePaymentMode("BARTER"); err == nil {
		t.Error("expected error for unknown payment mode")
	}
}

func assertReason(t *testing.T, err error, kind apperr.Kind, message string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if appErr.Kind != kind {
		t.Errorf("kind = %v, want %v", appErr.Kind, kind)
	}
	if appErr.Message != message {
		t.Errorf("message = %q, want %q", appErr.Message, message)
	}
}
