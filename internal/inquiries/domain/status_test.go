package domain

import (
	"testing"

	"marketplace_backend/platform/apperr"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"new can be quoted", StatusNew, StatusQuoted, false},
		{"new can be declined", StatusNew, StatusDeclined, false},
		{"new can be archived", StatusNew, StatusArchived, false},
		{"new cannot be accepted directly", StatusNew, StatusAccepted, true},
		{"quoted can be accepted", StatusQuoted, StatusAccepted, false},
		{"quoted can be declined", StatusQuoted, StatusDeclined, false},
		{"accepted can only be archived", StatusAccepted, StatusArchived, false},
		{"accepted cannot return to quoted", StatusAccepted, StatusQuoted, true},
		{"declined cannot be quoted again", StatusDeclined, StatusQuoted, true},
		{"archived is terminal", StatusArchived, StatusNew, true},
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

func TestTransitionToUnknownStatus(t *testing.T) {
	err := StatusNew.Transition(Status("Pending"))
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("Transition to unknown status error = %v, want bad request", err)
	}
}
