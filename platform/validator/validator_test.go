package validator

import (
	"errors"
	"testing"
)

type signupForm struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,email"`
	Seats int    `validate:"gt=0"`
}

func TestFieldErrors(t *testing.T) {
	val := New()

	t.Run("maps each failing field to a message", func(t *testing.T) {
		err := val.Struct(signupForm{Name: "A", Email: "not-an-email", Seats: 0})
		if err == nil {
			t.Fatal("expected validation to fail")
		}

		fields := val.FieldErrors(err)
		if fields["name"] != "must be at least 2 characters" {
			t.Errorf("name message = %q", fields["name"])
		}
		if fields["email"] != "must be a valid email address" {
			t.Errorf("email message = %q", fields["email"])
		}
		if fields["seats"] != "must be greater than 0" {
			t.Errorf("seats message = %q", fields["seats"])
		}
	})

	t.Run("valid struct yields no errors", func(t *testing.T) {
		err := val.Struct(signupForm{Name: "Dana", Email: "dana@example.com", Seats: 4})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fields := val.FieldErrors(err); fields != nil {
			t.Errorf("expected nil map, got %v", fields)
		}
	})

	t.Run("non-validation error is preserved", func(t *testing.T) {
		fields := val.FieldErrors(errors.New("boom"))
		if fields["_"] != "boom" {
			t.Errorf("fallback entry = %q", fields["_"])
		}
	})
}
