package access

import (
	"testing"

	"marketplace_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeIdentity struct {
	userID   uuid.UUID
	roles    []string
	vendorID *uuid.UUID
}

func (f *fakeIdentity) UserID() uuid.UUID    { return f.userID }
func (f *fakeIdentity) Roles() []string      { return f.roles }
func (f *fakeIdentity) VendorID() *uuid.UUID { return f.vendorID }
func (f *fakeIdentity) IsAuthenticated() bool {
	return true
}
func (f *fakeIdentity) HasRole(role string) bool {
	for _, r := range f.roles {
		if r == role {
			return true
		}
	}
	return false
}

func TestFromIdentity(t *testing.T) {
	userID := uuid.New()
	vendorID := uuid.New()

	t.Run("admin role wins over other roles", func(t *testing.T) {
		scope, err := FromIdentity(&fakeIdentity{
			userID: userID,
			roles:  []string{RoleVendor, RoleAdmin},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !scope.IsAdmin() {
			t.Errorf("expected admin scope, got kind %v", scope.Kind)
		}
	})

	t.Run("vendor role requires vendor assignment", func(t *testing.T) {
		_, err := FromIdentity(&fakeIdentity{
			userID: userID,
			roles:  []string{RoleVendor},
		})
		if apperr.GetKind(err) != apperr.KindUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("vendor scope carries vendor id", func(t *testing.T) {
		scope, err := FromIdentity(&fakeIdentity{
			userID:   userID,
			roles:    []string{RoleVendor},
			vendorID: &vendorID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scope.Kind != KindVendor || scope.VendorID != vendorID {
			t.Errorf("expected vendor scope for %s, got %+v", vendorID, scope)
		}
	})

	t.Run("client scope carries user id", func(t *testing.T) {
		scope, err := FromIdentity(&fakeIdentity{
			userID: userID,
			roles:  []string{RoleClient},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scope.Kind != KindClient || scope.ClientID != userID {
			t.Errorf("expected client scope for %s, got %+v", userID, scope)
		}
	})

	t.Run("no role is forbidden", func(t *testing.T) {
		_, err := FromIdentity(&fakeIdentity{userID: userID})
		if apperr.GetKind(err) != apperr.KindForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	})
}

func TestRowFilter(t *testing.T) {
	vendorID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name       string
		scope      Scope
		wantVendor *uuid.UUID
		wantClient *uuid.UUID
	}{
		{"admin filters nothing", Admin(), nil, nil},
		{"vendor filters by vendor id", Vendor(vendorID), &vendorID, nil},
		{"client filters by client id", Client(userID), nil, &userID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotVendor, gotClient := tt.scope.RowFilter()
			if !uuidPtrEqual(gotVendor, tt.wantVendor) {
				t.Errorf("vendor filter = %v, want %v", gotVendor, tt.wantVendor)
			}
			if !uuidPtrEqual(gotClient, tt.wantClient) {
				t.Errorf("client filter = %v, want %v", gotClient, tt.wantClient)
			}
		})
	}
}

func TestCanAct(t *testing.T) {
	vendorID := uuid.New()
	otherVendor := uuid.New()
	userID := uuid.New()

	if !Admin().CanActForVendor(vendorID) || !Admin().CanActForClient(userID) {
		t.Error("admin scope should act for anyone")
	}
	if !Vendor(vendorID).CanActForVendor(vendorID) {
		t.Error("vendor scope should act for its own vendor")
	}
	if Vendor(vendorID).CanActForVendor(otherVendor) {
		t.Error("vendor scope should not act for another vendor")
	}
	if Vendor(vendorID).CanActForClient(userID) {
		t.Error("vendor scope should not act for a client")
	}
	if !Client(userID).CanActForClient(userID) {
		t.Error("client scope should act for itself")
	}
	if Client(userID).CanActForVendor(vendorID) {
		t.Error("client scope should not act for a vendor")
	}
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
