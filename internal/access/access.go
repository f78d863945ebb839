// Package access decides which rows of the conversion pipeline an
// authenticated caller may see or act on. Scopes are resolved once per
// request from the verified token identity and passed down to
// repositories as query filters, so handlers never re-implement
// ownership checks.
package access

import (
	"marketplace_backend/platform/apperr"
	"marketplace_backend/platform/httpkit"

	"github.com/google/uuid"
)

// Role names as they appear in token claims.
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
	RoleClient = "client"
)

// Kind discriminates the scope variants.
type Kind int

const (
	// KindAdmin sees every row.
	KindAdmin Kind = iota
	// KindVendor sees rows belonging to one vendor.
	KindVendor
	// KindClient sees rows the client created.
	KindClient
)

// Scope is a tagged access scope. Exactly one of VendorID/ClientID is
// meaningful, selected by Kind; admin scopes carry neither.
type Scope struct {
	Kind     Kind
	VendorID uuid.UUID
	ClientID uuid.UUID
}

// Admin returns an unrestricted scope.
func Admin() Scope {
	return Scope{Kind: KindAdmin}
}

// Vendor returns a scope restricted to one vendor's rows.
func Vendor(vendorID uuid.UUID) Scope {
	return Scope{Kind: KindVendor, VendorID: vendorID}
}

// Client returns a scope restricted to one client's rows.
func Client(userID uuid.UUID) Scope {
	return Scope{Kind: KindClient, ClientID: userID}
}

// FromIdentity resolves the caller's scope from verified token claims.
// Vendor users must carry a vendor_id claim; a vendor role without one
// is a malformed token, not a permission problem.
func FromIdentity(id httpkit.Identity) (Scope, error) {
	switch {
	case id.HasRole(RoleAdmin):
		return Admin(), nil
	case id.HasRole(RoleVendor):
		vendorID := id.VendorID()
		if vendorID == nil {
			return Scope{}, apperr.Unauthorized("vendor account is missing its vendor assignment")
		}
		return Vendor(*vendorID), nil
	case id.HasRole(RoleClient):
		return Client(id.UserID()), nil
	default:
		return Scope{}, apperr.Forbidden("no marketplace role assigned")
	}
}

// RowFilter converts the scope into a pair of optional SQL parameters.
// Queries apply it with the pattern
//
//	($n::uuid IS NULL OR vendor_id = $n) AND ($m::uuid IS NULL OR client_user_id = $m)
//
// so one statement serves all three scopes.
func (s Scope) RowFilter() (vendorID *uuid.UUID, clientID *uuid.UUID) {
	switch s.Kind {
	case KindVendor:
		v := s.VendorID
		return &v, nil
	case KindClient:
		c := s.ClientID
		return nil, &c
	default:
		return nil, nil
	}
}

// CanActForVendor reports whether the scope may perform vendor-side
// operations (sending quotes, cancelling) for the given vendor.
func (s Scope) CanActForVendor(vendorID uuid.UUID) bool {
	switch s.Kind {
	case KindAdmin:
		return true
	case KindVendor:
		return s.VendorID == vendorID
	default:
		return false
	}
}

// CanActForClient reports whether the scope may perform client-side
// operations (accepting, declining) for the given client user.
func (s Scope) CanActForClient(clientUserID uuid.UUID) bool {
	switch s.Kind {
	case KindAdmin:
		return true
	case KindClient:
		return s.ClientID == clientUserID
	default:
		return false
	}
}

// IsAdmin reports whether the scope is unrestricted.
func (s Scope) IsAdmin() bool {
	return s.Kind == KindAdmin
}
