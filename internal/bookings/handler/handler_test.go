package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace_backend/internal/access"
	"marketplace_backend/platform/httpkit"
	"marketplace_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func listContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

// Authorization is resolved before the query string is touched, so an
// unauthenticated caller gets 401 even when the query would also fail
// binding. The service is never reached on either path, hence nil.
func TestList_ScopeResolvedBeforeBinding(t *testing.T) {
	h := New(nil, validator.New())

	t.Run("unauthenticated caller with a malformed query gets 401", func(t *testing.T) {
		c, w := listContext(t, "/api/v1/bookings?page=not-a-number")

		h.List(c)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("authenticated caller with a malformed query gets 400", func(t *testing.T) {
		c, w := listContext(t, "/api/v1/bookings?page=not-a-number")
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextRolesKey, []string{access.RoleClient})

		h.List(c)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
