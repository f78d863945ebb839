// Package handler provides HTTP handlers for the vendors module.
package handler

import (
	"net/http"

	"marketplace_backend/internal/access"
	"marketplace_backend/internal/vendors/service"
	"marketplace_backend/internal/vendors/transport"
	"marketplace_backend/platform/apperr"
	"marketplace_backend/platform/httpkit"
	"marketplace_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles vendor HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new vendors handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the protected vendor routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.GetMe)
	rg.GET("/me/stats", h.GetMyStats)
	rg.GET("/me/services", h.ListMyServices)
}

// RegisterPublicRoutes mounts the unauthenticated vendor routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetPublic)
}

// RegisterAdminRoutes mounts the vendor management routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.POST("/:id/publish", h.Publish)
	rg.POST("/:id/services", h.CreateService)
}

// Create handles POST /api/v1/admin/vendors
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// Publish handles POST /api/v1/admin/vendors/:id/publish
func (h *Handler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid vendor id"))
		return
	}

	if err := h.svc.Publish(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"published": true})
}

// CreateService handles POST /api/v1/admin/vendors/:id/services
func (h *Handler) CreateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid vendor id"))
		return
	}

	var req transport.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	resp, err := h.svc.CreateService(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// GetMe returns the calling vendor's own profile.
func (h *Handler) GetMe(c *gin.Context) {
	scope, ok := h.vendorScope(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), scope.VendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// GetMyStats returns the calling vendor's conversion counters.
func (h *Handler) GetMyStats(c *gin.Context) {
	scope, ok := h.vendorScope(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetStats(c.Request.Context(), scope.VendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ListMyServices returns the calling vendor's service listings.
func (h *Handler) ListMyServices(c *gin.Context) {
	scope, ok := h.vendorScope(c)
	if !ok {
		return
	}

	resp, err := h.svc.ListServices(c.Request.Context(), scope.VendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// GetPublic returns a vendor profile for the public marketplace pages.
// Unpublished vendors are hidden behind a not-found.
func (h *Handler) GetPublic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid vendor id"))
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	if !resp.Published {
		httpkit.HandleError(c, apperr.NotFound("vendor not found"))
		return
	}
	httpkit.OK(c, resp)
}

// vendorScope resolves the caller's scope and rejects non-vendor callers.
func (h *Handler) vendorScope(c *gin.Context) (access.Scope, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return access.Scope{}, false
	}
	scope, err := access.FromIdentity(id)
	if err != nil {
		httpkit.HandleError(c, err)
		return access.Scope{}, false
	}
	if scope.Kind != access.KindVendor {
		httpkit.HandleError(c, apperr.Forbidden("vendor account required"))
		return access.Scope{}, false
	}
	return scope, true
}
