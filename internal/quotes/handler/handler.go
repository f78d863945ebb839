// Package handler provides HTTP handlers for the quotes module.
package handler

import (
	"net/http"

	"marketplace_backend/internal/access"
	"marketplace_backend/internal/quotes/service"
	"marketplace_backend/internal/quotes/transport"
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

// Handler handles HTTP requests for quotes
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quotes handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the protected quote routes. Acceptance lives in
// the bookings module because accepting a quote creates a booking.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/send", h.Send)
	rg.POST("/:id/decline", h.Decline)
	rg.POST("/:id/cancel", h.Cancel)
}

// Create handles POST /api/v1/quotes
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	scope, ok := mustGetScope(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), scope, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// List handles GET /api/v1/quotes
func (h *Handler) List(c *gin.Context) {
	scope, ok := mustGetScope(c)
	if !ok {
		return
	}

	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	result, err := h.svc.List(c.Request.Context(), scope, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/quotes/:id
func (h *Handler) GetByID(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), scope, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Update handles PUT /api/v1/quotes/:id
func (h *Handler) Update(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var req transport.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	result, err := h.svc.Update(c.Request.Context(), scope, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Send handles POST /api/v1/quotes/:id/send
func (h *Handler) Send(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Send(c.Request.Context(), scope, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Decline handles POST /api/v1/quotes/:id/decline
func (h *Handler) Decline(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	// The decline reason is optional; an empty body is accepted.
	var req transport.DeclineQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
			return
		}
	}

	result, err := h.svc.Decline(c.Request.Context(), scope, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Cancel handles POST /api/v1/quotes/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), scope, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func mustGetScope(c *gin.Context) (access.Scope, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return access.Scope{}, false
	}
	scope, err := access.FromIdentity(id)
	if err != nil {
		httpkit.HandleError(c, err)
		return access.Scope{}, false
	}
	return scope, true
}

func scopeAndID(c *gin.Context) (access.Scope, uuid.UUID, bool) {
	scope, ok := mustGetScope(c)
	if !ok {
		return access.Scope{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid quote id"))
		return access.Scope{}, uuid.Nil, false
	}
	return scope, id, true
}
