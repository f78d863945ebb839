// Package handler provides HTTP handlers for the bookings module.
package handler

import (
	"net/http"

	"marketplace_backend/internal/access"
	"marketplace_backend/internal/bookings/service"
	"marketplace_backend/internal/bookings/transport"
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

// Handler handles HTTP requests for bookings
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new bookings handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the booking routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.GET("/:id/timeline", h.Timeline)
}

// RegisterAcceptRoute registers the quote acceptance route. It lives on
// the quotes path because callers accept a quote, but the operation
// belongs here: accepting a quote creates a booking.
func (h *Handler) RegisterAcceptRoute(rg *gin.RouterGroup) {
	rg.POST("/:id/accept", h.AcceptQuote)
}

// AcceptQuote handles POST /api/v1/quotes/:id/accept
func (h *Handler) AcceptQuote(c *gin.Context) {
	scope, ok := mustGetScope(c)
	if !ok {
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid quote id"))
		return
	}

	var req transport.AcceptQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	result, err := h.svc.AcceptQuote(c.Request.Context(), scope, quoteID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// List handles GET /api/v1/bookings
func (h *Handler) List(c *gin.Context) {
	scope, ok := mustGetScope(c)
	if !ok {
		return
	}

	var req transport.ListBookingsRequest
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

// GetByID handles GET /api/v1/bookings/:id
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

// UpdateStatus handles PATCH /api/v1/bookings/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var req transport.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	result, err := h.svc.UpdateStatus(c.Request.Context(), scope, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Timeline handles GET /api/v1/bookings/:id/timeline
func (h *Handler) Timeline(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Timeline(c.Request.Context(), scope, id)
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
		httpkit.HandleError(c, apperr.BadRequest("invalid booking id"))
		return access.Scope{}, uuid.Nil, false
	}
	return scope, id, true
}
