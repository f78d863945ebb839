// Package handler provides HTTP handlers for the inquiries module.
package handler

import (
	"net/http"

	"marketplace_backend/internal/access"
	"marketplace_backend/internal/inquiries/service"
	"marketplace_backend/internal/inquiries/transport"
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

// Handler handles HTTP requests for inquiries
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new inquiries handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the protected inquiry routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/decline", h.Decline)
	rg.POST("/:id/archive", h.Archive)
	rg.GET("/:id/messages", h.ListMessages)
	rg.POST("/:id/messages", h.AddMessage)
}

// RegisterPublicRoutes registers the unauthenticated intake route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.CreateIntake)
}

// CreateIntake handles POST /api/v1/public/inquiries
func (h *Handler) CreateIntake(c *gin.Context) {
	var req transport.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	// Anonymous intake has no originating user; a logged-in client keeps
	// the link so the inquiry shows up in their own list.
	var clientUserID *uuid.UUID
	if id := httpkit.GetIdentity(c); id.IsAuthenticated() {
		uid := id.UserID()
		clientUserID = &uid
	}

	result, err := h.svc.CreateIntake(c.Request.Context(), clientUserID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// List handles GET /api/v1/inquiries
func (h *Handler) List(c *gin.Context) {
	scope, ok := mustGetScope(c)
	if !ok {
		return
	}

	var req transport.ListInquiriesRequest
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

// GetByID handles GET /api/v1/inquiries/:id
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

// Decline handles POST /api/v1/inquiries/:id/decline
func (h *Handler) Decline(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Decline(c.Request.Context(), scope, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Archive handles POST /api/v1/inquiries/:id/archive
func (h *Handler) Archive(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	if err := h.svc.Archive(c.Request.Context(), scope, id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": "archived"})
}

// ListMessages handles GET /api/v1/inquiries/:id/messages
func (h *Handler) ListMessages(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListMessages(c.Request.Context(), scope, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// AddMessage handles POST /api/v1/inquiries/:id/messages
func (h *Handler) AddMessage(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var req transport.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldErrors(err))
		return
	}

	result, err := h.svc.AddMessage(c.Request.Context(), scope, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
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
		httpkit.HandleError(c, apperr.BadRequest("invalid inquiry id"))
		return access.Scope{}, uuid.Nil, false
	}
	return scope, id, true
}
