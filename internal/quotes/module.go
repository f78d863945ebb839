// Package quotes provides the quote drafting and lifecycle domain module.
package quotes

import (
	"marketplace_backend/internal/events"
	apphttp "marketplace_backend/internal/http"
	"marketplace_backend/internal/quotes/handler"
	"marketplace_backend/internal/quotes/repository"
	"marketplace_backend/internal/quotes/service"
	"marketplace_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	service *service.Service
}

// NewModule creates a new quotes module with all dependencies wired.
// inquiries and vendors are the cross-module collaborators the quote
// lifecycle needs; validityDays is the default validity window.
func NewModule(pool *pgxpool.Pool, inquiries service.InquiryLink, vendors service.VendorDirectory, eventBus events.Bus, val *validator.Validator, validityDays int) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, inquiries, vendors, eventBus, validityDays)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		repo:    repo,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	quotes := ctx.Protected.Group("/quotes")
	m.handler.RegisterRoutes(quotes)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
