// Package bookings provides the quote acceptance and booking domain module.
package bookings

import (
	"marketplace_backend/internal/bookings/handler"
	"marketplace_backend/internal/bookings/repository"
	"marketplace_backend/internal/bookings/service"
	"marketplace_backend/internal/events"
	apphttp "marketplace_backend/internal/http"
	"marketplace_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the bookings domain module
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	service *service.Service
}

// NewModule creates a new bookings module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, quotes service.QuoteGateway, vendors service.VendorContacts, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, quotes, vendors, eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		repo:    repo,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "bookings"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes. Quote acceptance is
// registered under /quotes because that is the resource callers act on.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	bookings := ctx.Protected.Group("/bookings")
	m.handler.RegisterRoutes(bookings)

	quotes := ctx.Protected.Group("/quotes")
	m.handler.RegisterAcceptRoute(quotes)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
