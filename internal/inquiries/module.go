// Package inquiries provides the inquiry intake and thread domain module.
package inquiries

import (
	"marketplace_backend/internal/events"
	apphttp "marketplace_backend/internal/http"
	"marketplace_backend/internal/inquiries/handler"
	"marketplace_backend/internal/inquiries/repository"
	"marketplace_backend/internal/inquiries/service"
	"marketplace_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the inquiries domain module
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	service *service.Service
}

// NewModule creates a new inquiries module with all dependencies wired.
// listings resolves inquiry targets against the vendors module.
func NewModule(pool *pgxpool.Pool, listings service.ListingReader, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, listings, eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		repo:    repo,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "inquiries"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	inquiries := ctx.Protected.Group("/inquiries")
	m.handler.RegisterRoutes(inquiries)

	// Public intake — rate limited, no auth middleware
	publicInquiries := ctx.V1.Group("/public/inquiries")
	publicInquiries.Use(ctx.IntakeRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(publicInquiries)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
