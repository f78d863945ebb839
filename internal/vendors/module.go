// Package vendors provides the vendor profile and listings domain module.
package vendors

import (
	apphttp "marketplace_backend/internal/http"
	"marketplace_backend/internal/vendors/handler"
	"marketplace_backend/internal/vendors/repository"
	"marketplace_backend/internal/vendors/service"
	"marketplace_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the vendors domain module
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	service *service.Service
}

// NewModule creates a new vendors module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		repo:    repo,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "vendors"
}

// Repository returns the repository for cross-module adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	vendors := ctx.Protected.Group("/vendors")
	m.handler.RegisterRoutes(vendors)

	// Public routes — no auth middleware
	publicVendors := ctx.V1.Group("/public/vendors")
	m.handler.RegisterPublicRoutes(publicVendors)

	adminVendors := ctx.Admin.Group("/vendors")
	m.handler.RegisterAdminRoutes(adminVendors)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
