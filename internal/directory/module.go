// Package directory provides the directory bounded context module:
// city resolution, business listings, curated pricing, and nearby cities.
package directory

import (
	"rolloff_directory_backend/internal/directory/handler"
	"rolloff_directory_backend/internal/directory/repository"
	"rolloff_directory_backend/internal/directory/service"
	apphttp "rolloff_directory_backend/internal/http"
	"rolloff_directory_backend/platform/config"
	"rolloff_directory_backend/platform/logger"
	"rolloff_directory_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the directory bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the directory module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg *config.Config, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val, cfg)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "directory"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts directory routes on the provided router context.
// All directory reads are public.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/directory")
	group.GET("/:state/:city", m.handler.GetCityDirectoryView)
	group.GET("/:state/:city/info", m.handler.GetCity)
	group.GET("/:state/:city/businesses", m.handler.ListBusinesses)
	group.GET("/:state/:city/pricing", m.handler.ListPricing)
	group.GET("/:state/:city/nearby", m.handler.ListNearbyCities)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
