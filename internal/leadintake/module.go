// Package leadintake provides the lead intake bounded context module.
package leadintake

import (
	"rolloff_directory_backend/internal/events"
	apphttp "rolloff_directory_backend/internal/http"
	"rolloff_directory_backend/internal/leadintake/handler"
	"rolloff_directory_backend/internal/leadintake/ports"
	"rolloff_directory_backend/internal/leadintake/repository"
	"rolloff_directory_backend/internal/leadintake/service"
	"rolloff_directory_backend/platform/config"
	"rolloff_directory_backend/platform/logger"
	"rolloff_directory_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the lead intake bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the lead intake module. The city
// resolver and delivery queue are injected as ports so the module never
// imports the directory or scheduler packages directly.
func NewModule(
	pool *pgxpool.Pool,
	cities ports.CityResolver,
	delivery ports.LeadDelivery,
	bus events.Bus,
	val *validator.Validator,
	cfg *config.Config,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cities, delivery, bus, val, cfg, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leadintake"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead intake routes on the provided router context.
// Lead submission carries the stricter per-IP rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/leads", ctx.LeadRateLimiter.RateLimit(), m.handler.SubmitLead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
