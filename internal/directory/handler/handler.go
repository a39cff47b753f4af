package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rolloff_directory_backend/internal/directory/service"
	"rolloff_directory_backend/internal/directory/transport"
	"rolloff_directory_backend/platform/config"
	"rolloff_directory_backend/platform/httpkit"
	"rolloff_directory_backend/platform/validator"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidSlug    = "invalid city slug"
)

// Handler handles HTTP requests for the directory read API.
type Handler struct {
	svc            *service.Service
	val            *validator.Validator
	nearbyLimit    int
	nearbyLimitMax int
}

// New creates a new directory handler.
func New(svc *service.Service, val *validator.Validator, cfg config.DirectoryConfig) *Handler {
	return &Handler{
		svc:            svc,
		val:            val,
		nearbyLimit:    cfg.GetNearbyLimit(),
		nearbyLimitMax: cfg.GetNearbyLimitMax(),
	}
}

// slugParams extracts and validates the (state, city) slug pair from the
// request path. Returns false after writing the error response if either
// slug is malformed.
func slugParams(c *gin.Context) (string, string, bool) {
	stateSlug := c.Param("state")
	citySlug := c.Param("city")
	if !transport.ValidSlug(stateSlug) || !transport.ValidSlug(citySlug) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSlug, nil)
		return "", "", false
	}
	return stateSlug, citySlug, true
}

// GetCityDirectoryView returns the composed directory view for a city.
// GET /api/v1/directory/:state/:city
func (h *Handler) GetCityDirectoryView(c *gin.Context) {
	stateSlug, citySlug, ok := slugParams(c)
	if !ok {
		return
	}

	view, err := h.svc.GetCityDirectoryView(c.Request.Context(), stateSlug, citySlug, h.nearbyLimit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, view)
}

// GetCity returns the bare city record.
// GET /api/v1/directory/:state/:city/info
func (h *Handler) GetCity(c *gin.Context) {
	stateSlug, citySlug, ok := slugParams(c)
	if !ok {
		return
	}

	city, err := h.svc.GetCityBySlug(c.Request.Context(), stateSlug, citySlug)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCityResponse(city))
}

// ListBusinesses returns a city's businesses in display order.
// GET /api/v1/directory/:state/:city/businesses
func (h *Handler) ListBusinesses(c *gin.Context) {
	stateSlug, citySlug, ok := slugParams(c)
	if !ok {
		return
	}

	city, err := h.svc.GetCityBySlug(c.Request.Context(), stateSlug, citySlug)
	if httpkit.HandleError(c, err) {
		return
	}

	businesses, err := h.svc.ListBusinessesByCity(c.Request.Context(), city.ID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToBusinessResponses(businesses))
}

// ListPricing returns a city's curated pricing rows.
// GET /api/v1/directory/:state/:city/pricing
func (h *Handler) ListPricing(c *gin.Context) {
	stateSlug, citySlug, ok := slugParams(c)
	if !ok {
		return
	}

	city, err := h.svc.GetCityBySlug(c.Request.Context(), stateSlug, citySlug)
	if httpkit.HandleError(c, err) {
		return
	}

	pricing, err := h.svc.ListCityPricing(c.Request.Context(), city.ID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToPricingResponses(pricing))
}

// ListNearbyCities returns the cities nearest to the requested one.
// GET /api/v1/directory/:state/:city/nearby?limit=5
func (h *Handler) ListNearbyCities(c *gin.Context) {
	stateSlug, citySlug, ok := slugParams(c)
	if !ok {
		return
	}

	var req transport.NearbyQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, validator.FieldErrors(err))
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = h.nearbyLimit
	}
	if limit > h.nearbyLimitMax {
		limit = h.nearbyLimitMax
	}

	city, err := h.svc.GetCityBySlug(c.Request.Context(), stateSlug, citySlug)
	if httpkit.HandleError(c, err) {
		return
	}

	nearby, err := h.svc.NearbyCities(c.Request.Context(), city.ID, city.Latitude, city.Longitude, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, nearby)
}
