package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rolloff_directory_backend/internal/leadintake/service"
	"rolloff_directory_backend/internal/leadintake/transport"
	"rolloff_directory_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for lead intake.
type Handler struct {
	svc *service.Service
}

// New creates a new lead intake handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// SubmitLead accepts a consumer's service request.
// POST /api/v1/leads
//
// The service owns validation so field-level error details always use the
// wire field names external tooling depends on.
func (h *Handler) SubmitLead(c *gin.Context) {
	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}
