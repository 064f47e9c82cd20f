package handlers

import (
	"net/http"

	"lumina_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	*BaseHandler
	moderationService services.ModerationService
}

func NewHealthHandler(base *BaseHandler, moderationService services.ModerationService) *HealthHandler {
	return &HealthHandler{BaseHandler: base, moderationService: moderationService}
}

func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	health, err := h.moderationService.Health(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, health)
}
