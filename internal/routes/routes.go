package routes

import (
	"lumina_backend/internal/handlers"
	"lumina_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует HTTP API v1
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.SubmissionHandler.RegisterRoutes(api)
	}

	ginRouter.NoRoute(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.NotFound("route", "Route not found"))
	})
}
