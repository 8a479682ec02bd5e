package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, jwtSecret string) {
	// Service status and health checks
	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Content moderation
		content := v1.Group("/content")
		{
			content.POST("/submit", handler.SubmitContent) // POST /api/v1/content/submit
		}

		// Statistics endpoints
		stats := v1.Group("/stats")
		{
			stats.GET("/overview", handler.StatsOverview)  // GET /api/v1/stats/overview
			stats.GET("/model-drift", handler.ModelDrift)  // GET /api/v1/stats/model-drift
		}

		// Admin endpoints - protected with JWT
		admin := v1.Group("/admin")
		if jwtSecret != "" {
			admin.Use(JWTMiddleware(jwtSecret))
		}
		{
			admin.GET("/thresholds", handler.GetThresholds)    // GET /api/v1/admin/thresholds
			admin.PUT("/thresholds", handler.UpdateThresholds) // PUT /api/v1/admin/thresholds
		}
	}
}

// RegisterMetrics mounts the Prometheus handler at /metrics.
func RegisterMetrics(router *gin.Engine, metricsHandler http.Handler) {
	router.GET("/metrics", gin.WrapH(metricsHandler))
}
