// Package api exposes the moderation service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/moderation/internal/database"
	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/engine"
	"github.com/jonesrussell/north-cloud/moderation/internal/events"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
	"github.com/jonesrussell/north-cloud/moderation/internal/moderation"
	"github.com/jonesrussell/north-cloud/moderation/internal/scoring"
)

const componentCheckTimeout = 5 * time.Second

// Handler handles HTTP requests for the moderation API
type Handler struct {
	service        *moderation.Service
	verdictEngine  *engine.Engine
	scorer         *scoring.Scorer
	contentRepo    *database.ContentRepository
	queueRepo      *database.QueueRepository
	metricsRepo    *database.MetricsRepository
	db             *sqlx.DB
	redisClient    *redis.Client
	serviceName    string
	serviceVersion string
	logger         logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	service *moderation.Service,
	verdictEngine *engine.Engine,
	scorer *scoring.Scorer,
	contentRepo *database.ContentRepository,
	queueRepo *database.QueueRepository,
	metricsRepo *database.MetricsRepository,
	db *sqlx.DB,
	redisClient *redis.Client,
	serviceName, serviceVersion string,
	log logger.Logger,
) *Handler {
	return &Handler{
		service:        service,
		verdictEngine:  verdictEngine,
		scorer:         scorer,
		contentRepo:    contentRepo,
		queueRepo:      queueRepo,
		metricsRepo:    metricsRepo,
		db:             db,
		redisClient:    redisClient,
		serviceName:    serviceName,
		serviceVersion: serviceVersion,
		logger:         log,
	}
}

// Root handles GET /
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Status:    "operational",
		Service:   h.serviceName,
		Version:   h.serviceVersion,
		Timestamp: time.Now().UTC(),
	})
}

// HealthCheck handles GET /health. The database is required; the scorer
// and Redis are reported but do not fail the check since the pipeline
// degrades without them.
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), componentCheckTimeout)
	defer cancel()

	components := map[string]string{}

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("health check failed", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "unhealthy",
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}
	components["database"] = "connected"

	if err := h.scorer.Healthy(ctx); err != nil {
		components["scorer"] = "degraded"
	} else {
		components["scorer"] = "connected"
	}

	if ok, _ := events.CheckConnection(h.redisClient); ok {
		components["redis"] = "connected"
	} else {
		components["redis"] = "disabled"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:     "healthy",
		Components: components,
		Timestamp:  time.Now().UTC(),
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// SubmitContent handles POST /api/v1/content/submit
func (h *Handler) SubmitContent(c *gin.Context) {
	var submission domain.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		h.logger.Warn("Invalid content submission", logger.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := submission.Normalize(); err != nil {
		h.logger.Warn("Invalid content submission", logger.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.Process(c.Request.Context(), &submission))
}

// StatsOverview handles GET /api/v1/stats/overview
func (h *Handler) StatsOverview(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.contentRepo.OverviewStats(ctx)
	if err != nil {
		h.logger.Error("Failed to query overview stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	depth, err := h.queueRepo.PendingDepth(ctx)
	if err != nil {
		h.logger.Warn("Failed to query queue depth", logger.Error(err))
	} else {
		stats.QueueDepth = depth
	}

	c.JSON(http.StatusOK, stats)
}

// ModelDrift handles GET /api/v1/stats/model-drift
func (h *Handler) ModelDrift(c *gin.Context) {
	buckets, err := h.metricsRepo.DriftBuckets(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to query drift buckets", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, DriftResponse{
		Buckets:    buckets,
		WindowDays: 7,
	})
}

// GetThresholds handles GET /api/v1/admin/thresholds
func (h *Handler) GetThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, ThresholdsResponse{
		Thresholds: h.verdictEngine.Thresholds(),
	})
}

// UpdateThresholds handles PUT /api/v1/admin/thresholds. The whole set is
// replaced atomically; in-flight classifications keep the snapshot they
// started with.
func (h *Handler) UpdateThresholds(c *gin.Context) {
	var req UpdateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	thresholds := engine.Thresholds{
		ToxicityHigh:   req.ToxicityHigh,
		ToxicityMedium: req.ToxicityMedium,
		SpamHigh:       req.SpamHigh,
		SpamMedium:     req.SpamMedium,
		ConfidenceLow:  req.ConfidenceLow,
	}

	if err := h.verdictEngine.UpdateThresholds(thresholds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("classification thresholds updated",
		logger.Float64("toxicity_high", thresholds.ToxicityHigh),
		logger.Float64("toxicity_medium", thresholds.ToxicityMedium),
		logger.Float64("spam_high", thresholds.SpamHigh),
		logger.Float64("spam_medium", thresholds.SpamMedium),
		logger.Float64("confidence_low", thresholds.ConfidenceLow),
	)

	c.JSON(http.StatusOK, ThresholdsResponse{Thresholds: thresholds})
}
