package api

import (
	"time"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/engine"
)

// RootResponse is returned by the service root endpoint.
type RootResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse reports overall and per-component health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
	Error      string            `json:"error,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// DriftResponse wraps the hourly drift buckets.
type DriftResponse struct {
	Buckets    []domain.DriftBucket `json:"buckets"`
	WindowDays int                  `json:"window_days"`
}

// ThresholdsResponse reports the active threshold snapshot.
type ThresholdsResponse struct {
	Thresholds engine.Thresholds `json:"thresholds"`
}

// UpdateThresholdsRequest carries a complete replacement threshold set.
// Partial updates are not supported; the whole snapshot swaps at once.
type UpdateThresholdsRequest struct {
	ToxicityHigh   float64 `binding:"required,gt=0,lte=1" json:"toxicity_high"`
	ToxicityMedium float64 `binding:"required,gt=0,lte=1" json:"toxicity_medium"`
	SpamHigh       float64 `binding:"required,gt=0,lte=1" json:"spam_high"`
	SpamMedium     float64 `binding:"required,gt=0,lte=1" json:"spam_medium"`
	ConfidenceLow  float64 `binding:"required,gt=0,lte=1" json:"confidence_low"`
}
