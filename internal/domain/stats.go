package domain

import "time"

// MetricRecord is a single model observation used for drift analysis.
type MetricRecord struct {
	MetricID       string    `db:"metric_id"        json:"metric_id"`
	ContentID      string    `db:"content_id"       json:"content_id"`
	Classification string    `db:"classification"   json:"classification"`
	Confidence     float64   `db:"confidence_score" json:"confidence_score"`
	RecordedAt     time.Time `db:"recorded_at"      json:"recorded_at"`
}

// OverviewStats summarizes moderation activity over the trailing 24 hours.
type OverviewStats struct {
	TotalProcessed    int64            `json:"total_processed"`
	ByClassification  map[string]int64 `json:"by_classification"`
	AverageConfidence float64          `json:"average_confidence"`
	QueueDepth        int64            `json:"queue_depth"`
	WindowHours       int              `json:"window_hours"`
}

// DriftBucket holds hourly aggregates of model confidence per
// classification for drift detection over the trailing 7 days.
type DriftBucket struct {
	Hour             time.Time `db:"hour"             json:"hour"`
	Classification   string    `db:"classification"   json:"classification"`
	AvgConfidence    float64   `db:"avg_confidence"   json:"avg_confidence"`
	StddevConfidence float64   `db:"stddev_confidence" json:"stddev_confidence"`
	SampleCount      int64     `db:"sample_count"     json:"sample_count"`
}
