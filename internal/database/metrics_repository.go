package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

// MetricsRepository stores per-classification model observations used for
// drift monitoring.
type MetricsRepository struct {
	db *sqlx.DB
}

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(db *sqlx.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Record appends a model observation.
func (r *MetricsRepository) Record(ctx context.Context, m *domain.MetricRecord) error {
	query := `
		INSERT INTO model_metrics (
			metric_id, content_id, confidence_score,
			classification, timestamp
		) VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.ExecContext(ctx, query,
		m.MetricID,
		m.ContentID,
		m.Confidence,
		m.Classification,
		m.RecordedAt,
	); err != nil {
		return fmt.Errorf("failed to insert model metric: %w", err)
	}
	return nil
}

// driftRow matches the drift aggregate query. Stddev is NULL for single
// sample buckets.
type driftRow struct {
	Hour           sql.NullTime    `db:"hour"`
	Classification string          `db:"classification"`
	AvgConfidence  sql.NullFloat64 `db:"avg_confidence"`
	StdConfidence  sql.NullFloat64 `db:"std_confidence"`
	Count          int64           `db:"count"`
}

// DriftBuckets aggregates hourly confidence per classification over the
// trailing 7 days, newest hour first.
func (r *MetricsRepository) DriftBuckets(ctx context.Context) ([]domain.DriftBucket, error) {
	query := `
		SELECT
			DATE_TRUNC('hour', timestamp) as hour,
			classification,
			AVG(confidence_score) as avg_confidence,
			STDDEV(confidence_score) as std_confidence,
			COUNT(*) as count
		FROM model_metrics
		WHERE timestamp > NOW() - INTERVAL '7 days'
		GROUP BY DATE_TRUNC('hour', timestamp), classification
		ORDER BY hour DESC
	`

	var rows []driftRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query drift buckets: %w", err)
	}

	buckets := make([]domain.DriftBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, domain.DriftBucket{
			Hour:             row.Hour.Time,
			Classification:   row.Classification,
			AvgConfidence:    row.AvgConfidence.Float64,
			StddevConfidence: row.StdConfidence.Float64,
			SampleCount:      row.Count,
		})
	}
	return buckets, nil
}
