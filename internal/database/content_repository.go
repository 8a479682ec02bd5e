package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ContentRepository handles database operations for moderated content and
// its audit trail.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// CreateWithAudit inserts the content record and its audit entry in a
// single transaction so the trail never diverges from stored content.
func (r *ContentRepository) CreateWithAudit(ctx context.Context, content *domain.ContentRecord, audit *domain.AuditEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	contentQuery := `
		INSERT INTO content (
			content_id, author_id, content_text, platform,
			classification, confidence, toxicity_score, spam_score,
			sentiment, sentiment_score, action_taken, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	if _, err = tx.ExecContext(ctx, contentQuery,
		content.ContentID,
		content.AuthorID,
		content.ContentText,
		content.Platform,
		content.Classification,
		content.Confidence,
		content.ToxicityScore,
		content.SpamScore,
		content.Sentiment,
		content.SentimentScore,
		content.ActionTaken,
		content.Metadata,
		content.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}

	if err = insertAudit(ctx, tx, audit); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CreateAudit inserts a standalone audit entry, used for processing errors
// recorded outside the normal storage transaction.
func (r *ContentRepository) CreateAudit(ctx context.Context, audit *domain.AuditEntry) error {
	return insertAudit(ctx, r.db, audit)
}

func insertAudit(ctx context.Context, ext sqlx.ExtContext, audit *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_log (
			log_id, content_id, event_type, event_data, timestamp
		) VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := ext.ExecContext(ctx, query,
		audit.LogID,
		audit.ContentID,
		audit.EventType,
		audit.EventData,
		audit.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// GetByContentID retrieves a stored content record.
func (r *ContentRepository) GetByContentID(ctx context.Context, contentID string) (*domain.ContentRecord, error) {
	var record domain.ContentRecord
	query := `
		SELECT content_id, author_id, content_text, platform,
		       classification, confidence, toxicity_score, spam_score,
		       sentiment, sentiment_score, action_taken, metadata, created_at
		FROM content
		WHERE content_id = $1
	`

	if err := r.db.GetContext(ctx, &record, query, contentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return &record, nil
}

// overviewRow matches the 24 hour overview aggregate query.
type overviewRow struct {
	TotalContent  int64           `db:"total_content"`
	Acceptable    int64           `db:"acceptable"`
	NeedsReview   int64           `db:"needs_review"`
	Toxic         int64           `db:"toxic"`
	Spam          int64           `db:"spam"`
	AvgConfidence sql.NullFloat64 `db:"avg_confidence"`
}

// OverviewStats aggregates moderation activity over the trailing 24 hours.
func (r *ContentRepository) OverviewStats(ctx context.Context) (*domain.OverviewStats, error) {
	query := `
		SELECT
			COUNT(*) as total_content,
			COALESCE(SUM(CASE WHEN classification = 'acceptable' THEN 1 ELSE 0 END), 0) as acceptable,
			COALESCE(SUM(CASE WHEN classification = 'needs_review' THEN 1 ELSE 0 END), 0) as needs_review,
			COALESCE(SUM(CASE WHEN classification = 'toxic' THEN 1 ELSE 0 END), 0) as toxic,
			COALESCE(SUM(CASE WHEN classification = 'spam' THEN 1 ELSE 0 END), 0) as spam,
			AVG(confidence) as avg_confidence
		FROM content
		WHERE created_at > NOW() - INTERVAL '24 hours'
	`

	var row overviewRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("failed to query overview stats: %w", err)
	}

	return &domain.OverviewStats{
		TotalProcessed: row.TotalContent,
		ByClassification: map[string]int64{
			domain.ClassificationAcceptable:  row.Acceptable,
			domain.ClassificationNeedsReview: row.NeedsReview,
			domain.ClassificationToxic:       row.Toxic,
			domain.ClassificationSpam:        row.Spam,
		},
		AverageConfidence: row.AvgConfidence.Float64,
		WindowHours:       24,
	}, nil
}
