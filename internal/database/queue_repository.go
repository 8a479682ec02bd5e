package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

// QueueRepository handles database operations for the human review queue.
type QueueRepository struct {
	db *sqlx.DB
}

// NewQueueRepository creates a new queue repository.
func NewQueueRepository(db *sqlx.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// Enqueue inserts a review queue entry.
func (r *QueueRepository) Enqueue(ctx context.Context, entry *domain.ModerationQueueEntry) error {
	query := `
		INSERT INTO moderation_queue (
			queue_id, content_id, author_id, content_text,
			reason, priority, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := r.db.ExecContext(ctx, query,
		entry.QueueID,
		entry.ContentID,
		entry.AuthorID,
		entry.ContentText,
		entry.Reason,
		entry.Priority,
		entry.Status,
		entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to enqueue for review: %w", err)
	}
	return nil
}

// PendingDepth returns the number of entries awaiting review.
func (r *QueueRepository) PendingDepth(ctx context.Context) (int64, error) {
	var depth int64
	query := `SELECT COUNT(*) FROM moderation_queue WHERE status = $1`

	if err := r.db.GetContext(ctx, &depth, query, domain.QueueStatusPending); err != nil {
		return 0, fmt.Errorf("failed to count pending queue entries: %w", err)
	}
	return depth, nil
}

// ListPending returns pending entries ordered by priority, most urgent
// first, then oldest first within a priority.
func (r *QueueRepository) ListPending(ctx context.Context, limit int) ([]domain.ModerationQueueEntry, error) {
	query := `
		SELECT queue_id, content_id, author_id, content_text,
		       reason, priority, status, created_at
		FROM moderation_queue
		WHERE status = $1
		ORDER BY priority DESC, created_at ASC
		LIMIT $2
	`

	var entries []domain.ModerationQueueEntry
	if err := r.db.SelectContext(ctx, &entries, query, domain.QueueStatusPending, limit); err != nil {
		return nil, fmt.Errorf("failed to list pending queue entries: %w", err)
	}
	return entries, nil
}
