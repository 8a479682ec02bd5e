package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

// NotificationRepository records rejection notices delivered to authors.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification record.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.UserNotification) error {
	query := `
		INSERT INTO user_notifications (
			notification_id, author_id, notification_type,
			message, sent_at, status
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.db.ExecContext(ctx, query,
		n.NotificationID,
		n.AuthorID,
		n.NotificationType,
		n.Message,
		n.SentAt,
		n.Status,
	); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
