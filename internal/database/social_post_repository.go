package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

// SocialPostRepository records the outcome of social publish attempts.
type SocialPostRepository struct {
	db *sqlx.DB
}

// NewSocialPostRepository creates a new social post repository.
func NewSocialPostRepository(db *sqlx.DB) *SocialPostRepository {
	return &SocialPostRepository{db: db}
}

// Create inserts a publish outcome record.
func (r *SocialPostRepository) Create(ctx context.Context, post *domain.SocialPostRecord) error {
	query := `
		INSERT INTO social_media_posts (
			post_id, content_id, platforms, results, posted_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.ExecContext(ctx, query,
		post.PostID,
		post.ContentID,
		post.Platforms,
		post.Results,
		post.PostedAt,
	); err != nil {
		return fmt.Errorf("failed to insert social post record: %w", err)
	}
	return nil
}
