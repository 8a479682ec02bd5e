package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

// ViolationRepository tracks repeat offenses per author.
type ViolationRepository struct {
	db *sqlx.DB
}

// NewViolationRepository creates a new violation repository.
func NewViolationRepository(db *sqlx.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

// Increment bumps the violation counter for an author and type. The upsert
// is atomic so concurrent rejections for the same author never lose counts.
func (r *ViolationRepository) Increment(ctx context.Context, authorID, violationType string, at time.Time) error {
	query := `
		INSERT INTO user_violations (author_id, violation_type, count, last_violation)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (author_id, violation_type)
		DO UPDATE SET
			count = user_violations.count + 1,
			last_violation = $3
	`

	if _, err := r.db.ExecContext(ctx, query, authorID, violationType, at); err != nil {
		return fmt.Errorf("failed to increment violation counter: %w", err)
	}
	return nil
}

// Get returns the violation record for an author and type.
func (r *ViolationRepository) Get(ctx context.Context, authorID, violationType string) (*domain.UserViolation, error) {
	var violation domain.UserViolation
	query := `
		SELECT author_id, violation_type, count, last_violation
		FROM user_violations
		WHERE author_id = $1 AND violation_type = $2
	`

	if err := r.db.GetContext(ctx, &violation, query, authorID, violationType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get violation: %w", err)
	}
	return &violation, nil
}
