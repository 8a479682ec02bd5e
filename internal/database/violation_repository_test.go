//nolint:testpackage // Testing internal database requires same package access
package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

func TestViolationRepository_Increment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	at := time.Now().UTC()
	mock.ExpectExec("INSERT INTO user_violations").
		WithArgs("author-1", domain.ClassificationToxic, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Increment(context.Background(), "author-1", domain.ClassificationToxic, at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	last := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"author_id", "violation_type", "count", "last_violation"}).
		AddRow("author-1", domain.ClassificationSpam, 3, last)
	mock.ExpectQuery("SELECT (.+) FROM user_violations").
		WithArgs("author-1", domain.ClassificationSpam).
		WillReturnRows(rows)

	violation, err := repo.Get(context.Background(), "author-1", domain.ClassificationSpam)
	require.NoError(t, err)

	assert.Equal(t, "author-1", violation.AuthorID)
	assert.Equal(t, domain.ClassificationSpam, violation.ViolationType)
	assert.Equal(t, 3, violation.Count)
}

func TestViolationRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM user_violations").
		WithArgs("nobody", domain.ClassificationToxic).
		WillReturnRows(sqlmock.NewRows([]string{"author_id"}))

	_, err := repo.Get(context.Background(), "nobody", domain.ClassificationToxic)
	assert.ErrorIs(t, err, ErrNotFound)
}
