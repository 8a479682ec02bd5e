//nolint:testpackage // Testing internal database requires same package access
package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func sampleContent() *domain.ContentRecord {
	return &domain.ContentRecord{
		ContentID:      "content-1",
		AuthorID:       "author-1",
		ContentText:    "hello",
		Platform:       "web",
		Classification: domain.ClassificationAcceptable,
		Confidence:     0.95,
		ToxicityScore:  0.05,
		SpamScore:      0.0,
		Sentiment:      domain.SentimentPositive,
		SentimentScore: 0.9,
		ActionTaken:    domain.ActionApprovedAndStored,
		Metadata:       []byte(`{}`),
		CreatedAt:      time.Now().UTC(),
	}
}

func sampleAudit() *domain.AuditEntry {
	return &domain.AuditEntry{
		LogID:     "log-1",
		ContentID: "content-1",
		EventType: domain.EventContentClassified,
		EventData: []byte(`{}`),
		Timestamp: time.Now().UTC(),
	}
}

func TestContentRepository_CreateWithAudit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO content").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateWithAudit(context.Background(), sampleContent(), sampleAudit())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_CreateWithAudit_RollsBackOnAuditFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO content").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.CreateWithAudit(context.Background(), sampleContent(), sampleAudit())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_CreateAudit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs("log-1", "content-1", domain.EventContentClassified,
			[]byte(`{}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateAudit(context.Background(), sampleAudit())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_GetByContentID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM content").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"content_id"}))

	_, err := repo.GetByContentID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentRepository_OverviewStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	rows := sqlmock.NewRows([]string{
		"total_content", "acceptable", "needs_review", "toxic", "spam", "avg_confidence",
	}).AddRow(10, 6, 2, 1, 1, 0.87)
	mock.ExpectQuery("SELECT (.+) FROM content").WillReturnRows(rows)

	stats, err := repo.OverviewStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.TotalProcessed)
	assert.Equal(t, int64(6), stats.ByClassification[domain.ClassificationAcceptable])
	assert.Equal(t, int64(2), stats.ByClassification[domain.ClassificationNeedsReview])
	assert.Equal(t, int64(1), stats.ByClassification[domain.ClassificationToxic])
	assert.Equal(t, int64(1), stats.ByClassification[domain.ClassificationSpam])
	assert.InDelta(t, 0.87, stats.AverageConfidence, 0.0001)
	assert.Equal(t, 24, stats.WindowHours)
}

func TestContentRepository_OverviewStats_EmptyWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	rows := sqlmock.NewRows([]string{
		"total_content", "acceptable", "needs_review", "toxic", "spam", "avg_confidence",
	}).AddRow(0, 0, 0, 0, 0, nil)
	mock.ExpectQuery("SELECT (.+) FROM content").WillReturnRows(rows)

	stats, err := repo.OverviewStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalProcessed)
	assert.InDelta(t, 0.0, stats.AverageConfidence, 0.0001)
}
