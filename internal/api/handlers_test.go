//nolint:testpackage // Testing internal api requires same package access
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/moderation/internal/database"
	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/engine"
	"github.com/jonesrussell/north-cloud/moderation/internal/events"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
	"github.com/jonesrussell/north-cloud/moderation/internal/moderation"
	"github.com/jonesrussell/north-cloud/moderation/internal/publisher"
	"github.com/jonesrussell/north-cloud/moderation/internal/scoring"
	"github.com/jonesrussell/north-cloud/moderation/internal/scoring/mlclient"
	"github.com/jonesrussell/north-cloud/moderation/internal/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPublishQueue struct{}

func (stubPublishQueue) Enqueue(publisher.Job) bool { return true }

type apiFixture struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
}

func newAPIFixture(t *testing.T, jwtSecret string) *apiFixture {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")

	modelServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/classify":
			_, _ = w.Write([]byte(`{"toxicity_score":0.05,"sentiment_label":"positive","sentiment_score":0.9,"model_version":"2.1.0"}`))
		case "/health":
			_, _ = w.Write([]byte(`{"status":"healthy","model_version":"2.1.0"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(modelServer.Close)

	store, err := engine.NewThresholdStore(engine.Thresholds{
		ToxicityHigh:   0.8,
		ToxicityMedium: 0.6,
		SpamHigh:       0.7,
		SpamMedium:     0.5,
		ConfidenceLow:  0.6,
	})
	require.NoError(t, err)
	verdictEngine := engine.New(store)

	log := logger.NewNop()
	tel := telemetry.NewProviderFor(prometheus.NewRegistry())
	scorer := scoring.NewScorer(
		mlclient.NewClient(modelServer.URL, time.Second),
		scoring.NewSpamScorer(),
		time.Second,
	)

	contentRepo := database.NewContentRepository(db)
	queueRepo := database.NewQueueRepository(db)
	metricsRepo := database.NewMetricsRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	violationRepo := database.NewViolationRepository(db)

	dispatcher := moderation.NewDispatcher(queueRepo, notificationRepo, violationRepo, tel, log)
	service := moderation.NewService(
		scorer,
		verdictEngine,
		dispatcher,
		contentRepo,
		metricsRepo,
		events.NewPublisher(nil, "moderation.classified", log),
		stubPublishQueue{},
		tel,
		log,
		"2.1.0",
	)

	handler := NewHandler(service, verdictEngine, scorer, contentRepo, queueRepo, metricsRepo,
		db, nil, "moderation", "1.0.0", log)

	router := gin.New()
	SetupRoutes(router, handler, jwtSecret)

	return &apiFixture{router: router, mock: mock}
}

func (f *apiFixture) request(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	fixture := newAPIFixture(t, "")

	w := fixture.request(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RootResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "operational", resp.Status)
	assert.Equal(t, "moderation", resp.Service)
}

func TestHealthCheck(t *testing.T) {
	fixture := newAPIFixture(t, "")
	fixture.mock.ExpectPing()

	w := fixture.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Components["database"])
	assert.Equal(t, "connected", resp.Components["scorer"])
	assert.Equal(t, "disabled", resp.Components["redis"])
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	fixture := newAPIFixture(t, "")
	fixture.mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	w := fixture.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
}

func TestSubmitContent(t *testing.T) {
	fixture := newAPIFixture(t, "")

	fixture.mock.ExpectBegin()
	fixture.mock.ExpectExec("INSERT INTO content").
		WillReturnResult(sqlmock.NewResult(1, 1))
	fixture.mock.ExpectExec("INSERT INTO audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))
	fixture.mock.ExpectCommit()
	fixture.mock.ExpectExec("INSERT INTO model_metrics").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := fixture.request(t, http.MethodPost, "/api/v1/content/submit",
		`{"content":"A lovely day on the lake","author_id":"author-1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result moderation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ContentID)
	assert.Equal(t, domain.ClassificationAcceptable, result.Classification)
	assert.Equal(t, domain.ActionApprovedAndStored, result.ActionTaken)
	assert.Equal(t, "2.1.0", result.Details.ModelVersion)
	assert.InDelta(t, 0.6, result.Details.ThresholdUsed, 0.0001)
	assert.Equal(t, domain.ThresholdConfidenceLow, result.Details.ThresholdName)
	assert.NoError(t, fixture.mock.ExpectationsWereMet())
}

func TestSubmitContent_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing content", body: `{"author_id":"author-1"}`},
		{name: "missing author", body: `{"content":"hello"}`},
		{name: "empty content", body: `{"content":"","author_id":"author-1"}`},
		{name: "whitespace-only content", body: `{"content":"   ","author_id":"author-1"}`},
		{name: "whitespace-only author", body: `{"content":"hello","author_id":"  "}`},
		{name: "content too long", body: `{"content":"` + strings.Repeat("a", 5001) + `","author_id":"author-1"}`},
		{name: "malformed json", body: `{`},
	}

	fixture := newAPIFixture(t, "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := fixture.request(t, http.MethodPost, "/api/v1/content/submit", tt.body, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestSubmitContent_StorageFailureStillReturnsVerdict(t *testing.T) {
	fixture := newAPIFixture(t, "")

	fixture.mock.ExpectBegin().WillReturnError(errors.New("database unavailable"))
	// The processing error itself is audited outside the transaction, and
	// the rest of the pipeline still runs.
	fixture.mock.ExpectExec("INSERT INTO audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))
	fixture.mock.ExpectExec("INSERT INTO model_metrics").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := fixture.request(t, http.MethodPost, "/api/v1/content/submit",
		`{"content":"hello","author_id":"author-1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result moderation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.ClassificationAcceptable, result.Classification)
	assert.NoError(t, fixture.mock.ExpectationsWereMet())
}

func TestStatsOverview(t *testing.T) {
	fixture := newAPIFixture(t, "")

	rows := sqlmock.NewRows([]string{
		"total_content", "acceptable", "needs_review", "toxic", "spam", "avg_confidence",
	}).AddRow(5, 3, 1, 1, 0, 0.9)
	fixture.mock.ExpectQuery("SELECT (.+) FROM content").WillReturnRows(rows)
	fixture.mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	w := fixture.request(t, http.MethodGet, "/api/v1/stats/overview", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats domain.OverviewStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(5), stats.TotalProcessed)
	assert.Equal(t, int64(4), stats.QueueDepth)
	assert.Equal(t, 24, stats.WindowHours)
}

func TestModelDrift(t *testing.T) {
	fixture := newAPIFixture(t, "")

	rows := sqlmock.NewRows([]string{"hour", "classification", "avg_confidence", "std_confidence", "count"}).
		AddRow(time.Now().UTC(), domain.ClassificationAcceptable, 0.92, 0.03, 40)
	fixture.mock.ExpectQuery("SELECT (.+) FROM model_metrics").WillReturnRows(rows)

	w := fixture.request(t, http.MethodGet, "/api/v1/stats/model-drift", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp DriftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.WindowDays)
	require.Len(t, resp.Buckets, 1)
	assert.InDelta(t, 0.92, resp.Buckets[0].AvgConfidence, 0.0001)
}

func signToken(t *testing.T, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Sub: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminThresholds_RequiresToken(t *testing.T) {
	fixture := newAPIFixture(t, "test-secret")

	w := fixture.request(t, http.MethodGet, "/api/v1/admin/thresholds", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = fixture.request(t, http.MethodGet, "/api/v1/admin/thresholds", "",
		map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = fixture.request(t, http.MethodGet, "/api/v1/admin/thresholds", "",
		map[string]string{"Authorization": "Bearer " + signToken(t, "wrong-secret")})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = fixture.request(t, http.MethodGet, "/api/v1/admin/thresholds", "",
		map[string]string{"Authorization": "Bearer " + signToken(t, "test-secret")})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateThresholds(t *testing.T) {
	fixture := newAPIFixture(t, "")

	body := `{"toxicity_high":0.9,"toxicity_medium":0.7,"spam_high":0.8,"spam_medium":0.6,"confidence_low":0.5}`
	w := fixture.request(t, http.MethodPut, "/api/v1/admin/thresholds", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ThresholdsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 0.9, resp.Thresholds.ToxicityHigh, 0.0001)

	// The new snapshot is what reads return.
	w = fixture.request(t, http.MethodGet, "/api/v1/admin/thresholds", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 0.9, resp.Thresholds.ToxicityHigh, 0.0001)
}

func TestUpdateThresholds_Invalid(t *testing.T) {
	fixture := newAPIFixture(t, "")

	// Passes binding but violates medium < high ordering.
	body := `{"toxicity_high":0.6,"toxicity_medium":0.7,"spam_high":0.8,"spam_medium":0.6,"confidence_low":0.5}`
	w := fixture.request(t, http.MethodPut, "/api/v1/admin/thresholds", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Fails binding outright.
	w = fixture.request(t, http.MethodPut, "/api/v1/admin/thresholds",
		`{"toxicity_high":1.5}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
