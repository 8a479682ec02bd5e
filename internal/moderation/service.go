// Package moderation implements the content moderation pipeline: scoring,
// verdict, action dispatch, storage, and downstream notifications.
package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/engine"
	"github.com/jonesrussell/north-cloud/moderation/internal/events"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
	"github.com/jonesrussell/north-cloud/moderation/internal/publisher"
	"github.com/jonesrussell/north-cloud/moderation/internal/telemetry"
)

// ContentScorer produces the combined score vector for a submission.
type ContentScorer interface {
	Score(ctx context.Context, text string) (domain.ScoreVector, error)
}

// ContentStore persists moderated content with its audit trail.
type ContentStore interface {
	CreateWithAudit(ctx context.Context, content *domain.ContentRecord, audit *domain.AuditEntry) error
	CreateAudit(ctx context.Context, audit *domain.AuditEntry) error
}

// MetricsStore appends model observations for drift monitoring.
type MetricsStore interface {
	Record(ctx context.Context, m *domain.MetricRecord) error
}

// EventPublisher emits classified events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.ClassifiedEvent) error
}

// PublishQueue schedules approved content for social publishing.
type PublishQueue interface {
	Enqueue(job publisher.Job) bool
}

// Result is the outcome of moderating one submission.
type Result struct {
	ContentID      string    `json:"content_id"`
	Classification string    `json:"classification"`
	Confidence     float64   `json:"confidence"`
	ToxicityScore  float64   `json:"toxicity_score"`
	SpamScore      float64   `json:"spam_score"`
	Sentiment      string    `json:"sentiment"`
	ActionTaken    string    `json:"action_taken"`
	Timestamp      time.Time `json:"timestamp"`
	Details        Details   `json:"details"`
}

// Details carries processing metadata alongside the verdict.
type Details struct {
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	ModelVersion          string  `json:"model_version"`
	ThresholdUsed         float64 `json:"threshold_used"`
	ThresholdName         string  `json:"threshold_name"`
	NotificationSent      bool    `json:"notification_sent"`
}

// Service runs the moderation pipeline.
type Service struct {
	scorer       ContentScorer
	engine       *engine.Engine
	dispatcher   *Dispatcher
	content      ContentStore
	metrics      MetricsStore
	eventPub     EventPublisher
	publishQueue PublishQueue
	tel          *telemetry.Provider
	log          logger.Logger
	modelVersion string
}

// NewService wires the pipeline stages together.
func NewService(
	scorer ContentScorer,
	verdictEngine *engine.Engine,
	dispatcher *Dispatcher,
	content ContentStore,
	metrics MetricsStore,
	eventPub EventPublisher,
	publishQueue PublishQueue,
	tel *telemetry.Provider,
	log logger.Logger,
	modelVersion string,
) *Service {
	return &Service{
		scorer:       scorer,
		engine:       verdictEngine,
		dispatcher:   dispatcher,
		content:      content,
		metrics:      metrics,
		eventPub:     eventPub,
		publishQueue: publishQueue,
		tel:          tel,
		log:          log,
		modelVersion: modelVersion,
	}
}

// Process moderates a single submission end to end. A scorer failure
// degrades to the safe default verdict instead of failing the request,
// and failures after the verdict is produced are logged and audited
// without changing the returned result.
func (s *Service) Process(ctx context.Context, submission *domain.Submission) *Result {
	contentID := uuid.NewString()
	start := time.Now().UTC()

	ctx, span := s.tel.Tracer.Start(ctx, "moderation.process",
		trace.WithAttributes(attribute.String("content_id", contentID)))
	defer span.End()

	if submission.Platform == "" {
		submission.Platform = domain.DefaultPlatform
	}

	s.log.Info("processing content submission",
		logger.String("content_id", contentID),
		logger.String("platform", submission.Platform))

	scores, verdict, degraded := s.scoreAndClassify(ctx, submission.Content)
	span.SetAttributes(attribute.String("classification", verdict.Classification))

	s.log.Info("content classified",
		logger.String("content_id", contentID),
		logger.String("classification", verdict.Classification),
		logger.Float64("confidence", verdict.Confidence))

	action := s.dispatcher.Dispatch(ctx, contentID, submission, scores, verdict)

	if err := s.store(ctx, contentID, submission, scores, verdict, action, start); err != nil {
		s.tel.RecordSideEffectFailure("content_store")
		s.log.Error("failed to persist content record",
			logger.String("content_id", contentID),
			logger.Error(err))
		s.auditError(ctx, contentID, err)
	}

	s.recordMetric(ctx, contentID, verdict)
	s.publishEvent(ctx, contentID, submission, verdict, action, start)

	if verdict.Classification == domain.ClassificationAcceptable {
		s.publishQueue.Enqueue(publisher.Job{
			ContentID: contentID,
			Content:   submission.Content,
		})
	}

	elapsed := time.Since(start)
	s.tel.RecordSubmission(verdict.Classification, elapsed)

	s.log.Info("content processed",
		logger.String("content_id", contentID),
		logger.Duration("elapsed", elapsed),
		logger.Bool("degraded", degraded))

	return &Result{
		ContentID:      contentID,
		Classification: verdict.Classification,
		Confidence:     verdict.Confidence,
		ToxicityScore:  scores.ToxicityScore,
		SpamScore:      scores.SpamScore,
		Sentiment:      scores.SentimentLabel,
		ActionTaken:    action.Action,
		Timestamp:      start,
		Details: Details{
			ProcessingTimeSeconds: elapsed.Seconds(),
			ModelVersion:          s.modelVersion,
			ThresholdUsed:         verdict.ThresholdUsed,
			ThresholdName:         verdict.ThresholdName,
			NotificationSent:      action.NotificationSent,
		},
	}
}

// scoreAndClassify runs the scoring stage and the verdict rules. When the
// scorer fails the submission is routed to human review with zero
// confidence rather than being approved or rejected blind.
func (s *Service) scoreAndClassify(ctx context.Context, text string) (domain.ScoreVector, domain.Verdict, bool) {
	scoreStart := time.Now()
	scores, err := s.scorer.Score(ctx, text)
	s.tel.RecordScorer(time.Since(scoreStart), err != nil)

	if err != nil {
		s.log.Error("scorer failed, using safe default", logger.Error(err))
		return domain.SafeDefaultScores(), domain.Verdict{
			Classification: domain.ClassificationNeedsReview,
			Confidence:     0,
			ThresholdUsed:  s.engine.Thresholds().ConfidenceLow,
			ThresholdName:  domain.ThresholdConfidenceLow,
		}, true
	}

	return scores, s.engine.Classify(scores), false
}

func (s *Service) store(
	ctx context.Context,
	contentID string,
	submission *domain.Submission,
	scores domain.ScoreVector,
	verdict domain.Verdict,
	action domain.ActionResult,
	at time.Time,
) error {
	metadata, err := json.Marshal(submission.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	eventData, err := json.Marshal(map[string]any{
		"classification": verdict,
		"scores":         scores,
		"action":         action,
	})
	if err != nil {
		return fmt.Errorf("marshal audit data: %w", err)
	}

	record := &domain.ContentRecord{
		ContentID:      contentID,
		AuthorID:       submission.AuthorID,
		Platform:       submission.Platform,
		ContentText:    submission.Content,
		Classification: verdict.Classification,
		Confidence:     verdict.Confidence,
		ToxicityScore:  scores.ToxicityScore,
		SpamScore:      scores.SpamScore,
		Sentiment:      scores.SentimentLabel,
		SentimentScore: scores.SentimentScore,
		ActionTaken:    action.Action,
		Metadata:       metadata,
		CreatedAt:      at,
	}

	audit := &domain.AuditEntry{
		LogID:     uuid.NewString(),
		ContentID: contentID,
		EventType: domain.EventContentClassified,
		EventData: eventData,
		Timestamp: at,
	}

	if err := s.content.CreateWithAudit(ctx, record, audit); err != nil {
		return fmt.Errorf("store content: %w", err)
	}
	return nil
}

// auditError records a processing failure. Best effort; the original error
// is what surfaces to the caller.
func (s *Service) auditError(ctx context.Context, contentID string, procErr error) {
	eventData, err := json.Marshal(map[string]string{"error": procErr.Error()})
	if err != nil {
		return
	}

	audit := &domain.AuditEntry{
		LogID:     uuid.NewString(),
		ContentID: contentID,
		EventType: domain.EventProcessingError,
		EventData: eventData,
		Timestamp: time.Now().UTC(),
	}
	if auditErr := s.content.CreateAudit(ctx, audit); auditErr != nil {
		s.log.Error("failed to audit processing error",
			logger.String("content_id", contentID),
			logger.Error(auditErr))
	}
}

func (s *Service) recordMetric(ctx context.Context, contentID string, verdict domain.Verdict) {
	metric := &domain.MetricRecord{
		MetricID:       uuid.NewString(),
		ContentID:      contentID,
		Classification: verdict.Classification,
		Confidence:     verdict.Confidence,
		RecordedAt:     time.Now().UTC(),
	}
	if err := s.metrics.Record(ctx, metric); err != nil {
		s.tel.RecordSideEffectFailure("model_metrics")
		s.log.Error("failed to record model metric",
			logger.String("content_id", contentID),
			logger.Error(err))
	}
}

func (s *Service) publishEvent(
	ctx context.Context,
	contentID string,
	submission *domain.Submission,
	verdict domain.Verdict,
	action domain.ActionResult,
	at time.Time,
) {
	event := &events.ClassifiedEvent{
		ContentID:      contentID,
		AuthorID:       submission.AuthorID,
		Platform:       submission.Platform,
		Classification: verdict.Classification,
		Confidence:     verdict.Confidence,
		Action:         action.Action,
		ClassifiedAt:   at,
	}
	if err := s.eventPub.Publish(ctx, event); err != nil {
		s.tel.Metrics.EventFailures.Inc()
		s.log.Warn("failed to publish classified event",
			logger.String("content_id", contentID),
			logger.Error(err))
		return
	}
	s.tel.Metrics.EventsPublished.Inc()
}
