package moderation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/engine"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
	"github.com/jonesrussell/north-cloud/moderation/internal/telemetry"
)

const (
	reviewReason = "needs_human_review"

	toxicRejectionMessage = "Your content was flagged as toxic and has been rejected."
	spamRejectionMessage  = "Your content was identified as spam and has been rejected."
)

// QueueStore enqueues content for human review.
type QueueStore interface {
	Enqueue(ctx context.Context, entry *domain.ModerationQueueEntry) error
}

// NotificationStore records author notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.UserNotification) error
}

// ViolationStore tracks author violations.
type ViolationStore interface {
	Increment(ctx context.Context, authorID, violationType string, at time.Time) error
}

// Dispatcher maps each classification to its action and side effects.
// Side-effect failures are logged and counted but never abort the request;
// the verdict stands regardless.
type Dispatcher struct {
	queue         QueueStore
	notifications NotificationStore
	violations    ViolationStore
	tel           *telemetry.Provider
	log           logger.Logger
}

// NewDispatcher creates a dispatcher over the given stores.
func NewDispatcher(
	queue QueueStore,
	notifications NotificationStore,
	violations ViolationStore,
	tel *telemetry.Provider,
	log logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		queue:         queue,
		notifications: notifications,
		violations:    violations,
		tel:           tel,
		log:           log,
	}
}

// Dispatch applies the action for the verdict's classification and returns
// what was done.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	contentID string,
	submission *domain.Submission,
	scores domain.ScoreVector,
	verdict domain.Verdict,
) domain.ActionResult {
	switch verdict.Classification {
	case domain.ClassificationAcceptable:
		d.log.Info("content approved for publication",
			logger.String("content_id", contentID))
		return domain.ActionResult{Action: domain.ActionApprovedAndStored}

	case domain.ClassificationNeedsReview:
		d.log.Info("content queued for human review",
			logger.String("content_id", contentID))
		d.enqueueForReview(ctx, contentID, submission, scores, verdict)
		return domain.ActionResult{Action: domain.ActionQueuedForReview}

	case domain.ClassificationToxic:
		d.log.Warn("content flagged as toxic",
			logger.String("content_id", contentID),
			logger.String("author_id", submission.AuthorID))
		d.rejectContent(ctx, contentID, submission.AuthorID,
			domain.ClassificationToxic, toxicRejectionMessage)
		return domain.ActionResult{Action: domain.ActionRejectedToxic, NotificationSent: true}

	default:
		d.log.Warn("content flagged as spam",
			logger.String("content_id", contentID),
			logger.String("author_id", submission.AuthorID))
		d.rejectContent(ctx, contentID, submission.AuthorID,
			domain.ClassificationSpam, spamRejectionMessage)
		return domain.ActionResult{Action: domain.ActionRejectedSpam, NotificationSent: true}
	}
}

func (d *Dispatcher) enqueueForReview(
	ctx context.Context,
	contentID string,
	submission *domain.Submission,
	scores domain.ScoreVector,
	verdict domain.Verdict,
) {
	entry := &domain.ModerationQueueEntry{
		QueueID:     uuid.NewString(),
		ContentID:   contentID,
		AuthorID:    submission.AuthorID,
		ContentText: submission.Content,
		Reason:      reviewReason,
		Priority:    engine.ReviewPriority(scores, verdict),
		Status:      domain.QueueStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := d.queue.Enqueue(ctx, entry); err != nil {
		d.tel.RecordSideEffectFailure("review_queue")
		d.log.Error("failed to enqueue content for review",
			logger.String("content_id", contentID),
			logger.Error(err))
	}
}

func (d *Dispatcher) rejectContent(ctx context.Context, contentID, authorID, violationType, message string) {
	notification := &domain.UserNotification{
		NotificationID:   uuid.NewString(),
		AuthorID:         authorID,
		NotificationType: violationType,
		Message:          message,
		SentAt:           time.Now().UTC(),
		Status:           "sent",
	}
	if err := d.notifications.Create(ctx, notification); err != nil {
		d.tel.RecordSideEffectFailure("notification")
		d.log.Error("failed to record user notification",
			logger.String("content_id", contentID),
			logger.String("author_id", authorID),
			logger.Error(err))
	} else {
		d.tel.Metrics.NotificationsSent.Inc()
	}

	if err := d.violations.Increment(ctx, authorID, violationType, time.Now().UTC()); err != nil {
		d.tel.RecordSideEffectFailure("violation_counter")
		d.log.Error("failed to increment violation counter",
			logger.String("author_id", authorID),
			logger.Error(err))
	} else {
		d.tel.Metrics.ViolationsRecorded.WithLabelValues(violationType).Inc()
	}
}
