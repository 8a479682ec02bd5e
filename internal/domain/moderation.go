package domain

import "time"

// Actions taken by the dispatcher. Each classification maps to exactly one.
const (
	ActionApprovedAndStored = "approved_and_stored"
	ActionQueuedForReview   = "queued_for_review"
	ActionRejectedToxic     = "rejected_toxic"
	ActionRejectedSpam      = "rejected_spam"
)

// Review queue priorities. Five is the most urgent; one is reserved for
// operator-triaged backfill and is never assigned automatically.
const (
	PriorityLowest  = 1
	PriorityLow     = 2
	PriorityMedium  = 3
	PriorityHigh    = 4
	PriorityHighest = 5
)

// ActionResult describes what the dispatcher did with a piece of content.
type ActionResult struct {
	Action           string `json:"action"`
	NotificationSent bool   `json:"notification_sent"`
}

// Review queue entry statuses.
const (
	QueueStatusPending = "pending"
)

// Audit event types.
const (
	EventContentClassified = "content_classified"
	EventProcessingError   = "processing_error"
)

// ModerationQueueEntry is a row in the human review queue.
type ModerationQueueEntry struct {
	QueueID     string    `db:"queue_id"     json:"queue_id"`
	ContentID   string    `db:"content_id"   json:"content_id"`
	AuthorID    string    `db:"author_id"    json:"author_id"`
	ContentText string    `db:"content_text" json:"content_text"`
	Reason      string    `db:"reason"       json:"reason"`
	Priority    int       `db:"priority"     json:"priority"`
	Status      string    `db:"status"       json:"status"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}

// AuditEntry records a moderation event for compliance review. EventData is
// a JSON document describing the verdict and action taken.
type AuditEntry struct {
	LogID     string    `db:"log_id"     json:"log_id"`
	ContentID string    `db:"content_id" json:"content_id"`
	EventType string    `db:"event_type" json:"event_type"`
	EventData []byte    `db:"event_data" json:"-"`
	Timestamp time.Time `db:"timestamp"  json:"timestamp"`
}

// UserNotification records a rejection notice delivered to an author.
type UserNotification struct {
	NotificationID   string    `db:"notification_id"   json:"notification_id"`
	AuthorID         string    `db:"author_id"         json:"author_id"`
	NotificationType string    `db:"notification_type" json:"notification_type"`
	Message          string    `db:"message"           json:"message"`
	SentAt           time.Time `db:"sent_at"           json:"sent_at"`
	Status           string    `db:"status"            json:"status"`
}

// UserViolation tracks repeat offenses per author and violation type.
type UserViolation struct {
	AuthorID      string    `db:"author_id"      json:"author_id"`
	ViolationType string    `db:"violation_type" json:"violation_type"`
	Count         int       `db:"count"          json:"count"`
	LastViolation time.Time `db:"last_violation" json:"last_violation"`
}
