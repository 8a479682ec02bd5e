package domain

import (
	"errors"
	"strings"
	"time"
)

// Default platform when a submission does not name one.
const DefaultPlatform = "web"

// Submission represents a piece of user-generated content awaiting moderation.
type Submission struct {
	Content  string         `binding:"required,min=1,max=5000" json:"content"`
	AuthorID string         `binding:"required,min=1,max=100"  json:"author_id"`
	Platform string         `binding:"omitempty,max=50"        json:"platform"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Normalize strips surrounding whitespace from the content and author
// fields. Length limits are enforced by binding on the raw input; blank
// fields only show up after trimming, so they are rejected here.
func (s *Submission) Normalize() error {
	s.Content = strings.TrimSpace(s.Content)
	s.AuthorID = strings.TrimSpace(s.AuthorID)

	if s.Content == "" {
		return errors.New("content must not be blank")
	}
	if s.AuthorID == "" {
		return errors.New("author_id must not be blank")
	}
	return nil
}

// ContentRecord is the persisted form of a moderated submission.
type ContentRecord struct {
	ContentID      string    `db:"content_id"      json:"content_id"`
	AuthorID       string    `db:"author_id"       json:"author_id"`
	Platform       string    `db:"platform"        json:"platform"`
	ContentText    string    `db:"content_text"    json:"content_text"`
	Classification string    `db:"classification"  json:"classification"`
	Confidence     float64   `db:"confidence"      json:"confidence"`
	ToxicityScore  float64   `db:"toxicity_score"  json:"toxicity_score"`
	SpamScore      float64   `db:"spam_score"      json:"spam_score"`
	Sentiment      string    `db:"sentiment"       json:"sentiment"`
	SentimentScore float64   `db:"sentiment_score" json:"sentiment_score"`
	ActionTaken    string    `db:"action_taken"    json:"action_taken"`
	Metadata       []byte    `db:"metadata"        json:"-"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}
