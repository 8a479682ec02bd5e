package domain

import "time"

// Social platforms targeted by the publisher.
const (
	PlatformFacebook = "facebook"
	PlatformTwitter  = "twitter"
)

// PostResult is the per-platform outcome of a publish attempt. A failure on
// one platform never affects the others.
type PostResult struct {
	Platform string    `json:"platform"`
	Success  bool      `json:"success"`
	PostID   string    `json:"post_id,omitempty"`
	Message  string    `json:"message,omitempty"`
	PostedAt time.Time `json:"posted_at"`
}

// SocialPostRecord is the persisted outcome of a publish attempt across
// all configured platforms. Platforms and Results are JSON documents.
type SocialPostRecord struct {
	PostID    string    `db:"post_id"    json:"post_id"`
	ContentID string    `db:"content_id" json:"content_id"`
	Platforms []byte    `db:"platforms"  json:"-"`
	Results   []byte    `db:"results"    json:"-"`
	PostedAt  time.Time `db:"posted_at"  json:"posted_at"`
}
