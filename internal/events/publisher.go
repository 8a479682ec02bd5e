// Package events publishes classified-content events to Redis so
// downstream consumers can react without polling the database.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
)

const (
	connectionTimeout = 2 * time.Second
	publishTimeout    = 2 * time.Second
)

// NewClient creates a new Redis client with connection testing
func NewClient(addr, password string, db int) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test Redis connection with timeout
	pingCtx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", pingErr)
	}
	return redisClient, nil
}

// CheckConnection tests if Redis is reachable
func CheckConnection(client *redis.Client) (bool, error) {
	if client == nil {
		return false, errors.New("redis client is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// ClassifiedEvent is the message published after each moderation decision.
type ClassifiedEvent struct {
	ContentID      string    `json:"content_id"`
	AuthorID       string    `json:"author_id"`
	Platform       string    `json:"platform"`
	Classification string    `json:"classification"`
	Confidence     float64   `json:"confidence"`
	Action         string    `json:"action"`
	ClassifiedAt   time.Time `json:"classified_at"`
}

// Publisher sends classified events to a Redis channel. A nil Redis client
// disables publishing, so callers never need to branch on configuration.
type Publisher struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

// NewPublisher creates an event publisher for the given channel.
func NewPublisher(client *redis.Client, channel string, log logger.Logger) *Publisher {
	return &Publisher{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// Publish sends the event, bounded by its own timeout. Failures are
// returned for metrics but must never abort the moderation request.
func (p *Publisher) Publish(ctx context.Context, event *ClassifiedEvent) error {
	if p.client == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.client.Publish(pubCtx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.log.Debug("published classified event",
		logger.String("content_id", event.ContentID),
		logger.String("classification", event.Classification),
	)
	return nil
}

// EventFromRecord builds the wire event for a stored content record.
func EventFromRecord(record *domain.ContentRecord) *ClassifiedEvent {
	return &ClassifiedEvent{
		ContentID:      record.ContentID,
		AuthorID:       record.AuthorID,
		Platform:       record.Platform,
		Classification: record.Classification,
		Confidence:     record.Confidence,
		Action:         record.ActionTaken,
		ClassifiedAt:   record.CreatedAt,
	}
}
