// Package scoring combines the model sidecar and local spam heuristics
// into a single score vector per submission.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/scoring/mlclient"
)

// ModelClient scores text for toxicity and sentiment.
type ModelClient interface {
	Classify(ctx context.Context, text string) (*mlclient.ClassifyResponse, error)
	Health(ctx context.Context) (string, error)
}

// Scorer runs the model sidecar and the spam heuristic concurrently and
// merges their outputs.
type Scorer struct {
	model   ModelClient
	spam    *SpamScorer
	timeout time.Duration
}

// NewScorer creates a combined scorer. A zero timeout disables the
// per-request deadline and relies on the model client's own timeout.
func NewScorer(model ModelClient, spam *SpamScorer, timeout time.Duration) *Scorer {
	return &Scorer{
		model:   model,
		spam:    spam,
		timeout: timeout,
	}
}

type modelResult struct {
	resp *mlclient.ClassifyResponse
	err  error
}

// Score produces the combined score vector for text. The spam heuristic
// runs locally while the model call is in flight. A model failure or
// timeout returns an error; callers degrade to the safe default rather
// than failing the request.
func (s *Scorer) Score(ctx context.Context, text string) (domain.ScoreVector, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	modelCh := make(chan modelResult, 1)
	go func() {
		resp, err := s.model.Classify(ctx, text)
		modelCh <- modelResult{resp: resp, err: err}
	}()

	spamScore := s.spam.Score(text)

	select {
	case res := <-modelCh:
		if res.err != nil {
			return domain.ScoreVector{}, fmt.Errorf("model classify: %w", res.err)
		}
		return domain.ScoreVector{
			ToxicityScore:  clamp(res.resp.ToxicityScore),
			SpamScore:      spamScore,
			SentimentLabel: normalizeSentiment(res.resp.SentimentLabel),
			SentimentScore: clamp(res.resp.SentimentScore),
		}, nil
	case <-ctx.Done():
		return domain.ScoreVector{}, fmt.Errorf("model classify: %w", ctx.Err())
	}
}

// Healthy reports whether the model sidecar is reachable.
func (s *Scorer) Healthy(ctx context.Context) error {
	_, err := s.model.Health(ctx)
	return err
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeSentiment(label string) string {
	switch label {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
		return label
	default:
		return domain.SentimentNeutral
	}
}
