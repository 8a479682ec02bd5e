//nolint:testpackage // Testing internal engine requires same package access
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

func TestReviewPriority(t *testing.T) {
	tests := []struct {
		name       string
		toxicity   float64
		confidence float64
		want       int
	}{
		{
			name:       "urgent toxicity",
			toxicity:   0.9,
			confidence: 0.95,
			want:       domain.PriorityHighest,
		},
		{
			name:       "very low confidence",
			toxicity:   0.1,
			confidence: 0.5,
			want:       domain.PriorityHighest,
		},
		{
			name:       "elevated toxicity",
			toxicity:   0.55,
			confidence: 0.9,
			want:       domain.PriorityHigh,
		},
		{
			name:       "borderline confidence",
			toxicity:   0.1,
			confidence: 0.65,
			want:       domain.PriorityHigh,
		},
		{
			name:       "moderate toxicity",
			toxicity:   0.35,
			confidence: 0.9,
			want:       domain.PriorityMedium,
		},
		{
			name:       "benign review",
			toxicity:   0.1,
			confidence: 0.9,
			want:       domain.PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := domain.ScoreVector{ToxicityScore: tt.toxicity}
			verdict := domain.Verdict{
				Classification: domain.ClassificationNeedsReview,
				Confidence:     tt.confidence,
			}

			assert.Equal(t, tt.want, ReviewPriority(scores, verdict))
		})
	}
}
