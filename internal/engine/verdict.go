// Package engine turns score vectors into moderation verdicts using an
// ordered set of threshold rules.
package engine

import (
	"math"

	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
)

// Engine applies the verdict rules against the current threshold snapshot.
type Engine struct {
	thresholds *ThresholdStore
}

// New creates a verdict engine backed by the given threshold store.
func New(thresholds *ThresholdStore) *Engine {
	return &Engine{thresholds: thresholds}
}

// Thresholds returns the active threshold snapshot.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds.Current()
}

// UpdateThresholds publishes a new threshold snapshot.
func (e *Engine) UpdateThresholds(t Thresholds) error {
	return e.thresholds.Update(t)
}

// Classify evaluates the rules in order and returns the first match. The
// whole evaluation reads one threshold snapshot, so a concurrent update
// never produces a verdict mixing old and new cut-offs.
func (e *Engine) Classify(scores domain.ScoreVector) domain.Verdict {
	t := e.thresholds.Current()
	confidence := overallConfidence(scores)

	switch {
	case scores.ToxicityScore >= t.ToxicityHigh:
		return domain.Verdict{
			Classification: domain.ClassificationToxic,
			Confidence:     scores.ToxicityScore,
			ThresholdUsed:  t.ToxicityHigh,
			ThresholdName:  domain.ThresholdToxicityHigh,
		}
	case scores.SpamScore >= t.SpamHigh:
		return domain.Verdict{
			Classification: domain.ClassificationSpam,
			Confidence:     scores.SpamScore,
			ThresholdUsed:  t.SpamHigh,
			ThresholdName:  domain.ThresholdSpamHigh,
		}
	case scores.ToxicityScore >= t.ToxicityMedium:
		return domain.Verdict{
			Classification: domain.ClassificationNeedsReview,
			Confidence:     math.Max(scores.ToxicityScore, t.ConfidenceLow),
			ThresholdUsed:  t.ToxicityMedium,
			ThresholdName:  domain.ThresholdToxicityMedium,
		}
	case scores.SpamScore >= t.SpamMedium:
		return domain.Verdict{
			Classification: domain.ClassificationNeedsReview,
			Confidence:     math.Max(scores.SpamScore, t.ConfidenceLow),
			ThresholdUsed:  t.SpamMedium,
			ThresholdName:  domain.ThresholdSpamMedium,
		}
	case confidence < t.ConfidenceLow:
		return domain.Verdict{
			Classification: domain.ClassificationNeedsReview,
			Confidence:     confidence,
			ThresholdUsed:  t.ConfidenceLow,
			ThresholdName:  domain.ThresholdConfidenceLow,
		}
	default:
		return domain.Verdict{
			Classification: domain.ClassificationAcceptable,
			Confidence:     confidence,
			ThresholdUsed:  t.ConfidenceLow,
			ThresholdName:  domain.ThresholdConfidenceLow,
		}
	}
}

// uncertaintyCutoff exempts scores at or above the medium band from the
// confidence penalty; those are handled by their own rules.
const uncertaintyCutoff = 0.6

// overallConfidence measures how far each score sits from the ambiguous
// midpoint. Scores near 0.5 are the least informative and drag confidence
// down toward 0.5; clear scores near 0 or 1 leave it at 1.0.
func overallConfidence(scores domain.ScoreVector) float64 {
	return 1.0 - math.Max(
		midpointUncertainty(scores.ToxicityScore),
		midpointUncertainty(scores.SpamScore),
	)
}

func midpointUncertainty(score float64) float64 {
	if score >= uncertaintyCutoff {
		return 0
	}
	return 0.5 - math.Abs(score-0.5)
}
