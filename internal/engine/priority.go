package engine

import "github.com/jonesrussell/north-cloud/moderation/internal/domain"

// Priority bands for the review queue.
const (
	priorityToxicityUrgent = 0.7
	priorityToxicityHigh   = 0.5
	priorityToxicityMedium = 0.3
	priorityConfidenceLow  = 0.6
	priorityConfidenceMid  = 0.7
)

// ReviewPriority ranks queued content for human reviewers on a 1 to 5
// scale. High toxicity and low model confidence both push content toward
// the front of the queue.
func ReviewPriority(scores domain.ScoreVector, verdict domain.Verdict) int {
	switch {
	case scores.ToxicityScore > priorityToxicityUrgent || verdict.Confidence < priorityConfidenceLow:
		return domain.PriorityHighest
	case scores.ToxicityScore > priorityToxicityHigh || verdict.Confidence < priorityConfidenceMid:
		return domain.PriorityHigh
	case scores.ToxicityScore > priorityToxicityMedium:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
