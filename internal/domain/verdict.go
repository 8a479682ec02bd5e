package domain

// Classification values assigned by the verdict engine.
const (
	ClassificationAcceptable  = "acceptable"
	ClassificationNeedsReview = "needs_review"
	ClassificationToxic       = "toxic"
	ClassificationSpam        = "spam"
)

// Threshold names reported in verdicts so callers can see which rule fired.
const (
	ThresholdToxicityHigh   = "toxicity_high"
	ThresholdToxicityMedium = "toxicity_medium"
	ThresholdSpamHigh       = "spam_high"
	ThresholdSpamMedium     = "spam_medium"
	ThresholdConfidenceLow  = "confidence_low"
)

// Verdict is the outcome of applying the threshold rules to a score vector.
// ThresholdUsed carries the configured cut-off value of the winning rule;
// ThresholdName identifies which rule that was.
type Verdict struct {
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
	ThresholdUsed  float64 `json:"threshold_used"`
	ThresholdName  string  `json:"threshold_name"`
}

// Classifications lists every classification the engine can produce.
func Classifications() []string {
	return []string{
		ClassificationAcceptable,
		ClassificationNeedsReview,
		ClassificationToxic,
		ClassificationSpam,
	}
}

// ValidClassification reports whether c is a known classification value.
func ValidClassification(c string) bool {
	switch c {
	case ClassificationAcceptable, ClassificationNeedsReview,
		ClassificationToxic, ClassificationSpam:
		return true
	default:
		return false
	}
}
