package domain

// Sentiment labels produced by the model sidecar.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// ScoreVector holds the combined output of the scoring stage. All scores
// are in the range [0.0, 1.0].
type ScoreVector struct {
	ToxicityScore  float64 `json:"toxicity_score"`
	SpamScore      float64 `json:"spam_score"`
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
}

// SafeDefaultScores returns the degraded score vector used when the model
// sidecar fails or times out. Scores are zeroed and sentiment is neutral so
// the verdict stage routes the content to human review.
func SafeDefaultScores() ScoreVector {
	return ScoreVector{
		ToxicityScore:  0,
		SpamScore:      0,
		SentimentLabel: SentimentNeutral,
		SentimentScore: 0.5,
	}
}
