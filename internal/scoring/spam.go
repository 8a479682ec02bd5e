package scoring

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cloudflare/ahocorasick"
)

// Spam scoring weights and limits.
const (
	markerWeight       = 0.15
	markerScoreCap     = 0.5
	capsPenalty        = 0.2
	capsRatioLimit     = 0.5
	capsMinLength      = 10
	punctPenalty       = 0.15
	punctLimit         = 5
	repetitionPenalty  = 0.2
	uniqueRatioLimit   = 0.3
	repetitionMinWords = 3
)

// spamPhrases are fixed promotional markers matched case-insensitively.
var spamPhrases = []string{
	"click here",
	"buy now",
	"limited time",
	"act now",
	"free money",
	"winner",
}

var (
	congratsWonPattern = regexp.MustCompile(`(?i)congratulations.*won`)
	multipleURLPattern = regexp.MustCompile(`https?://[^\s]+.*https?://[^\s]+.*https?://[^\s]+`)
)

// repeatedRunLength is the run of identical characters treated as a marker.
const repeatedRunLength = 5

// SpamScorer scores text for promotional and low-effort spam signals. It is
// pure pattern matching, safe for concurrent use, and never fails.
type SpamScorer struct {
	phrases *ahocorasick.Matcher
}

// NewSpamScorer builds a scorer with the default marker set.
func NewSpamScorer() *SpamScorer {
	return &SpamScorer{
		phrases: ahocorasick.NewStringMatcher(spamPhrases),
	}
}

// Score returns a spam score in [0.0, 1.0] for the given text. Each distinct
// marker contributes a fixed weight up to a cap, then capitalization,
// punctuation, and repetition heuristics add on top.
func (s *SpamScorer) Score(text string) float64 {
	score := s.markerScore(text)

	if capsRatio(text) > capsRatioLimit {
		score += capsPenalty
	}

	if punctCount(text) > punctLimit {
		score += punctPenalty
	}

	if isRepetitive(text) {
		score += repetitionPenalty
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// markerScore counts distinct spam markers. Fixed phrases go through the
// Aho-Corasick automaton in a single pass; regex markers are checked
// individually.
func (s *SpamScorer) markerScore(text string) float64 {
	matches := len(s.phrases.Match([]byte(strings.ToLower(text))))

	if congratsWonPattern.MatchString(text) {
		matches++
	}
	if multipleURLPattern.MatchString(text) {
		matches++
	}
	if hasRepeatedRun(text) {
		matches++
	}

	if matches == 0 {
		return 0
	}

	score := float64(matches) * markerWeight
	if score > markerScoreCap {
		return markerScoreCap
	}
	return score
}

// capsRatio returns the fraction of uppercase characters. Texts at or below
// the minimum length are exempt.
func capsRatio(text string) float64 {
	runes := []rune(text)
	if len(runes) <= capsMinLength {
		return 0
	}

	upper := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(len(runes))
}

func punctCount(text string) int {
	count := 0
	for _, r := range text {
		switch r {
		case '!', '?', '.':
			count++
		}
	}
	return count
}

// hasRepeatedRun reports whether any character repeats enough times in a
// row to look like keyboard mashing ("loooooove", "!!!!!").
func hasRepeatedRun(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= repeatedRunLength {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// isRepetitive reports whether the text reuses the same few words. Texts at
// or below the minimum word count are exempt.
func isRepetitive(text string) bool {
	words := strings.Fields(text)
	if len(words) <= repetitionMinWords {
		return false
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique))/float64(len(words)) < uniqueRatioLimit
}
