package engine

import (
	"fmt"
	"sync/atomic"
)

// Thresholds are the cut-offs used by the verdict rules. A snapshot is
// immutable once published; updates swap the whole set at once so a single
// classification never mixes old and new values.
type Thresholds struct {
	ToxicityHigh   float64 `json:"toxicity_high"`
	ToxicityMedium float64 `json:"toxicity_medium"`
	SpamHigh       float64 `json:"spam_high"`
	SpamMedium     float64 `json:"spam_medium"`
	ConfidenceLow  float64 `json:"confidence_low"`
}

// Validate checks range and ordering constraints.
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{
		"toxicity_high":   t.ToxicityHigh,
		"toxicity_medium": t.ToxicityMedium,
		"spam_high":       t.SpamHigh,
		"spam_medium":     t.SpamMedium,
		"confidence_low":  t.ConfidenceLow,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("threshold %s out of range (0, 1]: %v", name, v)
		}
	}

	if t.ToxicityMedium >= t.ToxicityHigh {
		return fmt.Errorf("toxicity_medium %v must be below toxicity_high %v",
			t.ToxicityMedium, t.ToxicityHigh)
	}
	if t.SpamMedium >= t.SpamHigh {
		return fmt.Errorf("spam_medium %v must be below spam_high %v",
			t.SpamMedium, t.SpamHigh)
	}
	return nil
}

// ThresholdStore holds the current threshold snapshot. Reads are lock-free;
// writers publish a complete replacement set.
type ThresholdStore struct {
	current atomic.Pointer[Thresholds]
}

// NewThresholdStore creates a store seeded with the given thresholds.
func NewThresholdStore(initial Thresholds) (*ThresholdStore, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}

	s := &ThresholdStore{}
	s.current.Store(&initial)
	return s, nil
}

// Current returns the active threshold snapshot.
func (s *ThresholdStore) Current() Thresholds {
	return *s.current.Load()
}

// Update validates and atomically publishes a new snapshot.
func (s *ThresholdStore) Update(t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.current.Store(&t)
	return nil
}
