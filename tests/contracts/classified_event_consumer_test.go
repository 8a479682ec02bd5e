package contracts_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/moderation/internal/events"
)

// TestClassifiedEventWireFormat verifies the JSON field names downstream
// consumers of the moderation.classified channel depend on. Renaming any
// of these is a breaking change for every subscriber.
func TestClassifiedEventWireFormat(t *testing.T) {
	event := &events.ClassifiedEvent{
		ContentID:      "content-1",
		AuthorID:       "author-1",
		Platform:       "web",
		Classification: "acceptable",
		Confidence:     0.95,
		Action:         "approved_and_stored",
		ClassifiedAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))

	requiredFields := []string{
		"content_id", "author_id", "platform",
		"classification", "confidence", "action",
		"classified_at",
	}
	for _, field := range requiredFields {
		assert.Contains(t, fields, field)
	}
	assert.Len(t, fields, len(requiredFields))
}
