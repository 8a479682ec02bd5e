//nolint:testpackage // Testing internal domain requires same package access
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_Normalize(t *testing.T) {
	s := Submission{
		Content:  "  hello there \n",
		AuthorID: "\tauthor-1 ",
	}

	require.NoError(t, s.Normalize())
	assert.Equal(t, "hello there", s.Content)
	assert.Equal(t, "author-1", s.AuthorID)
}

func TestSubmission_Normalize_RejectsBlankFields(t *testing.T) {
	tests := []struct {
		name       string
		submission Submission
	}{
		{
			name:       "whitespace-only content",
			submission: Submission{Content: "   \n\t", AuthorID: "author-1"},
		},
		{
			name:       "whitespace-only author",
			submission: Submission{Content: "hello", AuthorID: "  "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.submission.Normalize())
		})
	}
}
