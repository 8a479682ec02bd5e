//nolint:testpackage // Testing internal publisher requires same package access
package publisher

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/moderation/internal/config"
	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
)

func TestTruncateForTweet(t *testing.T) {
	short := "hello world"
	assert.Equal(t, short, truncateForTweet(short))

	long := strings.Repeat("a", 300)
	truncated := truncateForTweet(long)
	assert.Equal(t, tweetMaxChars, utf8.RuneCountInString(truncated))
	assert.True(t, strings.HasSuffix(truncated, "..."))

	exact := strings.Repeat("b", tweetMaxChars)
	assert.Equal(t, exact, truncateForTweet(exact))

	// Multibyte content must be cut on rune boundaries.
	wide := strings.Repeat("é", 300)
	truncated = truncateForTweet(wide)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, tweetMaxChars, utf8.RuneCountInString(truncated))
}

func TestSocialPoster_Post_NothingConfigured(t *testing.T) {
	poster := NewSocialPoster(config.PublisherConfig{}, logger.NewNop())

	results := poster.Post(context.Background(), "some content")
	require.Len(t, results, 2)

	byPlatform := make(map[string]domain.PostResult, len(results))
	for _, r := range results {
		byPlatform[r.Platform] = r
	}

	assert.False(t, byPlatform[domain.PlatformFacebook].Success)
	assert.Equal(t, "Facebook not configured", byPlatform[domain.PlatformFacebook].Message)
	assert.False(t, byPlatform[domain.PlatformTwitter].Success)
	assert.Equal(t, "Twitter not configured", byPlatform[domain.PlatformTwitter].Message)
}

func TestSocialPoster_TestConnections_NothingConfigured(t *testing.T) {
	poster := NewSocialPoster(config.PublisherConfig{}, logger.NewNop())

	results := poster.TestConnections(context.Background())
	assert.False(t, results[domain.PlatformFacebook])
	assert.False(t, results[domain.PlatformTwitter])
}
