// Package publisher posts approved content to social platforms in the
// background and records the per-platform outcomes.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/moderation/internal/config"
	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
)

const (
	facebookFeedURL = "https://graph.facebook.com/v18.0/me/feed"
	facebookMeURL   = "https://graph.facebook.com/v18.0/me"
	twitterPostURL  = "https://api.twitter.com/2/tweets"
	twitterMeURL    = "https://api.twitter.com/2/users/me"

	tweetMaxChars = 280
)

// Poster posts content to all configured platforms and returns one result
// per platform. A failure on one platform never affects the others, so
// there is no aggregate error.
type Poster interface {
	Post(ctx context.Context, content string) []domain.PostResult
}

// SocialPoster posts to Facebook and Twitter over their public APIs.
type SocialPoster struct {
	facebookToken string
	twitter       twitterCredentials

	facebookEnabled bool
	twitterEnabled  bool

	httpClient *http.Client
	log        logger.Logger
}

// NewSocialPoster creates a poster from publisher configuration. Platforms
// without complete credentials stay disabled and report a fixed failure
// result.
func NewSocialPoster(cfg config.PublisherConfig, log logger.Logger) *SocialPoster {
	twitter := twitterCredentials{
		APIKey:       cfg.TwitterAPIKey,
		APISecret:    cfg.TwitterAPISecret,
		AccessToken:  cfg.TwitterAccessToken,
		AccessSecret: cfg.TwitterAccessSecret,
	}

	p := &SocialPoster{
		facebookToken:   cfg.FacebookToken,
		twitter:         twitter,
		facebookEnabled: cfg.FacebookToken != "",
		twitterEnabled:  twitter.complete(),
		httpClient:      &http.Client{Timeout: cfg.PostTimeout},
		log:             log,
	}

	log.Info("social poster initialized",
		logger.Bool("facebook_enabled", p.facebookEnabled),
		logger.Bool("twitter_enabled", p.twitterEnabled),
	)
	return p
}

// Post publishes content to every enabled platform in parallel.
func (p *SocialPoster) Post(ctx context.Context, content string) []domain.PostResult {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []domain.PostResult
	)

	collect := func(r domain.PostResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	if p.facebookEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collect(p.postToFacebook(ctx, content))
		}()
	} else {
		collect(domain.PostResult{
			Platform: domain.PlatformFacebook,
			Success:  false,
			Message:  "Facebook not configured",
		})
	}

	if p.twitterEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collect(p.postToTwitter(ctx, content))
		}()
	} else {
		collect(domain.PostResult{
			Platform: domain.PlatformTwitter,
			Success:  false,
			Message:  "Twitter not configured",
		})
	}

	wg.Wait()
	return results
}

func (p *SocialPoster) postToFacebook(ctx context.Context, content string) domain.PostResult {
	fail := func(msg string) domain.PostResult {
		return domain.PostResult{Platform: domain.PlatformFacebook, Success: false, Message: msg}
	}

	form := url.Values{}
	form.Set("message", content)
	form.Set("access_token", p.facebookToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		facebookFeedURL+"?"+form.Encode(), http.NoBody)
	if err != nil {
		return fail(fmt.Sprintf("create request: %v", err))
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Error("facebook post failed", logger.Error(err))
		return fail(fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		p.log.Error("facebook API error",
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(body)),
		)
		return fail(fmt.Sprintf("API error: %d", resp.StatusCode))
	}

	var data struct {
		ID string `json:"id"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&data); decodeErr != nil {
		return fail(fmt.Sprintf("decode response: %v", decodeErr))
	}

	p.log.Info("posted to facebook", logger.String("post_id", data.ID))
	return domain.PostResult{
		Platform: domain.PlatformFacebook,
		Success:  true,
		PostID:   data.ID,
		Message:  "Posted successfully",
		PostedAt: time.Now().UTC(),
	}
}

func (p *SocialPoster) postToTwitter(ctx context.Context, content string) domain.PostResult {
	fail := func(msg string) domain.PostResult {
		return domain.PostResult{Platform: domain.PlatformTwitter, Success: false, Message: msg}
	}

	content = truncateForTweet(content)

	payload, err := json.Marshal(map[string]string{"text": content})
	if err != nil {
		return fail(fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, twitterPostURL,
		bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Authorization", oauth1Header(http.MethodPost, twitterPostURL, p.twitter))
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Error("twitter post failed", logger.Error(err))
		return fail(fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		p.log.Error("twitter API error",
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(body)),
		)
		return fail(fmt.Sprintf("API error: %d", resp.StatusCode))
	}

	var data struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&data); decodeErr != nil {
		return fail(fmt.Sprintf("decode response: %v", decodeErr))
	}

	p.log.Info("posted to twitter", logger.String("post_id", data.Data.ID))
	return domain.PostResult{
		Platform: domain.PlatformTwitter,
		Success:  true,
		PostID:   data.Data.ID,
		Message:  "Posted successfully",
		PostedAt: time.Now().UTC(),
	}
}

// TestConnections checks reachability of each enabled platform.
func (p *SocialPoster) TestConnections(ctx context.Context) map[string]bool {
	results := map[string]bool{
		domain.PlatformFacebook: false,
		domain.PlatformTwitter:  false,
	}

	if p.facebookEnabled {
		u := facebookMeURL + "?access_token=" + url.QueryEscape(p.facebookToken)
		results[domain.PlatformFacebook] = p.probe(ctx, u, "")
	}
	if p.twitterEnabled {
		results[domain.PlatformTwitter] = p.probe(ctx, twitterMeURL,
			oauth1Header(http.MethodGet, twitterMeURL, p.twitter))
	}
	return results
}

func (p *SocialPoster) probe(ctx context.Context, rawURL, authHeader string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return false
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// truncateForTweet cuts content to the tweet character limit, marking the
// cut with an ellipsis.
func truncateForTweet(content string) string {
	runes := []rune(content)
	if len(runes) <= tweetMaxChars {
		return content
	}
	return string(runes[:tweetMaxChars-3]) + "..."
}
