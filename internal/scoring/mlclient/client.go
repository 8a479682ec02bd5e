// Package mlclient provides an HTTP client for the toxicity/sentiment
// model sidecar.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// ErrUnavailable indicates the model sidecar is unreachable.
var ErrUnavailable = errors.New("model service unavailable")

// Client is an HTTP client for the model sidecar.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// classifyRequest is the request body for POST /classify.
type classifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse is the response body from /classify.
type ClassifyResponse struct {
	ToxicityScore    float64 `json:"toxicity_score"`
	SentimentLabel   string  `json:"sentiment_label"`
	SentimentScore   float64 `json:"sentiment_score"`
	ModelVersion     string  `json:"model_version"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
}

// healthResponse is the JSON shape returned by GET /health.
type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// NewClient creates a new model client. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Classify sends text to the model sidecar and returns its scores.
func (c *Client) Classify(ctx context.Context, text string) (*ClassifyResponse, error) {
	body, err := json.Marshal(&classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model service returned %d", resp.StatusCode)
	}

	var result ClassifyResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	return &result, nil
}

// Health checks if the model sidecar is healthy and returns its reported
// model version when available.
func (c *Client) Health(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}

	var healthResp healthResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&healthResp); decodeErr != nil {
		return "", nil
	}
	return healthResp.ModelVersion, nil
}
