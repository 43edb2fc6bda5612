package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAnalyticsURL = "http://localhost:8000"
	defaultTimeout      = 60 * time.Second // summarisation of large comment sets is slow
	defaultMaxRetries   = 2
	initialBackoff      = 500 * time.Millisecond
)

// AnalyticsClient talks to the external sentiment / summary / word-cloud service
type AnalyticsClient struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	backoff    time.Duration
}

// NewAnalyticsClient creates a client for the service at baseURL. Zero
// values fall back to the defaults.
func NewAnalyticsClient(baseURL string, timeout time.Duration, maxRetries int) *AnalyticsClient {
	if baseURL == "" {
		baseURL = defaultAnalyticsURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &AnalyticsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		backoff:    initialBackoff,
	}
}

// SentimentResult is one label/score pair from the sentiment endpoint
type SentimentResult struct {
	Label    string
	Score    float64
	HasScore bool
}

// WordCloud is the rendered image and the words it was built from
type WordCloud struct {
	ImageBase64 string   `json:"imageBase64"`
	TopWords    []string `json:"topWords"`
}

// textsRequest is the body shared by all three POST endpoints
type textsRequest struct {
	Texts []string `json:"texts"`
}

type sentimentJSON struct {
	Label *string  `json:"label"`
	Score *float64 `json:"score"`
}

// sentimentResponse covers both response shapes: a batch
// {"results": [...]} or a single {"label", "score"} object
type sentimentResponse struct {
	Results []sentimentJSON `json:"results"`
	sentimentJSON
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type wordCloudResponse struct {
	ImageBase64 *string  `json:"image_base64"`
	TopWords    []string `json:"top_words"`
}

// Sentiment labels each text. Labels are normalised to positive, negative
// or neutral where the model's raw label is recognised.
func (c *AnalyticsClient) Sentiment(ctx context.Context, texts []string) ([]SentimentResult, error) {
	body, err := c.postWithRetry(ctx, "/sentiment", textsRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sentiment: %w", err)
	}

	var resp sentimentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse sentiment response: %w", err)
	}

	items := resp.Results
	if items == nil {
		if resp.Label == nil {
			return nil, fmt.Errorf("failed to parse sentiment response: no results or label")
		}
		items = []sentimentJSON{resp.sentimentJSON}
	}

	results := make([]SentimentResult, 0, len(items))
	for _, item := range items {
		var r SentimentResult
		if item.Label != nil {
			r.Label = NormalizeSentimentLabel(*item.Label)
		}
		if item.Score != nil {
			r.Score = *item.Score
			r.HasScore = true
		}
		results = append(results, r)
	}

	return results, nil
}

// Summarize returns an abstractive summary of the texts
func (c *AnalyticsClient) Summarize(ctx context.Context, texts []string) (string, error) {
	body, err := c.postWithRetry(ctx, "/summarize", textsRequest{Texts: texts})
	if err != nil {
		return "", fmt.Errorf("failed to fetch summary: %w", err)
	}

	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse summary response: %w", err)
	}

	return resp.Summary, nil
}

// WordCloud renders a word-cloud image for the texts
func (c *AnalyticsClient) WordCloud(ctx context.Context, texts []string) (*WordCloud, error) {
	body, err := c.postWithRetry(ctx, "/wordcloud", textsRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch word cloud: %w", err)
	}

	var resp wordCloudResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse word cloud response: %w", err)
	}

	wc := &WordCloud{TopWords: resp.TopWords}
	if resp.ImageBase64 != nil {
		wc.ImageBase64 = *resp.ImageBase64
	}
	if wc.TopWords == nil {
		wc.TopWords = []string{}
	}

	return wc, nil
}

// Health checks that the analytics service is up
func (c *AnalyticsClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// postWithRetry POSTs a JSON payload with exponential backoff. Transport
// errors, 429 and 5xx responses are retried; other statuses fail at once.
func (c *AnalyticsClient) postWithRetry(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

// NormalizeSentimentLabel maps raw model labels onto positive, negative
// and neutral. Unknown labels are lower-cased and passed through.
func NormalizeSentimentLabel(label string) string {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "LABEL_0", "NEGATIVE":
		return "negative"
	case "LABEL_1", "NEUTRAL":
		return "neutral"
	case "LABEL_2", "POSITIVE":
		return "positive"
	}
	return strings.ToLower(strings.TrimSpace(label))
}
