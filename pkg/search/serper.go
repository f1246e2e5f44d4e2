package search

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

const defaultSerperURL = "https://google.serper.dev/search"

// SerperClient queries the Serper Google Search API.
type SerperClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	maxRetries int
	client     *http.Client

	// sleep is injectable for tests. Defaults to a context-aware wait.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ Client = &SerperClient{}

func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		apiKey:     apiKey,
		baseURL:    defaultSerperURL,
		maxResults: 10,
		maxRetries: 3,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search returns the organic result snippets joined by blank lines. Rate
// limiting and quota errors (429, 403) are retried with exponential backoff
// before giving up.
func (s *SerperClient) Search(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("serper api key is not set")
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff schedule: 5s, 10s, 20s.
			wait := time.Duration(1<<(attempt-1)) * 5 * time.Second
			if err := s.sleep(ctx, wait); err != nil {
				return "", err
			}
		}

		out, err := s.searchOnce(ctx, query)
		if err == nil {
			return out, nil
		}
		if !isThrottleError(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func (s *SerperClient) searchOnce(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(serperRequest{Query: query, Num: s.maxResults})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("serper error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var serperResp serperResponse
	if err := json.Unmarshal(bodyBytes, &serperResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	snippets := make([]string, 0, len(serperResp.Organic))
	for _, r := range serperResp.Organic {
		if r.Snippet != "" {
			snippets = append(snippets, r.Snippet)
		}
	}
	return strings.Join(snippets, "\n\n"), nil
}

// isThrottleError covers rate limiting and quota exhaustion responses.
func isThrottleError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "403", "forbidden", "too many requests", "quota"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
