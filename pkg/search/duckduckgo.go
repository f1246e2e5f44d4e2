package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultDuckDuckGoURL = "https://api.duckduckgo.com/"

// DuckDuckGoClient queries the DuckDuckGo Instant Answer API. It needs no
// API key, so it serves as the keyless fallback behind Serper.
type DuckDuckGoClient struct {
	baseURL    string
	maxResults int
	client     *http.Client
}

var _ Client = &DuckDuckGoClient{}

func NewDuckDuckGoClient() *DuckDuckGoClient {
	return &DuckDuckGoClient{
		baseURL:    defaultDuckDuckGoURL,
		maxResults: 10,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type duckDuckGoResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
	Results []struct {
		Text string `json:"Text"`
	} `json:"Results"`
}

func (d *DuckDuckGoClient) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("duckduckgo request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("duckduckgo error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ddgResp duckDuckGoResponse
	if err := json.Unmarshal(bodyBytes, &ddgResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	snippets := make([]string, 0, d.maxResults)
	if ddgResp.AbstractText != "" {
		snippets = append(snippets, ddgResp.AbstractText)
	}
	for _, r := range ddgResp.Results {
		if len(snippets) >= d.maxResults {
			break
		}
		if r.Text != "" {
			snippets = append(snippets, r.Text)
		}
	}
	for _, t := range ddgResp.RelatedTopics {
		if len(snippets) >= d.maxResults {
			break
		}
		if t.Text != "" {
			snippets = append(snippets, t.Text)
		}
	}
	return strings.Join(snippets, "\n\n"), nil
}
