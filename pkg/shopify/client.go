// Package shopify is a thin GraphQL client for the Shopify Admin API,
// covering the product, metafield and metaobject operations the back office
// needs.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client executes GraphQL queries against one store's Admin API.
type Client struct {
	endpoint    string
	accessToken string
	client      *http.Client

	// sleep is injectable for tests. Defaults to a context-aware wait.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(shopURL, apiVersion, accessToken string) *Client {
	return &Client{
		endpoint:    fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopURL, apiVersion),
		accessToken: accessToken,
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

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute runs one GraphQL document and returns the raw data payload.
// Shopify's 429 responses are honored via the Retry-After header.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	for {
		req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Shopify-Access-Token", c.accessToken)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("shopify request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := 2
			if v := resp.Header.Get("Retry-After"); v != "" {
				if n, err := strconv.Atoi(v); err == nil {
					retryAfter = n
				}
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if err := c.sleep(ctx, time.Duration(retryAfter)*time.Second); err != nil {
				return nil, err
			}
			continue
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("shopify error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
		}

		var gqlResp graphqlResponse
		if err := json.Unmarshal(bodyBytes, &gqlResp); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		if len(gqlResp.Errors) > 0 {
			return nil, fmt.Errorf("graphql errors: %s", gqlResp.Errors[0].Message)
		}
		return gqlResp.Data, nil
	}
}
