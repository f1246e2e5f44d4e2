// Package search provides web search clients used to ground product copy in
// real market vocabulary.
package search

import (
	"context"
)

// Client is the contract for a web search backend. Search returns the result
// snippets concatenated into one text block, separated by blank lines. An
// empty string with a nil error means the query produced no usable results.
type Client interface {
	Search(ctx context.Context, query string) (string, error)
}

// FallbackClient tries primary first and falls through to secondary when the
// primary errors or comes back empty.
type FallbackClient struct {
	Primary   Client
	Secondary Client
}

var _ Client = &FallbackClient{}

func NewFallbackClient(primary, secondary Client) *FallbackClient {
	return &FallbackClient{Primary: primary, Secondary: secondary}
}

func (f *FallbackClient) Search(ctx context.Context, query string) (string, error) {
	out, err := f.Primary.Search(ctx, query)
	if err == nil && out != "" {
		return out, nil
	}
	if f.Secondary == nil {
		return out, err
	}
	return f.Secondary.Search(ctx, query)
}
