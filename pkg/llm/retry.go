package llm

import (
	"context"
	"strings"
	"time"
)

// rateLimitMarkers are matched case-insensitively against error text. Groq
// returns 429 with "Too Many Requests"; some gateways only say "rate limit".
var rateLimitMarkers = []string{"429", "rate limit", "too many requests"}

// IsRateLimited reports whether err looks like a provider throttling response.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// RetryConfig controls the rate-limit retry decorator.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Sleep is injectable for tests. Defaults to a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:  3,
		BaseDelay: 2 * time.Second,
		MaxDelay:  30 * time.Second,
	}
}

func (c RetryConfig) normalized() RetryConfig {
	if c.Attempts <= 0 {
		c.Attempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 2 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Sleep == nil {
		c.Sleep = sleepCtx
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryingProvider decorates an LLMProvider with capped exponential backoff
// on rate-limit errors. Other errors are returned immediately.
type retryingProvider struct {
	inner LLMProvider
	cfg   RetryConfig
}

// WithRetry wraps provider so every call retries on rate-limit errors.
func WithRetry(provider LLMProvider, cfg RetryConfig) LLMProvider {
	return &retryingProvider{inner: provider, cfg: cfg.normalized()}
}

func (r *retryingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.inner.Chat(ctx, history, options...)
	})
}

func (r *retryingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.inner.Generate(ctx, prompt, options...)
	})
}

func (r *retryingProvider) do(ctx context.Context, call func() (string, error)) (string, error) {
	var lastErr error
	delay := r.cfg.BaseDelay
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		out, err := call()
		if err == nil {
			return out, nil
		}
		if !IsRateLimited(err) {
			return "", err
		}
		lastErr = err
		if attempt == r.cfg.Attempts {
			break
		}
		if err := r.cfg.Sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
		if delay > r.cfg.MaxDelay {
			delay = r.cfg.MaxDelay
		}
	}
	return "", lastErr
}
