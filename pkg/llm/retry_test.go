package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedProvider struct {
	errs  []error
	calls int
}

func (s *scriptedProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return s.Generate(ctx, "", options...)
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	defer func() { s.calls++ }()
	if s.calls < len(s.errs) && s.errs[s.calls] != nil {
		return "", s.errs[s.calls]
	}
	return "ok", nil
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status code", errors.New("groq error: status 429, body: slow down"), true},
		{"phrase", errors.New("Rate Limit exceeded"), true},
		{"too many requests", errors.New("Too Many Requests"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetryRecoversFromThrottling(t *testing.T) {
	inner := &scriptedProvider{errs: []error{
		errors.New("status 429"),
		errors.New("rate limit"),
		nil,
	}}
	p := WithRetry(inner, RetryConfig{Attempts: 3, Sleep: noSleep})

	out, err := p.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" || inner.calls != 3 {
		t.Errorf("out=%q calls=%d", out, inner.calls)
	}
}

func TestWithRetryGivesUpAtCeiling(t *testing.T) {
	inner := &scriptedProvider{errs: []error{
		errors.New("status 429"),
		errors.New("status 429"),
		errors.New("status 429"),
		nil,
	}}
	p := WithRetry(inner, RetryConfig{Attempts: 3, Sleep: noSleep})

	_, err := p.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestWithRetryPassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("connection refused")
	inner := &scriptedProvider{errs: []error{boom}}
	p := WithRetry(inner, RetryConfig{Attempts: 3, Sleep: noSleep})

	_, err := p.Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}

func TestWithRetryHonorsContextDuringWait(t *testing.T) {
	inner := &scriptedProvider{errs: []error{errors.New("status 429"), nil}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := WithRetry(inner, RetryConfig{Attempts: 3, BaseDelay: time.Hour})

	_, err := p.Generate(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
