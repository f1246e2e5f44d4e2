package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestSerper(t *testing.T, handler http.HandlerFunc) (*SerperClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewSerperClient("test-key")
	c.baseURL = srv.URL
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c, srv
}

func TestSerperJoinsOrganicSnippets(t *testing.T) {
	c, _ := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "test-key" {
			t.Errorf("X-API-KEY = %q", got)
		}
		var req serperRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "kundan choker trends" || req.Num != 10 {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"organic": [
			{"title": "a", "snippet": "first snippet"},
			{"title": "b", "snippet": ""},
			{"title": "c", "snippet": "second snippet"}
		]}`))
	})

	out, err := c.Search(context.Background(), "kundan choker trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "first snippet\n\nsecond snippet" {
		t.Errorf("out = %q", out)
	}
}

func TestSerperEmptyOrganicIsNotAnError(t *testing.T) {
	c, _ := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic": []}`))
	})

	out, err := c.Search(context.Background(), "q")
	if err != nil || out != "" {
		t.Errorf("out=%q err=%v, want empty and nil", out, err)
	}
}

func TestSerperRetriesThrottling(t *testing.T) {
	var calls int
	c, _ := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"organic": [{"snippet": "recovered"}]}`))
	})

	out, err := c.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "recovered" || calls != 3 {
		t.Errorf("out=%q calls=%d", out, calls)
	}
}

func TestSerperGivesUpAfterMaxRetries(t *testing.T) {
	var calls int
	c, _ := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 4 { // initial attempt plus three retries
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestSerperDoesNotRetryOtherErrors(t *testing.T) {
	var calls int
	c, _ := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Search(context.Background(), "q")
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSerperRequiresAPIKey(t *testing.T) {
	c := NewSerperClient("")
	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestFallbackClient(t *testing.T) {
	primaryCalls := 0
	primary := clientFunc(func(ctx context.Context, q string) (string, error) {
		primaryCalls++
		return "", nil // empty triggers fallback
	})
	secondary := clientFunc(func(ctx context.Context, q string) (string, error) {
		return "from secondary", nil
	})

	f := NewFallbackClient(primary, secondary)
	out, err := f.Search(context.Background(), "q")
	if err != nil || out != "from secondary" {
		t.Errorf("out=%q err=%v", out, err)
	}
	if primaryCalls != 1 {
		t.Errorf("primaryCalls = %d", primaryCalls)
	}
}

type clientFunc func(ctx context.Context, query string) (string, error)

func (f clientFunc) Search(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}
