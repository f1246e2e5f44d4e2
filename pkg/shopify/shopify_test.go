package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("shop.example.com", "2024-07", "token")
	c.endpoint = srv.URL
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func TestExecuteSendsAccessToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "token" {
			t.Errorf("access token header = %q", got)
		}
		w.Write([]byte(`{"data": {"ok": true}}`))
	})

	data, err := c.Execute(context.Background(), "query { ok }", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"ok": true}` {
		t.Errorf("data = %s", data)
	}
}

func TestExecuteRetriesOn429(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data": {}}`))
	})

	if _, err := c.Execute(context.Background(), "query {}", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d", calls)
	}
}

func TestExecuteSurfacesGraphQLErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "Field 'nope' doesn't exist"}]}`))
	})

	_, err := c.Execute(context.Background(), "query { nope }", nil)
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("err = %v", err)
	}
}

func TestProductBySKU(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Variables["query"] != "sku:JS-1042" {
			t.Errorf("query variable = %v", req.Variables["query"])
		}
		w.Write([]byte(`{"data": {"products": {"edges": [{"node": {
			"id": "gid://shopify/Product/1",
			"title": "Old Title",
			"descriptionHtml": "<p>old</p>",
			"productType": "Choker",
			"status": "DRAFT",
			"images": {"edges": [{"node": {"url": "https://cdn/x.jpg"}}]},
			"variants": {"edges": [{"node": {"sku": "JS-1042", "price": "12500.00"}}]},
			"material": {"value": "gid://shopify/Metaobject/42"}
		}}]}}}`))
	})

	p, err := c.ProductBySKU(context.Background(), "JS-1042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "gid://shopify/Product/1" || p.SKU != "JS-1042" || p.Price != "12500.00" {
		t.Errorf("product = %+v", p)
	}
	if p.MaterialGID != "gid://shopify/Metaobject/42" {
		t.Errorf("material gid = %q", p.MaterialGID)
	}
	if len(p.ImageURLs) != 1 {
		t.Errorf("images = %v", p.ImageURLs)
	}
}

func TestProductBySKUNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"products": {"edges": []}}}`))
	})

	if _, err := c.ProductBySKU(context.Background(), "MISSING"); err == nil {
		t.Fatal("expected error for missing product")
	}
}

func TestSetMetafieldsUserErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"metafieldsSet": {"metafields": [], "userErrors": [
			{"field": ["metafields", "0", "value"], "message": "Value is invalid", "code": "INVALID"}
		]}}}`))
	})

	err := c.SetMetafields(context.Background(), []MetafieldInput{
		{OwnerID: "gid://shopify/Product/1", Namespace: "custom", Key: "ean", Type: "single_line_text_field", Value: "x"},
	})
	if err == nil || !strings.Contains(err.Error(), "Value is invalid") {
		t.Errorf("err = %v", err)
	}
}

func TestExtractMaterialName(t *testing.T) {
	tests := []struct {
		name   string
		fields []MetaobjectField
		want   string
	}{
		{
			"priority key wins",
			[]MetaobjectField{
				{Key: "handle", Value: "antique-gold"},
				{Key: "display_name", Value: "Antique Gold Kundan Polki"},
			},
			"Antique Gold Kundan Polki",
		},
		{
			"falls through priority order",
			[]MetaobjectField{{Key: "label", Value: "Polki"}},
			"Polki",
		},
		{
			"concatenated fallback",
			[]MetaobjectField{
				{Key: "finish", Value: "Antique"},
				{Key: "stone", Value: "Kundan"},
			},
			"Antique Kundan",
		},
		{
			"empty fields",
			nil,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMaterialName(tt.fields); got != tt.want {
				t.Errorf("ExtractMaterialName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaterialResolverCachesLookups(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"data": {"metaobject": {"id": "gid://shopify/Metaobject/42", "fields": [
			{"key": "display_name", "value": "Antique Gold Kundan Polki", "type": "single_line_text_field"}
		]}}}`))
	})
	r := NewMaterialResolver(c)

	gid := "gid://shopify/Metaobject/42"
	for i := 0; i < 3; i++ {
		name, err := r.Resolve(context.Background(), gid)
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		if name != "Antique Gold Kundan Polki" {
			t.Errorf("name = %q", name)
		}
	}
	if calls != 1 {
		t.Errorf("api calls = %d, want 1 (cached)", calls)
	}

	r.Clear()
	if _, err := r.Resolve(context.Background(), gid); err != nil {
		t.Fatalf("resolve after clear: %v", err)
	}
	if calls != 2 {
		t.Errorf("api calls after clear = %d, want 2", calls)
	}
}

func TestMaterialResolverRejectsBadGID(t *testing.T) {
	r := NewMaterialResolver(NewClient("s", "v", "t"))
	if _, err := r.Resolve(context.Background(), "not-a-gid"); err == nil {
		t.Fatal("expected error for malformed gid")
	}
}
