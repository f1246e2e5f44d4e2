package rewriter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jewel-backoffice-be/internal/pkg/logger"
	"jewel-backoffice-be/pkg/llm"
)

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }
func (testLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (testLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.Generate(ctx, history[len(history)-1].Content, options...)
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("scripted llm exhausted")
}

func newTestRewriter(provider llm.LLMProvider) *Rewriter {
	r := New(provider, testLogger{})
	r.sleep = func(ctx context.Context, d time.Duration) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	return r
}

func sampleProduct() Product {
	return Product{
		SKU:         "JS-1042",
		ProductType: "Choker",
		Material:    "Kundan Polki",
		MetalType:   "Antique Gold",
		Color:       "Emerald",
		Occasion:    "Wedding",
		Price:       12500,
		SetContents: []string{"Necklace", "Earrings"},
	}
}

func TestRewriteParsesActionFormat(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{
		`{"action": "generate_product", "action_input": {"name": "Ratnakala Emerald Kundan Set", "description": "Two sentences here. Second one."}}`,
	}}
	r := newTestRewriter(mockLLM)

	res := r.Rewrite(context.Background(), sampleProduct(), nil)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.GeneratedName != "Ratnakala Emerald Kundan Set" {
		t.Errorf("name = %q", res.GeneratedName)
	}
	if res.SKU != "JS-1042" {
		t.Errorf("sku not preserved: %q", res.SKU)
	}
}

func TestRewriteRegexSalvage(t *testing.T) {
	// Structured parsing cannot produce both fields from this garbage, but
	// the field regexes can.
	mockLLM := &scriptedLLM{responses: []string{
		`I came up with "name": "Meerabai Heritage Polki Choker" and "description": "A regal piece. Pure heritage." for you!`,
	}}
	r := newTestRewriter(mockLLM)

	res := r.Rewrite(context.Background(), sampleProduct(), nil)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.GeneratedName != "Meerabai Heritage Polki Choker" {
		t.Errorf("name = %q", res.GeneratedName)
	}
	if res.GeneratedDescription != "A regal piece. Pure heritage." {
		t.Errorf("description = %q", res.GeneratedDescription)
	}
}

func TestRewriteEmptyFieldsIsAnError(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{
		`{"action": "generate_product", "action_input": {"name": "", "description": ""}}`,
	}}
	r := newTestRewriter(mockLLM)

	res := r.Rewrite(context.Background(), sampleProduct(), nil)
	if res.Err == nil {
		t.Fatal("expected error for empty fields")
	}
}

func TestRewritePromptListsUsedNamesAndDefaults(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{
		`{"action": "generate_product", "action_input": {"name": "N", "description": "D"}}`,
	}}
	r := newTestRewriter(mockLLM)

	p := Product{SKU: "JS-1"}
	r.Rewrite(context.Background(), p, []string{"Ratnakala", "Meerabai"})

	prompt := mockLLM.prompts[0]
	for _, want := range []string{"Ratnakala, Meerabai", "Kundan Polki", "Antique Gold", "Multicolor", "Rs. 5000"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestRewriteBatchKeepsFailedSlots(t *testing.T) {
	mockLLM := &scriptedLLM{
		responses: []string{
			`{"action": "generate_product", "action_input": {"name": "First Name", "description": "D."}}`,
			"",
			`{"action": "generate_product", "action_input": {"name": "Third Name", "description": "D."}}`,
		},
		errs: []error{nil, errors.New("groq error: status 500"), nil},
	}
	r := newTestRewriter(mockLLM)

	products := []Product{{SKU: "A"}, {SKU: "B"}, {SKU: "C"}}
	results := r.RewriteBatch(context.Background(), products, nil)

	if len(results) != 3 {
		t.Fatalf("len = %d", len(results))
	}
	if results[0].Err != nil || results[0].GeneratedName != "First Name" {
		t.Errorf("first = %+v", results[0])
	}
	if results[1].Err == nil || results[1].SKU != "B" {
		t.Errorf("second = %+v", results[1])
	}
	if results[2].Err != nil {
		t.Errorf("third = %+v", results[2])
	}
	// The third prompt lists the first generated name as used.
	if !strings.Contains(mockLLM.prompts[2], "First Name") {
		t.Errorf("third prompt does not carry earlier name")
	}
}

func TestRewriteBatchStopsOnCancel(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{
		`{"action": "generate_product", "action_input": {"name": "N", "description": "D"}}`,
	}}
	r := newTestRewriter(mockLLM)
	ctx, cancel := context.WithCancel(context.Background())

	r.sleep = func(ctx context.Context, d time.Duration) error {
		// First call is the throttle; cancel before the batch delay.
		cancel()
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	results := r.RewriteBatch(ctx, []Product{{SKU: "A"}, {SKU: "B"}}, nil)
	if len(results) != 2 {
		t.Fatalf("len = %d", len(results))
	}
	if !errors.Is(results[1].Err, context.Canceled) {
		t.Errorf("second err = %v", results[1].Err)
	}
}
